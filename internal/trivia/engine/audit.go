package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/quizchain/internal/storage"
)

// Audit event types, one per mutating operation.
const (
	auditQuestionAdded   = "question.added"
	auditQuestionRetired = "question.retired"
	auditPoolFunded      = "pool.funded"
	auditAnswerCommitted = "answer.committed"
	auditAnswerRevealed  = "answer.revealed"
)

// appendAudit records one operation in the append-only log within the same
// transaction as the operation's writes.
func (e *Engine) appendAudit(ctx context.Context, tx storage.Store, eventType, player string, questionID, currentTick uint64, payload any) error {
	var raw []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		raw = encoded
	}

	return tx.AppendAuditEvent(ctx, storage.AuditEvent{
		Type:       eventType,
		Player:     player,
		QuestionID: questionID,
		Tick:       currentTick,
		Payload:    raw,
		Timestamp:  e.clock().UTC(),
	})
}

// ListAuditEvents returns a page of the append-only operation log in append
// order.
func (e *Engine) ListAuditEvents(ctx context.Context, pageSize int, pageToken string) (storage.AuditPage, error) {
	return e.store.ListAuditEvents(ctx, pageSize, pageToken)
}
