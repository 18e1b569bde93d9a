package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/louisbranch/quizchain/internal/storage"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// AppendAuditEvent appends one event to the audit log. Seq is assigned by the
// table's autoincrement column.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO audit_events (event_type, player, question_id, tick, payload, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`,
		evt.Type,
		evt.Player,
		int64(evt.QuestionID),
		int64(evt.Tick),
		evt.Payload,
		toMillis(evt.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns a page of audit events in append order.
func (s *Store) ListAuditEvents(ctx context.Context, pageSize int, pageToken string) (storage.AuditPage, error) {
	var after uint64
	if pageToken != "" {
		parsed, err := strconv.ParseUint(pageToken, 10, 64)
		if err != nil {
			return storage.AuditPage{}, fmt.Errorf("parse page token: %w", err)
		}
		after = parsed
	}

	limit := pageSize
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT seq, event_type, player, question_id, tick, payload, created_at
FROM audit_events
WHERE seq > ?
ORDER BY seq ASC
LIMIT ?
`, int64(after), limit)
	if err != nil {
		return storage.AuditPage{}, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var page storage.AuditPage
	for rows.Next() {
		var evt storage.AuditEvent
		var seq, questionID, eventTick, createdAt int64
		if err := rows.Scan(&seq, &evt.Type, &evt.Player, &questionID, &eventTick, &evt.Payload, &createdAt); err != nil {
			return storage.AuditPage{}, fmt.Errorf("scan audit event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.QuestionID = uint64(questionID)
		evt.Tick = uint64(eventTick)
		evt.Timestamp = fromMillis(createdAt)
		page.Events = append(page.Events, evt)
	}
	if err := rows.Err(); err != nil {
		return storage.AuditPage{}, fmt.Errorf("iterate audit events: %w", err)
	}

	if pageSize > 0 && len(page.Events) == pageSize {
		last := page.Events[len(page.Events)-1].Seq
		var more int
		row := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM audit_events WHERE seq > ?)`, int64(last))
		if err := row.Scan(&more); err != nil {
			return storage.AuditPage{}, fmt.Errorf("probe next page: %w", err)
		}
		if more == 1 {
			page.NextPageToken = strconv.FormatUint(last, 10)
		}
	}
	return page, nil
}
