package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/louisbranch/quizchain/internal/storage"
	"go.etcd.io/bbolt"
)

// AppendAuditEvent appends one event to the audit log. Seq comes from the
// bucket sequence, so it strictly increases in append order.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(auditBucket))
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("next audit sequence: %w", err)
		}
		evt.Seq = seq

		payload, err := json.Marshal(toAuditRecord(evt))
		if err != nil {
			return fmt.Errorf("marshal audit event: %w", err)
		}
		return bucket.Put(u64Key(seq), payload)
	})
}

// ListAuditEvents returns a page of audit events in append order.
func (s *Store) ListAuditEvents(ctx context.Context, pageSize int, pageToken string) (storage.AuditPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.AuditPage{}, err
	}

	var after uint64
	if pageToken != "" {
		parsed, err := strconv.ParseUint(pageToken, 10, 64)
		if err != nil {
			return storage.AuditPage{}, fmt.Errorf("parse page token: %w", err)
		}
		after = parsed
	}

	var page storage.AuditPage
	err := s.view(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket([]byte(auditBucket)).Cursor()
		for key, payload := cursor.Seek(u64Key(after + 1)); key != nil; key, payload = cursor.Next() {
			if pageSize > 0 && len(page.Events) == pageSize {
				page.NextPageToken = strconv.FormatUint(page.Events[pageSize-1].Seq, 10)
				return nil
			}
			var record auditRecord
			if err := json.Unmarshal(payload, &record); err != nil {
				return fmt.Errorf("unmarshal audit event: %w", err)
			}
			page.Events = append(page.Events, record.toDomain())
		}
		return nil
	})
	if err != nil {
		return storage.AuditPage{}, err
	}
	return page, nil
}
