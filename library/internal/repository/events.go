package repository

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func (r *repository) InsertLoanEvent(ctx context.Context, ev model.LoanEvent) error {
	_, err := exec(ctx, r.db, qb.Insert(loanEventsTableName).
		Columns("event_type", "record_id", "user_id", "book_id", "amount", "occurred_at").
		Values(string(ev.EventType), ev.RecordID, ev.UserID, ev.BookID, ev.Amount, ev.OccurredAt))
	return err
}
