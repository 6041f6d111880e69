package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

var finePaymentColumns = []string{"id", "borrow_record_id", "amount::float8 as amount", "paid_at", "created_at"}

type fineState struct {
	Returned bool    `db:"returned"`
	Fine     float64 `db:"fine"`
}

// CreateFinePayment locks the record so concurrent payments cannot exceed the fine.
func (r *repository) CreateFinePayment(ctx context.Context, recordID int, amount float64, paidAt time.Time) (model.FinePayment, error) {
	var payment model.FinePayment
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		state, err := collectOne[fineState](ctx, tx, qb.Select("returned_at is not null as returned", "fine_amount::float8 as fine").
			From(borrowRecordsTableName).
			Where(sq.Eq{"id": recordID}).
			Suffix("for update"), recordNotFound)
		if err != nil {
			return err
		}
		if !state.Returned {
			return errs.ErrNotReturned
		}
		paid, err := scalar[float64](ctx, tx, qb.Select("coalesce(sum(amount), 0)::float8").
			From(finePaymentsTableName).
			Where(sq.Eq{"borrow_record_id": recordID}))
		if err != nil {
			return err
		}
		if model.RoundCents(amount) > model.RoundCents(state.Fine-paid) {
			return errs.ErrOverpayment
		}
		payment, err = collectOne[model.FinePayment](ctx, tx, qb.Insert(finePaymentsTableName).
			Columns("borrow_record_id", "amount", "paid_at").
			Values(recordID, model.RoundCents(amount), paidAt).
			Suffix("returning id, borrow_record_id, amount::float8 as amount, paid_at, created_at"), recordNotFound)
		return err
	})
	if err != nil {
		return model.FinePayment{}, errors.Wrap(err, "CreateFinePayment")
	}
	return payment, nil
}

func (r *repository) ListFinePayments(ctx context.Context, recordID int) ([]model.FinePayment, error) {
	return collect[model.FinePayment](ctx, r.db, qb.Select(finePaymentColumns...).
		From(finePaymentsTableName).
		Where(sq.Eq{"borrow_record_id": recordID}).
		OrderBy("paid_at", "id"))
}
