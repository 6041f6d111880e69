package service

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

func (s *Service) ListFinePayments(ctx context.Context, id auth.Identity, recordID int) ([]model.FinePayment, error) {
	if _, err := s.GetBorrowRecord(ctx, id, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListFinePayments(ctx, recordID)
}

// PayFine records a partial or full payment against a returned loan.
func (s *Service) PayFine(ctx context.Context, recordID int, amount float64) (model.FinePayment, error) {
	amount = model.RoundCents(amount)
	if amount <= 0 {
		return model.FinePayment{}, errs.NewValidation("amount", "The amount must be at least 0.01.")
	}
	rec, err := s.repo.GetBorrowRecord(ctx, recordID)
	if err != nil {
		return model.FinePayment{}, err
	}
	payment, err := s.repo.CreateFinePayment(ctx, recordID, amount, s.now())
	if err != nil {
		return model.FinePayment{}, err
	}
	s.emit(ctx, model.EventFinePaid, rec, payment.Amount)
	return payment, nil
}
