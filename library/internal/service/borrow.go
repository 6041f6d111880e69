package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const day = 24 * time.Hour

// DaysOverdue counts whole days past due; a return on or before due is 0.
func DaysOverdue(dueAt, returnedAt time.Time) int {
	if !returnedAt.After(dueAt) {
		return 0
	}
	return int(returnedAt.Sub(dueAt) / day)
}

func Fine(daysOverdue int, perDay float64) float64 {
	if daysOverdue <= 0 {
		return 0
	}
	return model.RoundCents(float64(daysOverdue) * perDay)
}

func (s *Service) Borrow(ctx context.Context, id auth.Identity, bookID int) (model.BorrowRecord, error) {
	s.log.Info("Borrow request", zap.Int("user_id", id.UserID), zap.Int("book_id", bookID))
	now := s.now()
	rec, err := s.repo.Borrow(ctx, model.NewBorrow{
		UserID:     id.UserID,
		BookID:     bookID,
		BorrowedAt: now,
		DueAt:      now.Add(s.cfg.LoanPeriod),
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	rec.Derive(now)
	s.emit(ctx, model.EventBorrowed, rec, 0)
	return rec, nil
}

// Return closes an open loan. Staff may close any record, students only their own.
func (s *Service) Return(ctx context.Context, id auth.Identity, recordID int) (model.BorrowRecord, error) {
	log := s.log.With(zap.Int("record_id", recordID), zap.Int("user_id", id.UserID), zap.String("user_role", id.Role))
	log.Info("Return book request")

	scope := model.ReturnScope{RecordID: recordID}
	if !id.IsStaff() {
		scope.OwnerID = id.UserID
	}
	open, err := s.repo.GetOpenBorrowRecord(ctx, scope)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			log.Warn("Borrow record not found or already returned")
		}
		return model.BorrowRecord{}, err
	}

	now := s.now()
	fine := Fine(DaysOverdue(open.DueAt, now), s.cfg.FinePerDay)
	rec, err := s.repo.CloseBorrowRecord(ctx, open.ID, now, fine)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			log.Warn("Borrow record not found or already returned")
		}
		return model.BorrowRecord{}, err
	}
	rec.Derive(now)
	s.emit(ctx, model.EventReturned, rec, fine)
	return rec, nil
}

// OpenLoans lists the caller's loans that are not returned yet.
func (s *Service) OpenLoans(ctx context.Context, id auth.Identity) ([]model.BorrowRecord, error) {
	return s.listRecords(ctx, model.BorrowFilter{UserID: id.UserID, OpenOnly: true})
}

func (s *Service) BorrowHistory(ctx context.Context, id auth.Identity) ([]model.BorrowRecord, error) {
	return s.listRecords(ctx, model.BorrowFilter{UserID: id.UserID, WithCategories: true})
}

func (s *Service) AllBorrowRecords(ctx context.Context, id auth.Identity) ([]model.BorrowRecord, error) {
	s.log.Info("User attempting to get all borrow records", zap.Int("id", id.UserID), zap.String("role", id.Role))
	if !id.IsStaff() {
		s.log.Warn("Unauthorized user attempted to access all borrow records",
			zap.Int("user_id", id.UserID), zap.String("role", id.Role))
		return nil, errs.ErrForbidden
	}
	records, err := s.listRecords(ctx, model.BorrowFilter{WithCategories: true})
	if err != nil {
		return nil, err
	}
	s.log.Info("Retrieved borrow records", zap.Int("count", len(records)))
	return records, nil
}

func (s *Service) listRecords(ctx context.Context, filter model.BorrowFilter) ([]model.BorrowRecord, error) {
	records, err := s.repo.ListBorrowRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range records {
		records[i].Derive(now)
	}
	return records, nil
}

// GetBorrowRecord hides records of other users from students.
func (s *Service) GetBorrowRecord(ctx context.Context, id auth.Identity, recordID int) (model.BorrowRecord, error) {
	rec, err := s.repo.GetBorrowRecord(ctx, recordID)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	if !id.IsStaff() && rec.UserID != id.UserID {
		return model.BorrowRecord{}, errs.NewNotFound("Borrow record not found")
	}
	rec.Derive(s.now())
	return rec, nil
}

func (s *Service) emit(ctx context.Context, typ model.LoanEventType, rec model.BorrowRecord, amount float64) {
	ev := model.LoanEvent{
		EventType:  typ,
		RecordID:   rec.ID,
		UserID:     rec.UserID,
		BookID:     rec.BookID,
		Amount:     amount,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("loan event not published", zap.String("type", string(typ)), zap.Int("record_id", rec.ID), zap.Error(err))
	}
}
