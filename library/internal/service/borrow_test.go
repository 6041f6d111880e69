package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	mock_repository "github.com/Astemirdum/library-management/library/internal/repository/mocks"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type events struct{ got []model.LoanEvent }

func (e *events) Publish(_ context.Context, ev model.LoanEvent) error {
	e.got = append(e.got, ev)
	return nil
}

func newService(t *testing.T) (*service.Service, *mock_repository.MockRepository, *clock, *events) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_repository.NewMockRepository(ctrl)
	clk := &clock{now: t0}
	pub := &events{}
	svc := service.NewService(repo,
		auth.NewTokenManager(auth.Config{Secret: "secret"}),
		service.Config{LoanPeriod: 14 * 24 * time.Hour, FinePerDay: 1},
		zap.NewNop(),
		service.WithClock(clk.Now),
		service.WithPublisher(pub),
	)
	return svc, repo, clk, pub
}

func TestDaysOverdueAndFine(t *testing.T) {
	t.Parallel()
	due := t0
	tests := []struct {
		name     string
		returned time.Time
		days     int
		fine     float64
	}{
		{name: "early", returned: due.Add(-time.Hour), days: 0, fine: 0},
		{name: "exactly due", returned: due, days: 0, fine: 0},
		{name: "partial day", returned: due.Add(23 * time.Hour), days: 0, fine: 0},
		{name: "one day", returned: due.Add(24 * time.Hour), days: 1, fine: 1},
		{name: "six days and change", returned: due.Add(6*24*time.Hour + 5*time.Hour), days: 6, fine: 6},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			days := service.DaysOverdue(due, tt.returned)
			require.Equal(t, tt.days, days)
			require.Equal(t, tt.fine, service.Fine(days, 1))
		})
	}
	require.Equal(t, 0.75, service.Fine(3, 0.25))
}

func TestService_BorrowAndReturnLate(t *testing.T) {
	t.Parallel()
	svc, repo, clk, pub := newService(t)
	student := auth.Identity{UserID: 3, Role: auth.RoleStudent}
	due := t0.Add(14 * 24 * time.Hour)

	opened := model.BorrowRecord{
		ID: 1, UserID: 3, BookID: 7,
		BorrowedAt: t0, DueAt: due, Status: model.LoanBorrowed,
	}
	repo.EXPECT().
		Borrow(gomock.Any(), model.NewBorrow{UserID: 3, BookID: 7, BorrowedAt: t0, DueAt: due}).
		Return(opened, nil)

	rec, err := svc.Borrow(context.Background(), student, 7)
	require.NoError(t, err)
	require.Equal(t, model.LoanBorrowed, rec.Status)
	require.Equal(t, model.LoanBorrowed, rec.DisplayStatus)
	require.Equal(t, due, rec.DueAt)

	returnedAt := t0.Add(20 * 24 * time.Hour)
	clk.now = returnedAt
	closed := opened
	closed.ReturnedAt = &returnedAt
	closed.Status = model.LoanReturned
	closed.FineAmount = 6

	gomock.InOrder(
		repo.EXPECT().
			GetOpenBorrowRecord(gomock.Any(), model.ReturnScope{RecordID: 1, OwnerID: 3}).
			Return(opened, nil),
		repo.EXPECT().
			CloseBorrowRecord(gomock.Any(), 1, returnedAt, 6.0).
			Return(closed, nil),
	)

	rec, err = svc.Return(context.Background(), student, 1)
	require.NoError(t, err)
	require.Equal(t, model.LoanReturned, rec.Status)
	require.Equal(t, model.LoanReturned, rec.DisplayStatus)
	require.Equal(t, 6.0, rec.FineAmount)
	require.Equal(t, 6.0, rec.Balance)

	require.Len(t, pub.got, 2)
	require.Equal(t, model.EventBorrowed, pub.got[0].EventType)
	require.Equal(t, model.EventReturned, pub.got[1].EventType)
	require.Equal(t, 6.0, pub.got[1].Amount)
}

func TestService_ReturnScope(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		id    auth.Identity
		scope model.ReturnScope
	}{
		{name: "student returns own", id: auth.Identity{UserID: 3, Role: auth.RoleStudent}, scope: model.ReturnScope{RecordID: 9, OwnerID: 3}},
		{name: "librarian returns any", id: auth.Identity{UserID: 2, Role: auth.RoleLibrarian}, scope: model.ReturnScope{RecordID: 9}},
		{name: "admin returns any", id: auth.Identity{UserID: 1, Role: auth.RoleAdmin}, scope: model.ReturnScope{RecordID: 9}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, _, pub := newService(t)
			notFound := errs.NewNotFound("Borrow record not found or already returned")
			repo.EXPECT().GetOpenBorrowRecord(gomock.Any(), tt.scope).Return(model.BorrowRecord{}, notFound)

			_, err := svc.Return(context.Background(), tt.id, 9)
			require.ErrorIs(t, err, errs.ErrNotFound)
			require.Empty(t, pub.got)
		})
	}
}

func TestService_ReturnOnTimeHasNoFine(t *testing.T) {
	t.Parallel()
	svc, repo, clk, _ := newService(t)
	due := t0.Add(14 * 24 * time.Hour)
	clk.now = due
	open := model.BorrowRecord{ID: 4, UserID: 3, BookID: 7, BorrowedAt: t0, DueAt: due}
	closed := open
	closed.ReturnedAt = &clk.now
	closed.Status = model.LoanReturned

	repo.EXPECT().GetOpenBorrowRecord(gomock.Any(), gomock.Any()).Return(open, nil)
	repo.EXPECT().CloseBorrowRecord(gomock.Any(), 4, due, 0.0).Return(closed, nil)

	rec, err := svc.Return(context.Background(), auth.Identity{UserID: 3, Role: auth.RoleStudent}, 4)
	require.NoError(t, err)
	require.Zero(t, rec.FineAmount)
}

func TestService_BorrowUnavailable(t *testing.T) {
	t.Parallel()
	svc, repo, _, pub := newService(t)
	repo.EXPECT().Borrow(gomock.Any(), gomock.Any()).Return(model.BorrowRecord{}, errs.ErrUnavailable)

	_, err := svc.Borrow(context.Background(), auth.Identity{UserID: 3, Role: auth.RoleStudent}, 7)
	require.ErrorIs(t, err, errs.ErrUnavailable)
	require.Empty(t, pub.got)
}

func TestService_GetBorrowRecordHidesOthers(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)
	rec := model.BorrowRecord{ID: 5, UserID: 8, DueAt: t0.Add(-time.Hour)}
	repo.EXPECT().GetBorrowRecord(gomock.Any(), 5).Return(rec, nil).Times(2)

	_, err := svc.GetBorrowRecord(context.Background(), auth.Identity{UserID: 3, Role: auth.RoleStudent}, 5)
	require.ErrorIs(t, err, errs.ErrNotFound)

	got, err := svc.GetBorrowRecord(context.Background(), auth.Identity{UserID: 1, Role: auth.RoleAdmin}, 5)
	require.NoError(t, err)
	require.Equal(t, model.LoanOverdue, got.DisplayStatus)
}

func TestService_AllBorrowRecordsForbiddenForStudents(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newService(t)
	_, err := svc.AllBorrowRecords(context.Background(), auth.Identity{UserID: 3, Role: auth.RoleStudent})
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestService_PayFine(t *testing.T) {
	t.Parallel()
	svc, repo, _, pub := newService(t)
	rec := model.BorrowRecord{ID: 5, UserID: 3, BookID: 7}
	repo.EXPECT().GetBorrowRecord(gomock.Any(), 5).Return(rec, nil).Times(2)
	repo.EXPECT().CreateFinePayment(gomock.Any(), 5, 2.5, t0).
		Return(model.FinePayment{ID: 1, BorrowRecordID: 5, Amount: 2.5, PaidAt: t0}, nil)
	repo.EXPECT().CreateFinePayment(gomock.Any(), 5, 10.0, t0).
		Return(model.FinePayment{}, errors.Wrap(errs.ErrOverpayment, "CreateFinePayment"))

	payment, err := svc.PayFine(context.Background(), 5, 2.5)
	require.NoError(t, err)
	require.Equal(t, 2.5, payment.Amount)
	require.Len(t, pub.got, 1)
	require.Equal(t, model.EventFinePaid, pub.got[0].EventType)

	_, err = svc.PayFine(context.Background(), 5, 10)
	require.ErrorIs(t, err, errs.ErrOverpayment)
}

func TestService_PayFineRoundsToCents(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)

	for _, amount := range []float64{0.001, 0.004, -1} {
		_, err := svc.PayFine(context.Background(), 5, amount)
		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr, amount)
		require.Equal(t, []string{"The amount must be at least 0.01."}, verr.Fields["amount"])
	}

	repo.EXPECT().GetBorrowRecord(gomock.Any(), 5).Return(model.BorrowRecord{ID: 5}, nil)
	repo.EXPECT().CreateFinePayment(gomock.Any(), 5, 0.01, t0).
		Return(model.FinePayment{ID: 2, BorrowRecordID: 5, Amount: 0.01, PaidAt: t0}, nil)
	payment, err := svc.PayFine(context.Background(), 5, 0.006)
	require.NoError(t, err)
	require.Equal(t, 0.01, payment.Amount)
}
