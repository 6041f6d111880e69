package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestService_DashboardStats(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)
	returned := t0.Add(-time.Hour)

	repo.EXPECT().CountBooks(gomock.Any()).Return(12, nil)
	repo.EXPECT().SumAvailableCopies(gomock.Any()).Return(30, nil)
	repo.EXPECT().CountActiveLoans(gomock.Any()).Return(4, nil)
	repo.EXPECT().CountOverdueLoans(gomock.Any(), t0).Return(1, nil)
	repo.EXPECT().CountUsers(gomock.Any(), auth.RoleStudent).Return(7, nil)
	repo.EXPECT().RecentLoans(gomock.Any(), 5).Return([]model.RecentLoan{
		{ID: 3, DueAt: t0.Add(time.Hour)},
		{ID: 2, DueAt: t0.Add(-time.Hour)},
		{ID: 1, DueAt: t0.Add(-time.Hour), ReturnedAt: &returned},
	}, nil)

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, stats.TotalBooks)
	require.Equal(t, 30, stats.AvailableCopies)
	require.Equal(t, 4, stats.ActiveLoans)
	require.Equal(t, 1, stats.OverdueLoans)
	require.Equal(t, 7, stats.TotalStudents)
	require.Equal(t, model.LoanBorrowed, stats.RecentLoans[0].Status)
	require.Equal(t, model.LoanOverdue, stats.RecentLoans[1].Status)
	require.Equal(t, model.LoanReturned, stats.RecentLoans[2].Status)
}

func TestService_ReportRange(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newService(t)
	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	rng, err := svc.ReportRange(model.ReportRequest{})
	require.NoError(t, err)
	require.Equal(t, today.AddDate(0, 0, -30), rng.Start)
	require.Equal(t, today.AddDate(0, 0, 1), rng.End)

	rng, err = svc.ReportRange(model.ReportRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), rng.End)

	_, err = svc.ReportRange(model.ReportRequest{StartDate: "2024-02-01", EndDate: "2024-01-31"})
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "end_date")

	rng, err = svc.ReportRange(model.ReportRequest{StartDate: "2024-01-01", EndDate: "2024-12-31"})
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rng.End)

	for _, start := range []string{"2023-12-31", "1000-01-01"} {
		_, err = svc.ReportRange(model.ReportRequest{StartDate: start, EndDate: "2024-12-31"})
		require.ErrorAs(t, err, &verr, start)
		require.Equal(t, []string{"The report range may not be longer than 366 days."}, verr.Fields["start_date"])
	}
}

func TestService_Report(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)
	rng := model.ReportRange{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	repo.EXPECT().CountBooks(gomock.Any()).Return(10, nil)
	repo.EXPECT().CountBorrowedBooks(gomock.Any()).Return(3, nil)
	repo.EXPECT().CountBorrows(gomock.Any(), rng).Return(8, nil)
	repo.EXPECT().BooksByCategory(gomock.Any()).Return([]model.NameValue{{Name: "SF", Value: 4}}, nil)
	repo.EXPECT().BorrowingTrends(gomock.Any(), rng).Return([]model.TrendPoint{{Date: "2024-02-01", Borrows: 2}}, nil)
	repo.EXPECT().TopBorrowedBooks(gomock.Any(), 10).Return([]model.TitleCount{{Title: "Dune", Count: 5}}, nil)
	repo.EXPECT().ListBorrowRecords(gomock.Any(), model.BorrowFilter{OverdueAt: &t0}).
		Return([]model.BorrowRecord{{ID: 1, DueAt: t0.Add(-48 * time.Hour)}}, nil)
	repo.EXPECT().FineTotals(gomock.Any()).Return(12.5, 4.0, nil)

	rep, err := svc.Report(context.Background(), rng)
	require.NoError(t, err)
	require.Equal(t, "2024-02-01", rep.StartDate)
	require.Equal(t, "2024-02-29", rep.EndDate)
	require.Equal(t, 7, rep.AvailableBooks)
	require.Equal(t, 3, rep.BorrowedBooks)
	require.Equal(t, 8, rep.TotalBorrows)
	require.Equal(t, model.LoanOverdue, rep.OverdueBooks[0].DisplayStatus)
	require.Equal(t, 12.5, rep.TotalFines)
	require.Equal(t, 4.0, rep.CollectedFines)
}
