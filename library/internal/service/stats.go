package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"golang.org/x/sync/errgroup"
)

const (
	recentLoansLimit = 5
	topBooksLimit    = 10
	defaultReportLen = 30 * day
	maxReportLen     = 366 * day
)

func (s *Service) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	now := s.now()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalBooks, err = s.repo.CountBooks(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.AvailableCopies, err = s.repo.SumAvailableCopies(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveLoans, err = s.repo.CountActiveLoans(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.OverdueLoans, err = s.repo.CountOverdueLoans(ctx, now)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStudents, err = s.repo.CountUsers(ctx, auth.RoleStudent)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentLoans, err = s.repo.RecentLoans(ctx, recentLoansLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.DashboardStats{}, err
	}
	for i, l := range stats.RecentLoans {
		stats.RecentLoans[i].Status = model.LoanDisplayStatus(l.ReturnedAt, l.DueAt, now)
	}
	return stats, nil
}

// ReportRange resolves the requested dates to [start, end+1day). Missing dates
// default to the last 30 days ending today. A range spans at most 366 days.
func (s *Service) ReportRange(req model.ReportRequest) (model.ReportRange, error) {
	today := s.now().UTC().Truncate(day)
	end := today
	if req.EndDate != "" {
		t, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return model.ReportRange{}, errs.NewValidation("end_date", "The end date is not a valid date.")
		}
		end = t
	}
	start := end.Add(-defaultReportLen)
	if req.StartDate != "" {
		t, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return model.ReportRange{}, errs.NewValidation("start_date", "The start date is not a valid date.")
		}
		start = t
	}
	if start.After(end) {
		return model.ReportRange{}, errs.NewValidation("end_date", "The end date must be a date after or equal to start date.")
	}
	end = end.Add(day)
	if end.Sub(start) > maxReportLen {
		return model.ReportRange{}, errs.NewValidation("start_date", "The report range may not be longer than 366 days.")
	}
	return model.ReportRange{Start: start, End: end}, nil
}

func (s *Service) Report(ctx context.Context, rng model.ReportRange) (model.Report, error) {
	now := s.now()
	rep := model.Report{
		StartDate: rng.Start.Format(time.DateOnly),
		EndDate:   rng.End.Add(-day).Format(time.DateOnly),
	}
	var borrowed int
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rep.TotalBooks, err = s.repo.CountBooks(ctx)
		return err
	})
	g.Go(func() (err error) {
		borrowed, err = s.repo.CountBorrowedBooks(ctx)
		return err
	})
	g.Go(func() (err error) {
		rep.TotalBorrows, err = s.repo.CountBorrows(ctx, rng)
		return err
	})
	g.Go(func() (err error) {
		rep.BooksByCategory, err = s.repo.BooksByCategory(ctx)
		return err
	})
	g.Go(func() (err error) {
		rep.BorrowingTrends, err = s.repo.BorrowingTrends(ctx, rng)
		return err
	})
	g.Go(func() (err error) {
		rep.TopBorrowedBooks, err = s.repo.TopBorrowedBooks(ctx, topBooksLimit)
		return err
	})
	g.Go(func() (err error) {
		rep.OverdueBooks, err = s.repo.ListBorrowRecords(ctx, model.BorrowFilter{OverdueAt: &now})
		return err
	})
	g.Go(func() (err error) {
		rep.TotalFines, rep.CollectedFines, err = s.repo.FineTotals(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Report{}, err
	}
	rep.BorrowedBooks = borrowed
	rep.AvailableBooks = rep.TotalBooks - borrowed
	for i := range rep.OverdueBooks {
		rep.OverdueBooks[i].Derive(now)
	}
	return rep, nil
}
