package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

func (r *repository) CountBooks(ctx context.Context) (int, error) {
	return scalar[int](ctx, r.db, qb.Select("count(*)").From(booksTableName))
}

func (r *repository) SumAvailableCopies(ctx context.Context) (int, error) {
	return scalar[int](ctx, r.db, qb.Select("coalesce(sum(available_copies), 0)").From(booksTableName))
}

func (r *repository) CountActiveLoans(ctx context.Context) (int, error) {
	return scalar[int](ctx, r.db, qb.Select("count(*)").From(borrowRecordsTableName).
		Where(sq.Eq{"returned_at": nil}))
}

func (r *repository) CountOverdueLoans(ctx context.Context, now time.Time) (int, error) {
	return scalar[int](ctx, r.db, qb.Select("count(*)").From(borrowRecordsTableName).
		Where(sq.Eq{"returned_at": nil}).
		Where(sq.Lt{"due_at": now}))
}

// CountBorrowedBooks counts distinct titles with at least one open loan.
func (r *repository) CountBorrowedBooks(ctx context.Context) (int, error) {
	return scalar[int](ctx, r.db, qb.Select("count(distinct book_id)").From(borrowRecordsTableName).
		Where(sq.Eq{"returned_at": nil}))
}

func (r *repository) CountBorrows(ctx context.Context, rng model.ReportRange) (int, error) {
	return scalar[int](ctx, r.db, qb.Select("count(*)").From(borrowRecordsTableName).
		Where(sq.GtOrEq{"borrowed_at": rng.Start}).
		Where(sq.Lt{"borrowed_at": rng.End}))
}

type recentLoanRow struct {
	ID         int        `db:"id"`
	BookID     int        `db:"book_id"`
	BookTitle  *string    `db:"book_title"`
	UserID     int        `db:"user_id"`
	UserName   *string    `db:"user_name"`
	BorrowedAt time.Time  `db:"borrowed_at"`
	DueAt      time.Time  `db:"due_at"`
	ReturnedAt *time.Time `db:"returned_at"`
}

func orUnknown(s *string) string {
	if s == nil {
		return "Unknown"
	}
	return *s
}

// RecentLoans leaves Status empty; it depends on the caller's clock.
func (r *repository) RecentLoans(ctx context.Context, limit int) ([]model.RecentLoan, error) {
	rows, err := collect[recentLoanRow](ctx, r.db, qb.Select(
		"r.id", "r.book_id", "b.title as book_title", "r.user_id", "u.name as user_name",
		"r.borrowed_at", "r.due_at", "r.returned_at").
		From(borrowRecordsTableName+" r").
		LeftJoin(booksTableName+" b on b.book_id = r.book_id").
		LeftJoin(usersTableName+" u on u.id = r.user_id").
		OrderBy("r.borrowed_at desc", "r.id desc").
		Limit(uint64(limit)))
	if err != nil {
		return nil, errors.Wrap(err, "RecentLoans")
	}
	loans := make([]model.RecentLoan, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, model.RecentLoan{
			ID:         row.ID,
			BookID:     row.BookID,
			BookTitle:  orUnknown(row.BookTitle),
			UserID:     row.UserID,
			UserName:   orUnknown(row.UserName),
			BorrowedAt: row.BorrowedAt,
			DueAt:      row.DueAt,
			ReturnedAt: row.ReturnedAt,
		})
	}
	return loans, nil
}

// BooksByCategory counts a book once per category; books without one fall under "Uncategorized".
func (r *repository) BooksByCategory(ctx context.Context) ([]model.NameValue, error) {
	return collect[model.NameValue](ctx, r.db, qb.Select("coalesce(c.name, 'Uncategorized') as name", "count(*) as value").
		From(booksTableName+" b").
		LeftJoin(bookCategoriesTableName+" bc on bc.book_id = b.book_id").
		LeftJoin(CategoriesTable+" c on c.category_id = bc.category_id").
		GroupBy("coalesce(c.name, 'Uncategorized')").
		OrderBy("value desc", "name"))
}

// BorrowingTrends yields one point per day in [rng.Start, rng.End), including empty days.
func (r *repository) BorrowingTrends(ctx context.Context, rng model.ReportRange) ([]model.TrendPoint, error) {
	return collect[model.TrendPoint](ctx, r.db, qb.Select(
		"to_char(d.day, 'YYYY-MM-DD') as day",
		"(select count(*) from borrow_records r where r.borrowed_at >= d.day and r.borrowed_at < d.day + interval '1 day') as borrows",
		"(select count(*) from borrow_records r where r.returned_at >= d.day and r.returned_at < d.day + interval '1 day') as returns",
	).
		FromSelect(qb.Select().Column(sq.Expr(
			"generate_series(?::timestamptz, ?::timestamptz - interval '1 day', interval '1 day') as day",
			rng.Start, rng.End)), "d").
		OrderBy("d.day"))
}

func (r *repository) TopBorrowedBooks(ctx context.Context, limit int) ([]model.TitleCount, error) {
	return collect[model.TitleCount](ctx, r.db, qb.Select(
		"coalesce(b.title, 'Book ' || r.book_id) as title", "count(*) as count").
		From(borrowRecordsTableName+" r").
		LeftJoin(booksTableName+" b on b.book_id = r.book_id").
		GroupBy("r.book_id", "b.title").
		OrderBy("count desc", "title").
		Limit(uint64(limit)))
}

func (r *repository) FineTotals(ctx context.Context) (total, collected float64, err error) {
	q := qb.Select(
		"coalesce((select sum(fine_amount) from borrow_records), 0)::float8",
		"coalesce((select sum(amount) from fine_payments), 0)::float8",
	)
	query, args, err := q.ToSql()
	if err != nil {
		return 0, 0, err
	}
	err = r.db.QueryRow(ctx, query, args...).Scan(&total, &collected)
	return total, collected, err
}
