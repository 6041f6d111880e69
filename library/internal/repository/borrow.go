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

const (
	recordNotFound     = "Borrow record not found"
	openRecordNotFound = "Borrow record not found or already returned"
)

type recordRow struct {
	ID            int        `db:"id"`
	UserID        int        `db:"user_id"`
	BookID        int        `db:"book_id"`
	BorrowedAt    time.Time  `db:"borrowed_at"`
	DueAt         time.Time  `db:"due_at"`
	ReturnedAt    *time.Time `db:"returned_at"`
	FineAmount    float64    `db:"fine_amount"`
	Status        string     `db:"status"`
	TotalPaid     float64    `db:"total_paid"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	BookTitle     *string    `db:"book_title"`
	BookISBN      *string    `db:"book_isbn"`
	AuthorID      *int       `db:"author_id"`
	AuthorName    *string    `db:"author_name"`
	PublisherID   *int       `db:"publisher_id"`
	PublisherName *string    `db:"publisher_name"`
	UserName      *string    `db:"user_name"`
	UserEmail     *string    `db:"user_email"`
	UserRole      *string    `db:"user_role"`
}

func (row recordRow) record() model.BorrowRecord {
	rec := model.BorrowRecord{
		ID:         row.ID,
		UserID:     row.UserID,
		BookID:     row.BookID,
		BorrowedAt: row.BorrowedAt,
		DueAt:      row.DueAt,
		ReturnedAt: row.ReturnedAt,
		FineAmount: row.FineAmount,
		Status:     model.LoanStatus(row.Status),
		TotalPaid:  row.TotalPaid,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.BookTitle != nil {
		isbn := ""
		if row.BookISBN != nil {
			isbn = *row.BookISBN
		}
		rec.Book = &model.BookSummary{
			ID:        row.BookID,
			Title:     *row.BookTitle,
			ISBN:      isbn,
			Author:    model.NewRef(row.AuthorID, row.AuthorName),
			Publisher: model.NewRef(row.PublisherID, row.PublisherName),
		}
	}
	if row.UserName != nil {
		rec.User = &model.UserRef{ID: row.UserID, Name: *row.UserName}
		if row.UserEmail != nil {
			rec.User.Email = *row.UserEmail
		}
		if row.UserRole != nil {
			rec.User.Role = *row.UserRole
		}
	}
	return rec
}

func recordSelect() sq.SelectBuilder {
	return qb.Select(
		"r.id", "r.user_id", "r.book_id", "r.borrowed_at", "r.due_at", "r.returned_at",
		"r.fine_amount::float8 as fine_amount", "r.status",
		"coalesce((select sum(fp.amount) from fine_payments fp where fp.borrow_record_id = r.id), 0)::float8 as total_paid",
		"r.created_at", "r.updated_at",
		"b.title as book_title", "b.isbn as book_isbn",
		"b.author_id", "a.name as author_name",
		"b.publisher_id", "p.name as publisher_name",
		"u.name as user_name", "u.email as user_email", "u.role as user_role",
	).
		From(borrowRecordsTableName + " r").
		LeftJoin(booksTableName + " b on b.book_id = r.book_id").
		LeftJoin(AuthorsTable + " a on a.author_id = b.author_id").
		LeftJoin(PublishersTable + " p on p.publisher_id = b.publisher_id").
		LeftJoin(usersTableName + " u on u.id = r.user_id")
}

// Borrow takes a copy and opens the record in one transaction.
// The decrement only matches while a copy is left, so concurrent borrows cannot overdraw a book.
func (r *repository) Borrow(ctx context.Context, nb model.NewBorrow) (model.BorrowRecord, error) {
	var id int
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		n, err := exec(ctx, tx, qb.Update(booksTableName).
			Set("available_copies", sq.Expr("available_copies - 1")).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"book_id": nb.BookID}).
			Where("available_copies > 0"))
		if err != nil {
			return err
		}
		if n == 0 {
			exists, err := scalar[bool](ctx, tx, qb.Select().
				Column(sq.Expr("exists (?)", sq.Select("1").From(booksTableName).Where(sq.Eq{"book_id": nb.BookID}))))
			if err != nil {
				return err
			}
			if !exists {
				return errs.NewNotFound(bookNotFound)
			}
			return errs.ErrUnavailable
		}
		id, err = scalar[int](ctx, tx, qb.Insert(borrowRecordsTableName).
			Columns("user_id", "book_id", "borrowed_at", "due_at", "status").
			Values(nb.UserID, nb.BookID, nb.BorrowedAt, nb.DueAt, string(model.LoanBorrowed)).
			Suffix("returning id"))
		return mapPgErr(err)
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return r.GetBorrowRecord(ctx, id)
}

func (r *repository) GetBorrowRecord(ctx context.Context, id int) (model.BorrowRecord, error) {
	return r.getRecord(ctx, r.db, recordSelect().Where(sq.Eq{"r.id": id}), recordNotFound)
}

func (r *repository) GetOpenBorrowRecord(ctx context.Context, scope model.ReturnScope) (model.BorrowRecord, error) {
	q := recordSelect().Where(sq.Eq{"r.id": scope.RecordID, "r.returned_at": nil})
	if scope.OwnerID > 0 {
		q = q.Where(sq.Eq{"r.user_id": scope.OwnerID})
	}
	return r.getRecord(ctx, r.db, q, openRecordNotFound)
}

func (r *repository) getRecord(ctx context.Context, q querier, b sq.SelectBuilder, notFound string) (model.BorrowRecord, error) {
	row, err := collectOne[recordRow](ctx, q, b, notFound)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return row.record(), nil
}

// CloseBorrowRecord returns the copy to the shelf. A record can be closed once;
// available_copies never rises above total_copies.
func (r *repository) CloseBorrowRecord(ctx context.Context, id int, returnedAt time.Time, fine float64) (model.BorrowRecord, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		bookID, err := scalar[int](ctx, tx, qb.Update(borrowRecordsTableName).
			Set("returned_at", returnedAt).
			Set("status", string(model.LoanReturned)).
			Set("fine_amount", fine).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": id, "returned_at": nil}).
			Suffix("returning book_id"))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.NewNotFound(openRecordNotFound)
			}
			return err
		}
		_, err = exec(ctx, tx, qb.Update(booksTableName).
			Set("available_copies", sq.Expr("least(available_copies + 1, total_copies)")).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"book_id": bookID}))
		return err
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return r.GetBorrowRecord(ctx, id)
}

func (r *repository) ListBorrowRecords(ctx context.Context, filter model.BorrowFilter) ([]model.BorrowRecord, error) {
	q := recordSelect().OrderBy("r.borrowed_at desc", "r.id desc")
	if filter.UserID > 0 {
		q = q.Where(sq.Eq{"r.user_id": filter.UserID})
	}
	if filter.OpenOnly || filter.OverdueAt != nil {
		q = q.Where(sq.Eq{"r.returned_at": nil})
	}
	if filter.OverdueAt != nil {
		q = q.Where(sq.Lt{"r.due_at": *filter.OverdueAt})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	rows, err := collect[recordRow](ctx, r.db, q)
	if err != nil {
		return nil, errors.Wrap(err, "ListBorrowRecords")
	}
	records := make([]model.BorrowRecord, 0, len(rows))
	bookIDs := make([]int, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
		bookIDs = append(bookIDs, row.BookID)
	}
	if !filter.WithCategories || len(records) == 0 {
		return records, nil
	}
	byBook, err := categoriesByBook(ctx, r.db, bookIDs)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Book != nil {
			records[i].Book.Categories = byBook[records[i].BookID]
		}
	}
	return records, nil
}
