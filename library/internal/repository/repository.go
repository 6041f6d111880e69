package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateUser(ctx context.Context, u model.NewUser) (model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context, role string) ([]model.User, error)
	UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) (model.User, error)
	DeleteUser(ctx context.Context, id int) error
	CountUsers(ctx context.Context, role string) (int, error)

	CreateSession(ctx context.Context, s model.Session) error
	SessionRole(ctx context.Context, sessionID string, userID int) (string, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error

	ListAuthors(ctx context.Context) ([]model.Author, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	CreateAuthor(ctx context.Context, req model.AuthorRequest) (model.Author, error)
	UpdateAuthor(ctx context.Context, id int, req model.AuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error

	ListPublishers(ctx context.Context) ([]model.Publisher, error)
	GetPublisher(ctx context.Context, id int) (model.Publisher, error)
	CreatePublisher(ctx context.Context, req model.PublisherRequest) (model.Publisher, error)
	UpdatePublisher(ctx context.Context, id int, req model.PublisherRequest) (model.Publisher, error)
	DeletePublisher(ctx context.Context, id int) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int) (model.Category, error)
	CreateCategory(ctx context.Context, req model.CategoryRequest) (model.Category, error)
	UpdateCategory(ctx context.Context, id int, req model.CategoryRequest) (model.Category, error)
	DeleteCategory(ctx context.Context, id int) error

	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (int, error)
	UpdateBook(ctx context.Context, id int, req model.BookRequest) error
	DeleteBook(ctx context.Context, id int) error
	BookFormData(ctx context.Context) (model.BookFormData, error)
	MissingIDs(ctx context.Context, table string, ids []int) ([]int, error)

	Borrow(ctx context.Context, nb model.NewBorrow) (model.BorrowRecord, error)
	GetBorrowRecord(ctx context.Context, id int) (model.BorrowRecord, error)
	GetOpenBorrowRecord(ctx context.Context, scope model.ReturnScope) (model.BorrowRecord, error)
	CloseBorrowRecord(ctx context.Context, id int, returnedAt time.Time, fine float64) (model.BorrowRecord, error)
	ListBorrowRecords(ctx context.Context, filter model.BorrowFilter) ([]model.BorrowRecord, error)

	CreateFinePayment(ctx context.Context, recordID int, amount float64, paidAt time.Time) (model.FinePayment, error)
	ListFinePayments(ctx context.Context, recordID int) ([]model.FinePayment, error)

	CountBooks(ctx context.Context) (int, error)
	SumAvailableCopies(ctx context.Context) (int, error)
	CountActiveLoans(ctx context.Context) (int, error)
	CountOverdueLoans(ctx context.Context, now time.Time) (int, error)
	CountBorrowedBooks(ctx context.Context) (int, error)
	CountBorrows(ctx context.Context, rng model.ReportRange) (int, error)
	RecentLoans(ctx context.Context, limit int) ([]model.RecentLoan, error)
	BooksByCategory(ctx context.Context) ([]model.NameValue, error)
	BorrowingTrends(ctx context.Context, rng model.ReportRange) ([]model.TrendPoint, error)
	TopBorrowedBooks(ctx context.Context, limit int) ([]model.TitleCount, error)
	FineTotals(ctx context.Context) (total, collected float64, err error)

	InsertLoanEvent(ctx context.Context, ev model.LoanEvent) error
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName          = `users`
	sessionsTableName       = `sessions`
	booksTableName          = `books`
	bookCategoriesTableName = `book_categories`
	borrowRecordsTableName  = `borrow_records`
	finePaymentsTableName   = `fine_payments`
	loanEventsTableName     = `loan_events`

	AuthorsTable    = `authors`
	PublishersTable = `publishers`
	CategoriesTable = `categories`
)

var idColumns = map[string]string{
	AuthorsTable:    "author_id",
	PublishersTable: "publisher_id",
	CategoriesTable: "category_id",
	booksTableName:  "book_id",
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func collect[T any](ctx context.Context, q querier, b sq.Sqlizer) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

func collectOne[T any](ctx context.Context, q querier, b sq.Sqlizer, notFound string) (T, error) {
	var zero T
	query, args, err := b.ToSql()
	if err != nil {
		return zero, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, errs.NewNotFound(notFound)
		}
		return zero, err
	}
	return item, nil
}

func scalar[T any](ctx context.Context, q querier, b sq.Sqlizer) (T, error) {
	var v T
	query, args, err := b.ToSql()
	if err != nil {
		return v, err
	}
	err = q.QueryRow(ctx, query, args...).Scan(&v)
	return v, err
}

func exec(ctx context.Context, q querier, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapPgErr(err)
	}
	return tag.RowsAffected(), nil
}

func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.TableName == usersTableName {
			return errs.ErrEmailTaken
		}
	case pgerrcode.ForeignKeyViolation:
		return errors.Wrap(errs.ErrInUse, pgErr.ConstraintName)
	}
	return err
}

func (r *repository) MissingIDs(ctx context.Context, table string, ids []int) ([]int, error) {
	col, ok := idColumns[table]
	if !ok {
		return nil, errors.Errorf("unknown table %q", table)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := collectIDs(ctx, r.db, qb.Select(col).From(table).Where(sq.Eq{col: ids}))
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	var missing []int
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	return missing, nil
}

func collectIDs(ctx context.Context, q querier, b sq.Sqlizer) ([]int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}
