package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// These tests need a disposable Postgres: TEST_DB_HOST, TEST_DB_PORT,
// TEST_DB_USER, TEST_DB_PASSWORD, TEST_DB_NAME. Without TEST_DB_HOST they are skipped.

var (
	dbOnce sync.Once
	dbPool *pgxpool.Pool
	dbErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if dbPool != nil {
		dbPool.Close()
	}
	os.Exit(code)
}

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	repo  repository.Repository
	svc   *service.Service
	now   time.Time
	owner auth.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if _, ok := os.LookupEnv("TEST_DB_HOST"); !ok {
		t.Skip("TEST_DB_HOST is not set")
	}
	dbOnce.Do(func() {
		var cfg postgres.DB
		if dbErr = envconfig.Process("TEST", &cfg); dbErr != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		dbPool, dbErr = postgres.NewPostgresDB(ctx, &cfg, migrations.MigrationFiles)
	})
	require.NoError(t, dbErr)

	repo, err := repository.NewRepository(dbPool, zap.NewNop())
	require.NoError(t, err)

	user, err := repo.CreateUser(context.Background(), model.NewUser{
		Name:         "Reader",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         auth.RoleStudent,
	})
	require.NoError(t, err)

	f := &fixture{repo: repo, now: t0, owner: auth.Identity{UserID: user.ID, Role: user.Role}}
	f.svc = service.NewService(repo, nil,
		service.Config{LoanPeriod: 14 * 24 * time.Hour, FinePerDay: 1},
		zap.NewNop(),
		service.WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) book(t *testing.T, total, available int) int {
	t.Helper()
	id, err := f.repo.CreateBook(context.Background(), model.BookRequest{
		Title:           "Dune " + uuid.NewString(),
		TotalCopies:     &total,
		AvailableCopies: &available,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) copies(t *testing.T, bookID int) (total, available int) {
	t.Helper()
	b, err := f.repo.GetBook(context.Background(), bookID)
	require.NoError(t, err)
	return b.TotalCopies, b.AvailableCopies
}

func TestBorrowReturnLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 5, 5)

	rec, err := f.svc.Borrow(ctx, f.owner, bookID)
	require.NoError(t, err)
	require.Equal(t, model.LoanBorrowed, rec.Status)
	require.Nil(t, rec.ReturnedAt)
	require.True(t, rec.DueAt.Equal(t0.Add(14*24*time.Hour)))
	total, available := f.copies(t, bookID)
	require.Equal(t, 5, total)
	require.Equal(t, 4, available)

	f.now = t0.Add(20 * 24 * time.Hour)
	closed, err := f.svc.Return(ctx, f.owner, rec.ID)
	require.NoError(t, err)
	require.Equal(t, model.LoanReturned, closed.Status)
	require.NotNil(t, closed.ReturnedAt)
	require.Equal(t, 6.0, closed.FineAmount)
	require.Equal(t, 6.0, closed.Balance)
	total, available = f.copies(t, bookID)
	require.Equal(t, 5, total)
	require.Equal(t, 5, available)

	_, err = f.svc.Return(ctx, f.owner, rec.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.EqualError(t, err, "Borrow record not found or already returned")

	_, err = f.repo.CloseBorrowRecord(ctx, rec.ID, f.now, 0)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, available = f.copies(t, bookID)
	require.Equal(t, 5, available)

	again, err := f.repo.GetBorrowRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, 6.0, again.FineAmount)
}

func TestBorrow_NoCopiesLeft(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 1, 0)

	_, err := f.svc.Borrow(ctx, f.owner, bookID)
	require.ErrorIs(t, err, errs.ErrUnavailable)

	total, available := f.copies(t, bookID)
	require.Equal(t, 1, total)
	require.Equal(t, 0, available)
	records, err := f.repo.ListBorrowRecords(ctx, model.BorrowFilter{UserID: f.owner.UserID})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestBorrow_MissingBook(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Borrow(context.Background(), f.owner, 1<<30)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.EqualError(t, err, "Book not found")
}

func TestReturn_CappedAtTotal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 5, 5)

	rec, err := f.svc.Borrow(ctx, f.owner, bookID)
	require.NoError(t, err)

	four := 4
	require.NoError(t, f.repo.UpdateBook(ctx, bookID, model.BookRequest{
		Title:           "Dune",
		TotalCopies:     &four,
		AvailableCopies: &four,
	}))

	_, err = f.svc.Return(ctx, f.owner, rec.ID)
	require.NoError(t, err)
	total, available := f.copies(t, bookID)
	require.Equal(t, 4, total)
	require.Equal(t, 4, available)
}

func TestBorrow_Concurrent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 3, 3)

	const borrowers = 10
	results := make(chan error, borrowers)
	var wg sync.WaitGroup
	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Borrow(ctx, f.owner, bookID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, unavailable int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, errs.ErrUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 3, ok)
	require.Equal(t, borrowers-3, unavailable)
	_, available := f.copies(t, bookID)
	require.Equal(t, 0, available)
}
