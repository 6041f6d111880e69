package handler

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ LibraryService = (*service.Service)(nil)

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	Logout(ctx context.Context, id auth.Identity) error
	CurrentUser(ctx context.Context, id auth.Identity) (model.User, error)
	SessionRole(ctx context.Context, sessionID string, userID int) (string, bool, error)
}

type UserService interface {
	ListStudents(ctx context.Context) ([]model.UserListItem, error)
	CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
	UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) (model.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type CatalogService interface {
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

	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookView, error)
	GetBook(ctx context.Context, id int) (model.BookView, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.BookView, error)
	UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.BookView, error)
	DeleteBook(ctx context.Context, id int) error
	BookFormData(ctx context.Context) (model.BookFormData, error)
}

type LoanService interface {
	Borrow(ctx context.Context, id auth.Identity, bookID int) (model.BorrowRecord, error)
	Return(ctx context.Context, id auth.Identity, recordID int) (model.BorrowRecord, error)
	OpenLoans(ctx context.Context, id auth.Identity) ([]model.BorrowRecord, error)
	BorrowHistory(ctx context.Context, id auth.Identity) ([]model.BorrowRecord, error)
	AllBorrowRecords(ctx context.Context, id auth.Identity) ([]model.BorrowRecord, error)
	GetBorrowRecord(ctx context.Context, id auth.Identity, recordID int) (model.BorrowRecord, error)
	ListFinePayments(ctx context.Context, id auth.Identity, recordID int) ([]model.FinePayment, error)
	PayFine(ctx context.Context, recordID int, amount float64) (model.FinePayment, error)
}

type ReportService interface {
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	ReportRange(req model.ReportRequest) (model.ReportRange, error)
	Report(ctx context.Context, rng model.ReportRange) (model.Report, error)
}

type LibraryService interface {
	AuthService
	UserService
	CatalogService
	LoanService
	ReportService
}
