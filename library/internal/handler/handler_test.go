package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/library-management/library/internal/handler/mocks"
)

type caller struct {
	userID int
	role   string
	// current is the role stored for the user; empty means unchanged since the token was issued.
	current string
}

func (c caller) storedRole() string {
	if c.current != "" {
		return c.current
	}
	return c.role
}

var (
	student   = caller{userID: 3, role: auth.RoleStudent}
	librarian = caller{userID: 2, role: auth.RoleLibrarian}
	demoted   = caller{userID: 7, role: auth.RoleLibrarian, current: auth.RoleStudent}
)

type request struct {
	method string
	target string
	body   string
	as     *caller
}

type response struct {
	expectedCode int
	expectedBody string
	contains     string
}

type mockBehavior func(r *service_mocks.MockLibraryService)

type testCase struct {
	name         string
	mockBehavior mockBehavior
	request      request
	response     response
}

func run(t *testing.T, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			tokens := auth.NewTokenManager(auth.Config{Secret: "secret", TokenTTL: time.Hour})
			log := zap.NewExample().Named("test")
			h := handler.New(svc, tokens, log)

			req := httptest.NewRequest(tt.request.method, tt.request.target, strings.NewReader(tt.request.body))
			req.Header.Set("Content-Type", "application/json")
			if as := tt.request.as; as != nil {
				tok, err := tokens.Issue(as.userID, as.role)
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+tok.Value)
				svc.EXPECT().
					SessionRole(gomock.Any(), tok.SessionID.String(), as.userID).
					Return(as.storedRole(), true, nil)
			}
			tt.mockBehavior(svc)

			rec := httptest.NewRecorder()
			h.NewRouter().ServeHTTP(rec, req)

			require.Equal(t, tt.response.expectedCode, rec.Code)
			if tt.response.expectedBody != "" {
				require.JSONEq(t, tt.response.expectedBody, rec.Body.String())
			}
			if tt.response.contains != "" {
				require.Contains(t, rec.Body.String(), tt.response.contains)
			}
		})
	}
}

func noCalls(*service_mocks.MockLibraryService) {}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	run(t, []testCase{{
		name:         "ok",
		mockBehavior: noCalls,
		request:      request{method: http.MethodGet, target: "/manage/health"},
		response:     response{expectedCode: http.StatusOK, contains: "OK"},
	}})
}

func TestHandler_Auth(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name:         "err. no token",
			mockBehavior: noCalls,
			request:      request{method: http.MethodGet, target: "/api/user"},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"Unauthenticated."}`,
			},
		},
		{
			name: "err. invalid credentials",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					Login(gomock.Any(), model.LoginRequest{Email: "ada@example.com", Password: "nope"}).
					Return(model.AuthResponse{}, errs.ErrInvalidCredentials)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/login",
				body:   `{"email":"ada@example.com","password":"nope"}`,
			},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"Invalid credentials"}`,
			},
		},
		{
			name:         "err. register validation",
			mockBehavior: noCalls,
			request: request{
				method: http.MethodPost,
				target: "/api/register",
				body:   `{"name":"Ada","email":"not-an-email","password":"password1"}`,
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The email must be a valid email address.","errors":{"email":["The email must be a valid email address."]}}`,
			},
		},
		{
			name: "err. email taken",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Register(gomock.Any(), gomock.Any()).Return(model.AuthResponse{}, errs.ErrEmailTaken)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/register",
				body:   `{"name":"Ada","email":"ada@example.com","password":"password1"}`,
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The email has already been taken.","errors":{"email":["The email has already been taken."]}}`,
			},
		},
	})
}

func TestHandler_Borrow(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					Borrow(gomock.Any(), gomock.Any(), 7).
					Return(model.BorrowRecord{ID: 1, UserID: student.userID, BookID: 7, Status: model.LoanBorrowed}, nil)
			},
			request: request{method: http.MethodPost, target: "/api/borrow-records", body: `{"book_id":7}`, as: &student},
			response: response{
				expectedCode: http.StatusCreated,
				contains:     `"message":"Book borrowed successfully"`,
			},
		},
		{
			name:         "err. book id required",
			mockBehavior: noCalls,
			request:      request{method: http.MethodPost, target: "/api/borrow-records", body: `{}`, as: &student},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The book id field is required.","errors":{"book_id":["The book id field is required."]}}`,
			},
		},
		{
			name: "err. book not found",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Borrow(gomock.Any(), gomock.Any(), 99).Return(model.BorrowRecord{}, errs.NewNotFound("Book not found"))
			},
			request: request{method: http.MethodPost, target: "/api/borrow-records", body: `{"book_id":99}`, as: &student},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"Book not found"}`,
			},
		},
		{
			name: "err. unavailable",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Borrow(gomock.Any(), gomock.Any(), 7).Return(model.BorrowRecord{}, errs.ErrUnavailable)
			},
			request: request{method: http.MethodPost, target: "/api/borrow-records", body: `{"book_id":7}`, as: &student},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"This book is currently unavailable"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Borrow(gomock.Any(), gomock.Any(), 7).Return(model.BorrowRecord{}, errors.New("db internal"))
			},
			request: request{method: http.MethodPost, target: "/api/borrow-records", body: `{"book_id":7}`, as: &student},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"Internal Server Error"}`,
			},
		},
	})
}

func TestHandler_Return(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Return(gomock.Any(), gomock.Any(), 5).
					Return(model.BorrowRecord{ID: 5, FineAmount: 6, Balance: 6, Status: model.LoanReturned}, nil)
			},
			request: request{method: http.MethodPost, target: "/api/borrow-records/5/return", as: &student},
			response: response{
				expectedCode: http.StatusOK,
				contains:     `"message":"Book returned successfully"`,
			},
		},
		{
			name: "err. not found or already returned",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Return(gomock.Any(), gomock.Any(), 5).
					Return(model.BorrowRecord{}, errs.NewNotFound("Borrow record not found or already returned"))
			},
			request: request{method: http.MethodPost, target: "/api/borrow-records/5/return", as: &student},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"Borrow record not found or already returned"}`,
			},
		},
		{
			name:         "err. bad id",
			mockBehavior: noCalls,
			request:      request{method: http.MethodPost, target: "/api/borrow-records/abc/return", as: &student},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"Not found"}`,
			},
		},
	})
}

func TestHandler_Roles(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name:         "err. student cannot read reports",
			mockBehavior: noCalls,
			request:      request{method: http.MethodGet, target: "/api/reports/summary", as: &student},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"Unauthorized"}`,
			},
		},
		{
			name:         "err. student cannot create books",
			mockBehavior: noCalls,
			request:      request{method: http.MethodPost, target: "/api/books", body: `{"title":"Dune"}`, as: &student},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"Unauthorized"}`,
			},
		},
		{
			name:         "err. librarian cannot manage users",
			mockBehavior: noCalls,
			request:      request{method: http.MethodGet, target: "/api/users", as: &librarian},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"Unauthorized"}`,
			},
		},
		{
			name:         "err. demoted librarian loses staff routes",
			mockBehavior: noCalls,
			request:      request{method: http.MethodGet, target: "/api/reports/summary", as: &demoted},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"Unauthorized"}`,
			},
		},
		{
			name: "demoted librarian reaches service as student",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					AllBorrowRecords(gomock.Any(), gomock.AssignableToTypeOf(auth.Identity{})).
					DoAndReturn(func(_ context.Context, id auth.Identity) ([]model.BorrowRecord, error) {
						if id.Role != auth.RoleStudent {
							return []model.BorrowRecord{}, nil
						}
						return nil, errs.ErrForbidden
					})
			},
			request: request{method: http.MethodGet, target: "/api/all-borrow-records", as: &demoted},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"Unauthorized"}`,
			},
		},
		{
			name: "err. all records for student",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().AllBorrowRecords(gomock.Any(), gomock.Any()).Return(nil, errs.ErrForbidden)
			},
			request: request{method: http.MethodGet, target: "/api/all-borrow-records", as: &student},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"Unauthorized"}`,
			},
		},
	})
}

func TestHandler_Report(t *testing.T) {
	t.Parallel()
	rng := model.ReportRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReportRange(model.ReportRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"}).
					Return(rng, nil)
				r.EXPECT().Report(gomock.Any(), rng).Return(model.Report{
					StartDate:      "2024-01-01",
					EndDate:        "2024-01-31",
					TotalBooks:     10,
					AvailableBooks: 7,
					BorrowedBooks:  3,
				}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/reports/summary?start_date=2024-01-01&end_date=2024-01-31", as: &librarian},
			response: response{
				expectedCode: http.StatusOK,
				contains:     `"availableBooks":7`,
			},
		},
		{
			name:         "err. bad date",
			mockBehavior: noCalls,
			request:      request{method: http.MethodGet, target: "/api/reports/summary?start_date=yesterday", as: &librarian},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The start date is not a valid date (YYYY-MM-DD).","errors":{"start_date":["The start date is not a valid date (YYYY-MM-DD)."]}}`,
			},
		},
	})
}

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ListBooks(gomock.Any(), model.BookFilter{Search: "dune", CategoryID: 2}).
					Return([]model.BookView{}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/books?search=dune&category_id=2", as: &student},
			response: response{expectedCode: http.StatusOK, expectedBody: `[]`},
		},
		{
			name:         "err. category id",
			mockBehavior: noCalls,
			request:      request{method: http.MethodGet, target: "/api/books?category_id=x", as: &student},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				contains:     "The category id must be an integer.",
			},
		},
	})
}

func TestHandler_PayFine(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().PayFine(gomock.Any(), 5, 2.5).
					Return(model.FinePayment{ID: 1, BorrowRecordID: 5, Amount: 2.5}, nil)
			},
			request: request{method: http.MethodPost, target: "/api/borrow-records/5/payments", body: `{"amount":2.5}`, as: &librarian},
			response: response{
				expectedCode: http.StatusCreated,
				contains:     `"amount":2.5`,
			},
		},
		{
			name:         "err. amount below one cent",
			mockBehavior: noCalls,
			request:      request{method: http.MethodPost, target: "/api/borrow-records/5/payments", body: `{"amount":0.001}`, as: &librarian},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The amount must be at least 0.01.","errors":{"amount":["The amount must be at least 0.01."]}}`,
			},
		},
		{
			name: "err. overpayment",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().PayFine(gomock.Any(), 5, 10.0).Return(model.FinePayment{}, errs.ErrOverpayment)
			},
			request: request{method: http.MethodPost, target: "/api/borrow-records/5/payments", body: `{"amount":10}`, as: &librarian},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The amount may not be greater than the outstanding balance.","errors":{"amount":["The amount may not be greater than the outstanding balance."]}}`,
			},
		},
	})
}
