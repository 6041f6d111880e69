package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/jsonx"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/Astemirdum/library-management/swagger"
)

type Handler struct {
	svc    LibraryService
	tokens *auth.TokenManager
	log    *zap.Logger
}

func New(svc LibraryService, tokens *auth.TokenManager, log *zap.Logger) *Handler {
	return &Handler{
		svc:    svc,
		tokens: tokens,
		log:    log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.HTTPErrorHandler = h.ErrorHandler
	e.Validator = validate.NewCustomValidator()
	e.JSONSerializer = jsonx.Serializer{}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	authed := api.Group("", md.JwtAuthentication(h.tokens, h.svc))
	staff := md.RequireRole(auth.RoleAdmin, auth.RoleLibrarian)
	admin := md.RequireRole(auth.RoleAdmin)

	authed.GET("/user", h.CurrentUser)
	authed.POST("/logout", h.Logout)

	users := authed.Group("/users", admin)
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)

	authed.GET("/dashboard/stats", h.DashboardStats)
	authed.GET("/reports/summary", h.Report, staff)

	authed.GET("/categories", h.ListCategories)
	authed.GET("/categories/:id", h.GetCategory)
	authed.POST("/categories", h.CreateCategory, staff)
	authed.PUT("/categories/:id", h.UpdateCategory, staff)
	authed.DELETE("/categories/:id", h.DeleteCategory, staff)

	authed.GET("/publishers", h.ListPublishers)
	authed.GET("/publishers/:id", h.GetPublisher)
	authed.POST("/publishers", h.CreatePublisher, staff)
	authed.PUT("/publishers/:id", h.UpdatePublisher, staff)
	authed.DELETE("/publishers/:id", h.DeletePublisher, staff)

	authed.GET("/authors", h.ListAuthors)
	authed.GET("/authors/:id", h.GetAuthor)
	authed.POST("/authors", h.CreateAuthor, staff)
	authed.PUT("/authors/:id", h.UpdateAuthor, staff)
	authed.DELETE("/authors/:id", h.DeleteAuthor, staff)

	authed.GET("/books", h.ListBooks)
	authed.GET("/books/form-data", h.BookFormData)
	authed.GET("/books/:id", h.GetBook)
	authed.POST("/books", h.CreateBook, staff)
	authed.PUT("/books/:id", h.UpdateBook, staff)
	authed.DELETE("/books/:id", h.DeleteBook, staff)

	authed.GET("/borrow-records", h.OpenLoans)
	authed.POST("/borrow-records", h.Borrow)
	authed.GET("/borrow-records/:id", h.GetBorrowRecord)
	authed.POST("/borrow-records/:id/return", h.ReturnBook)
	authed.GET("/borrow-records/:id/payments", h.ListFinePayments)
	authed.POST("/borrow-records/:id/payments", h.PayFine, staff)
	authed.GET("/borrow-history", h.BorrowHistory)
	authed.GET("/all-borrow-records", h.AllBorrowRecords)

	return e
}

// Health godoc
// @Summary liveness probe
// @Tags manage
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

type message struct {
	Message string `json:"message"`
}

// bind decodes the body and runs the validator; failures become 422 field errors.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		if fields := validate.FieldErrors(err); fields != nil {
			return &errs.ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return id, nil
}

func identity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, errs.ErrUnauthorized
	}
	return id, nil
}
