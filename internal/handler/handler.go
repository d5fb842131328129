package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/internal/errs"
	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/pkg/auth"
	"github.com/ibragimovrs/library-catalog/pkg/kafka"
	md "github.com/ibragimovrs/library-catalog/pkg/middleware"
	"github.com/ibragimovrs/library-catalog/pkg/validate"
)

type Handler struct {
	svc Services
	enq Enqueuer
	log *zap.Logger
}

func New(svc Services, enq Enqueuer, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		enq: enq,
		log: log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/register", h.Register)
	api.POST("/authorize", h.Authorize)

	user := api.Group("", md.JwtAuthentication)
	user.GET("/dashboard", h.Dashboard)
	user.POST("/password", h.ChangePassword)
	user.GET("/books", h.ListBooks)
	user.GET("/books/my", h.MyBooks)
	user.GET("/books/:bookID", h.GetBook)
	user.POST("/books/:bookID/borrow", h.BorrowBook)
	user.POST("/books/:bookID/return", h.ReturnBook)

	admin := api.Group("/admin", md.JwtAuthentication, md.AdminRequired)
	admin.POST("/books", h.AddBook)
	admin.PATCH("/books/:bookID", h.UpdateBook)
	admin.DELETE("/books/:bookID", h.DeleteBook)
	admin.POST("/books/:bookID/copies", h.AddCopies)
	admin.GET("/history", h.BorrowHistory)
	admin.GET("/stats", h.Stats)
	admin.GET("/users", h.ListUsers)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the service error taxonomy onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrDuplicateKey),
		errors.Is(err, errs.ErrOutOfStock),
		errors.Is(err, errs.ErrAlreadyBorrowed),
		errors.Is(err, errs.ErrNotBorrowed),
		errors.Is(err, errs.ErrInvalidState):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()

	search := c.QueryParam("search")
	var (
		availableOnly bool
		err           error
	)
	if availableParam := c.QueryParam("available"); availableParam != "" {
		if availableOnly, err = strconv.ParseBool(availableParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("available is invalid"))
		}
	}

	books, err := h.svc.Catalog.ListBooks(ctx, search, availableOnly)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.svc.Catalog.GetBook(c.Request().Context(), c.Param("bookID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// MyBooks lists the full records of the caller's open borrows.
func (h *Handler) MyBooks(c echo.Context) error {
	ctx := c.Request().Context()
	username, _ := auth.UserFromContext(ctx)

	ids, err := h.svc.Borrow.OpenBorrows(ctx, username)
	if err != nil {
		return httpError(err)
	}
	books := make([]model.Book, 0, len(ids))
	for _, id := range ids {
		book, err := h.svc.Catalog.GetBook(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return httpError(err)
		}
		books = append(books, book)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) BorrowBook(c echo.Context) error {
	ctx := c.Request().Context()
	username, _ := auth.UserFromContext(ctx)
	bookID := c.Param("bookID")

	book, err := h.svc.Circulation.Borrow(ctx, username, bookID)
	if err != nil {
		return httpError(err)
	}
	if err := h.enq.Enqueue(kafka.CirculationTopic, kafka.EventCirculation{
		Username:  username,
		BookID:    bookID,
		Action:    kafka.ActionBorrow,
		Timestamp: time.Now(),
	}); err != nil {
		h.log.Warn("enqueue borrow event", zap.Error(err))
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	ctx := c.Request().Context()
	username, _ := auth.UserFromContext(ctx)
	bookID := c.Param("bookID")

	book, err := h.svc.Circulation.Return(ctx, username, bookID)
	if err != nil {
		return httpError(err)
	}
	if err := h.enq.Enqueue(kafka.CirculationTopic, kafka.EventCirculation{
		Username:  username,
		BookID:    bookID,
		Action:    kafka.ActionReturn,
		Timestamp: time.Now(),
	}); err != nil {
		h.log.Warn("enqueue return event", zap.Error(err))
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	username, role := auth.UserFromContext(ctx)

	d, err := h.svc.Stats.Dashboard(ctx, username, role)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}
