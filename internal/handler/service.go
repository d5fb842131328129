package handler

import (
	"context"

	"github.com/ibragimovrs/library-catalog/internal/model"
	authsvc "github.com/ibragimovrs/library-catalog/internal/service/auth"
	"github.com/ibragimovrs/library-catalog/internal/service/borrow"
	"github.com/ibragimovrs/library-catalog/internal/service/catalog"
	"github.com/ibragimovrs/library-catalog/internal/service/circulation"
	"github.com/ibragimovrs/library-catalog/internal/service/stats"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ CatalogService     = (*catalog.Service)(nil)
	_ BorrowService      = (*borrow.Service)(nil)
	_ CirculationService = (*circulation.Service)(nil)
	_ AuthService        = (*authsvc.Service)(nil)
	_ StatsService       = (*stats.Service)(nil)
)

type CatalogService interface {
	ListBooks(ctx context.Context, search string, availableOnly bool) ([]model.Book, error)
	GetBook(ctx context.Context, bookID string) (model.Book, error)
	AddBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error)
	AddCopies(ctx context.Context, bookID string, count int) (model.Book, error)
	UpdateBook(ctx context.Context, bookID string, req model.BookUpdateRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookID string) error
}

type BorrowService interface {
	OpenBorrows(ctx context.Context, username string) ([]string, error)
	History(ctx context.Context) ([]model.HistoryEntry, error)
}

type CirculationService interface {
	Borrow(ctx context.Context, username, bookID string) (model.Book, error)
	Return(ctx context.Context, username, bookID string) (model.Book, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (model.User, error)
	Register(ctx context.Context, req model.UserCreateRequest) error
	ChangePassword(ctx context.Context, username string, req model.PasswordChangeRequest) error
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
}

type StatsService interface {
	Stats(ctx context.Context) (model.LibraryStats, error)
	Dashboard(ctx context.Context, username, role string) (model.Dashboard, error)
}

type Services struct {
	Catalog     CatalogService
	Borrow      BorrowService
	Circulation CirculationService
	Auth        AuthService
	Stats       StatsService
}
