package stats

import (
	"context"

	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("stats"),
		repo: repo,
	}
}

// Stats aggregates the catalog totals for the admin view.
func (s *Service) Stats(ctx context.Context) (model.LibraryStats, error) {
	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return model.LibraryStats{}, err
	}
	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return model.LibraryStats{}, err
	}
	st := model.LibraryStats{
		TotalBooks: len(books),
		TotalUsers: len(users),
	}
	for _, b := range books {
		st.TotalCopies += b.TotalCopies
		st.TotalAvailable += b.Available
		st.TotalBorrowed += b.Borrowed
	}
	return st, nil
}

// Dashboard aggregates the member landing-page counters.
func (s *Service) Dashboard(ctx context.Context, username, role string) (model.Dashboard, error) {
	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	borrows, err := s.repo.LoadBorrows(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	d := model.Dashboard{
		Username:   username,
		Role:       role,
		TotalBooks: len(books),
	}
	for _, b := range books {
		d.TotalAvailable += b.Available
		d.TotalBorrowed += b.Borrowed
	}
	for _, rec := range borrows[username] {
		if rec.Open() {
			d.UserBorrowedCount++
		}
	}
	return d, nil
}
