package borrow

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/internal/errs"
	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/internal/repository"
)

// Service owns the borrow events. Events are only ever appended or
// closed, never deleted, so the collection is the full audit history.
type Service struct {
	log  *zap.Logger
	repo repository.Repository

	mu  sync.Mutex
	now func() time.Time
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("borrow"),
		repo: repo,
		now:  time.Now,
	}
}

// OpenBorrows returns the book ids the user currently holds.
func (s *Service) OpenBorrows(ctx context.Context, username string) ([]string, error) {
	borrows, err := s.repo.LoadBorrows(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, rec := range borrows[username] {
		if rec.Open() {
			ids = append(ids, rec.BookID)
		}
	}
	return ids, nil
}

func (s *Service) HasOpenBorrow(ctx context.Context, username, bookID string) (bool, error) {
	ids, err := s.OpenBorrows(ctx, username)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == bookID {
			return true, nil
		}
	}
	return false, nil
}

// RecordBorrow appends an open event for (username, bookID).
func (s *Service) RecordBorrow(ctx context.Context, username, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	borrows, err := s.repo.LoadBorrows(ctx)
	if err != nil {
		return err
	}
	for _, rec := range borrows[username] {
		if rec.BookID == bookID && rec.Open() {
			return errs.ErrAlreadyBorrowed
		}
	}
	borrows[username] = append(borrows[username], model.BorrowRecord{
		BookID:     bookID,
		BorrowDate: s.now().Truncate(time.Second),
	})
	return s.repo.SaveBorrows(ctx, borrows)
}

// RecordReturn closes the first matching open event in stored order.
func (s *Service) RecordReturn(ctx context.Context, username, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	borrows, err := s.repo.LoadBorrows(ctx)
	if err != nil {
		return err
	}
	for i, rec := range borrows[username] {
		if rec.BookID == bookID && rec.Open() {
			returnDate := s.now().Truncate(time.Second)
			borrows[username][i].ReturnDate = &returnDate
			return s.repo.SaveBorrows(ctx, borrows)
		}
	}
	return errs.ErrNotBorrowed
}

// History returns every borrow event across all users annotated with
// the book title, newest borrow first.
func (s *Service) History(ctx context.Context) ([]model.HistoryEntry, error) {
	borrows, err := s.repo.LoadBorrows(ctx)
	if err != nil {
		return nil, err
	}
	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return nil, err
	}
	var entries []model.HistoryEntry
	for username, recs := range borrows {
		for _, rec := range recs {
			title := "Unknown Book"
			if book, ok := books[rec.BookID]; ok {
				title = book.Title
			}
			entries = append(entries, model.HistoryEntry{
				Username:   username,
				BookID:     rec.BookID,
				BookTitle:  title,
				BorrowDate: rec.BorrowDate,
				ReturnDate: rec.ReturnDate,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BorrowDate.After(entries[j].BorrowDate)
	})
	return entries, nil
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}
