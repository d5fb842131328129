package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/internal/errs"
	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/internal/repository"
)

// Service owns the book records and their copy-count invariants.
// For every book: available + borrowed == total_copies.
type Service struct {
	log  *zap.Logger
	repo repository.Repository

	// serializes load-mutate-save cycles on the book collection
	mu sync.Mutex
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("catalog"),
		repo: repo,
	}
}

func (s *Service) ListBooks(ctx context.Context, search string, availableOnly bool) ([]model.Book, error) {
	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]model.Book, 0, len(books))
	search = strings.ToLower(search)
	for _, b := range books {
		if availableOnly && b.Available == 0 {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Title), search) &&
			!strings.Contains(strings.ToLower(b.Author), search) {
			continue
		}
		items = append(items, b)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].BookID < items[j].BookID })
	return items, nil
}

func (s *Service) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return model.Book{}, err
	}
	book, ok := books[bookID]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return book, nil
}

func (s *Service) AddBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return model.Book{}, err
	}
	if req.BookID == "" {
		req.BookID = uuid.NewString()
	}
	if _, ok := books[req.BookID]; ok {
		return model.Book{}, errs.ErrDuplicateKey
	}
	book := model.Book{
		BookID:      req.BookID,
		Title:       req.Title,
		Author:      req.Author,
		Year:        req.Year,
		TotalCopies: req.TotalCopies,
		Available:   req.TotalCopies,
		Borrowed:    0,
	}
	books[book.BookID] = book
	if err := s.repo.SaveBooks(ctx, books); err != nil {
		return model.Book{}, err
	}
	s.log.Info("book added", zap.String("bookID", book.BookID), zap.String("title", book.Title))
	return book, nil
}

func (s *Service) AddCopies(ctx context.Context, bookID string, count int) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return model.Book{}, err
	}
	book, ok := books[bookID]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	book.TotalCopies += count
	book.Available += count
	books[bookID] = book
	if err := s.repo.SaveBooks(ctx, books); err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (s *Service) UpdateBook(ctx context.Context, bookID string, req model.BookUpdateRequest) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return model.Book{}, err
	}
	book, ok := books[bookID]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	if req.TotalCopies < book.Borrowed {
		return model.Book{}, errs.ErrInvalidState
	}
	book.Title = req.Title
	book.Author = req.Author
	book.Year = req.Year
	book.TotalCopies = req.TotalCopies
	book.Available = req.TotalCopies - book.Borrowed
	books[bookID] = book
	if err := s.repo.SaveBooks(ctx, books); err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (s *Service) DeleteBook(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return err
	}
	book, ok := books[bookID]
	if !ok {
		return errs.ErrNotFound
	}
	if book.Borrowed > 0 {
		return errs.ErrInvalidState
	}
	delete(books, bookID)
	return s.repo.SaveBooks(ctx, books)
}

// AdjustOnBorrow moves one copy from available to borrowed.
// Called only by the circulation service.
func (s *Service) AdjustOnBorrow(ctx context.Context, bookID string) (model.Book, error) {
	return s.adjust(ctx, bookID, -1)
}

// AdjustOnReturn moves one copy from borrowed back to available.
// Called only by the circulation service.
func (s *Service) AdjustOnReturn(ctx context.Context, bookID string) (model.Book, error) {
	return s.adjust(ctx, bookID, +1)
}

func (s *Service) adjust(ctx context.Context, bookID string, delta int) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return model.Book{}, err
	}
	book, ok := books[bookID]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	if book.Available+delta < 0 || book.Borrowed-delta < 0 {
		return model.Book{}, errs.ErrInvalidState
	}
	book.Available += delta
	book.Borrowed -= delta
	books[bookID] = book
	if err := s.repo.SaveBooks(ctx, books); err != nil {
		return model.Book{}, err
	}
	return book, nil
}
