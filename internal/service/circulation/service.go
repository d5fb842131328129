package circulation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/internal/errs"
	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/internal/service/borrow"
	"github.com/ibragimovrs/library-catalog/internal/service/catalog"
)

// Service executes borrow and return as a joint operation across the
// catalog and the borrow ledger. It is the only caller of the catalog
// counter adjustments and the only creator/closer of borrow events.
//
// The two ledgers live in separate files with no shared transaction;
// when the second write fails after the first succeeded the stores
// diverge, which is logged as a reconciliation error.
type Service struct {
	log     *zap.Logger
	catalog *catalog.Service
	borrows *borrow.Service

	keys keyedMutex
}

func NewService(catalogSvc *catalog.Service, borrowSvc *borrow.Service, log *zap.Logger) *Service {
	return &Service{
		log:     log.Named("circulation"),
		catalog: catalogSvc,
		borrows: borrowSvc,
	}
}

func (s *Service) Borrow(ctx context.Context, username, bookID string) (model.Book, error) {
	unlock := s.keys.lock(bookID)
	defer unlock()

	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return model.Book{}, err
	}
	if book.Available == 0 {
		return model.Book{}, errs.ErrOutOfStock
	}
	held, err := s.borrows.HasOpenBorrow(ctx, username, bookID)
	if err != nil {
		return model.Book{}, err
	}
	if held {
		return model.Book{}, errs.ErrAlreadyBorrowed
	}

	book, err = s.catalog.AdjustOnBorrow(ctx, bookID)
	if err != nil {
		return model.Book{}, err
	}
	if err := s.borrows.RecordBorrow(ctx, username, bookID); err != nil {
		s.log.Error("borrow event write failed after catalog adjustment, ledgers may diverge",
			zap.String("username", username),
			zap.String("bookID", bookID),
			zap.Error(err))
		return model.Book{}, err
	}
	s.log.Info("borrowed",
		zap.String("username", username), zap.String("bookID", bookID))
	return book, nil
}

func (s *Service) Return(ctx context.Context, username, bookID string) (model.Book, error) {
	unlock := s.keys.lock(bookID)
	defer unlock()

	if _, err := s.catalog.GetBook(ctx, bookID); err != nil {
		return model.Book{}, err
	}
	held, err := s.borrows.HasOpenBorrow(ctx, username, bookID)
	if err != nil {
		return model.Book{}, err
	}
	if !held {
		return model.Book{}, errs.ErrNotBorrowed
	}

	book, err := s.catalog.AdjustOnReturn(ctx, bookID)
	if err != nil {
		return model.Book{}, err
	}
	if err := s.borrows.RecordReturn(ctx, username, bookID); err != nil {
		s.log.Error("return event write failed after catalog adjustment, ledgers may diverge",
			zap.String("username", username),
			zap.String("bookID", bookID),
			zap.Error(err))
		return model.Book{}, err
	}
	s.log.Info("returned",
		zap.String("username", username), zap.String("bookID", bookID))
	return book, nil
}

// keyedMutex serializes borrow/return per book id so two concurrent
// borrows of the last copy cannot both pass the availability check.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
