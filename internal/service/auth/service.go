package auth

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ibragimovrs/library-catalog/internal/errs"
	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/internal/repository"
	pkgauth "github.com/ibragimovrs/library-catalog/pkg/auth"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository

	mu sync.Mutex
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("auth"),
		repo: repo,
	}
}

// Login verifies the credentials and returns the stored user.
// Unknown usernames and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, username, password string) (model.User, error) {
	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	user, ok := users[username]
	if !ok {
		return model.User{}, errs.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return model.User{}, errs.ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a member account. Role is fixed, never taken from input.
func (s *Service) Register(ctx context.Context, req model.UserCreateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[req.Username]; ok {
		return errs.ErrDuplicateKey
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users[req.Username] = model.User{
		Username: req.Username,
		Password: string(hash),
		Role:     pkgauth.RoleMember,
	}
	if err := s.repo.SaveUsers(ctx, users); err != nil {
		return err
	}
	s.log.Info("user registered", zap.String("username", req.Username))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, username string, req model.PasswordChangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return err
	}
	user, ok := users[username]
	if !ok {
		return errs.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return errs.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	users[username] = user
	return s.repo.SaveUsers(ctx, users)
}

// ListUsers returns every account with its open-borrow count.
func (s *Service) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	borrows, err := s.repo.LoadBorrows(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		count := 0
		for _, rec := range borrows[u.Username] {
			if rec.Open() {
				count++
			}
		}
		items = append(items, model.UserSummary{
			Username:      u.Username,
			Role:          u.Role,
			BorrowedCount: count,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Username < items[j].Username })
	return items, nil
}
