package auth_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/config"
	"github.com/ibragimovrs/library-catalog/internal/errs"
	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/internal/repository"
	"github.com/ibragimovrs/library-catalog/internal/service/auth"
	pkgauth "github.com/ibragimovrs/library-catalog/pkg/auth"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	dir := t.TempDir()
	repo, err := repository.NewRepository(config.Store{
		BooksFile:   filepath.Join(dir, "books.txt"),
		UsersFile:   filepath.Join(dir, "users.txt"),
		BorrowsFile: filepath.Join(dir, "borrows.txt"),
	}, zap.NewExample().Named("test"))
	require.NoError(t, err)
	return auth.NewService(repo, zap.NewExample().Named("test"))
}

func TestService_DefaultAdminLogin(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	user, err := svc.Login(context.Background(),
		repository.DefaultAdminUsername, repository.DefaultAdminPassword)
	require.NoError(t, err)
	require.Equal(t, pkgauth.RoleAdmin, user.Role)
}

func TestService_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()

	req := model.UserCreateRequest{Username: "alice", Password: "s3cret"}
	require.NoError(t, svc.Register(ctx, req))

	// registered users are members regardless of input
	user, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.Equal(t, pkgauth.RoleMember, user.Role)

	require.ErrorIs(t, svc.Register(ctx, req), errs.ErrDuplicateKey)

	_, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestService_ChangePassword(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, model.UserCreateRequest{Username: "alice", Password: "oldpass"}))

	err := svc.ChangePassword(ctx, "alice", model.PasswordChangeRequest{
		CurrentPassword: "wrong", NewPassword: "newpass", ConfirmPassword: "newpass",
	})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, "alice", model.PasswordChangeRequest{
		CurrentPassword: "oldpass", NewPassword: "newpass", ConfirmPassword: "newpass",
	}))

	_, err = svc.Login(ctx, "alice", "oldpass")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice", "newpass")
	require.NoError(t, err)
}

func TestService_ListUsers(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, model.UserCreateRequest{Username: "alice", Password: "s3cret"}))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2) // alice + seeded admin
	require.Equal(t, "admin", users[0].Username)
	require.Equal(t, "alice", users[1].Username)
	require.Zero(t, users[1].BorrowedCount)
}
