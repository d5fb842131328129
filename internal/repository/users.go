package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/pkg/auth"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"

	userFields = 3
)

// LoadUsers reads the whole user collection. An empty collection seeds
// and persists a single default administrator.
// Format: username|password|role
func (r *repository) LoadUsers(ctx context.Context) (map[string]model.User, error) {
	r.usersMu.Lock()

	users := make(map[string]model.User)
	lines, err := readLines(r.usersPath)
	if err != nil {
		r.usersMu.Unlock()
		return users, err
	}
	for _, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) != userFields {
			r.log.Warn("skipping malformed user line", zap.String("line", line))
			continue
		}
		users[parts[0]] = model.User{
			Username: parts[0],
			Password: parts[1],
			Role:     parts[2],
		}
	}
	r.usersMu.Unlock()

	if len(users) == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return users, err
		}
		users[DefaultAdminUsername] = model.User{
			Username: DefaultAdminUsername,
			Password: string(hash),
			Role:     auth.RoleAdmin,
		}
		if err := r.SaveUsers(ctx, users); err != nil {
			return users, err
		}
		r.log.Info("default admin user created", zap.String("username", DefaultAdminUsername))
	}
	return users, nil
}

func (r *repository) SaveUsers(_ context.Context, users map[string]model.User) error {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		u := users[name]
		fmt.Fprintf(&sb, "%s|%s|%s\n", u.Username, u.Password, u.Role)
	}
	return writeFile(r.usersPath, sb.String())
}
