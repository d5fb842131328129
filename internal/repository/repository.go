package repository

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/config"
	"github.com/ibragimovrs/library-catalog/internal/model"
)

// Repository reads and writes the three record collections. Each call
// moves the whole collection at once; there is no partial read or
// incremental append.
type Repository interface {
	LoadBooks(ctx context.Context) (map[string]model.Book, error)
	SaveBooks(ctx context.Context, books map[string]model.Book) error
	LoadUsers(ctx context.Context) (map[string]model.User, error)
	SaveUsers(ctx context.Context, users map[string]model.User) error
	LoadBorrows(ctx context.Context) (map[string][]model.BorrowRecord, error)
	SaveBorrows(ctx context.Context, borrows map[string][]model.BorrowRecord) error
}

type repository struct {
	booksPath   string
	usersPath   string
	borrowsPath string

	booksMu   sync.Mutex
	usersMu   sync.Mutex
	borrowsMu sync.Mutex

	log *zap.Logger
}

func NewRepository(cfg config.Store, log *zap.Logger) (*repository, error) {
	return &repository{
		booksPath:   cfg.BooksFile,
		usersPath:   cfg.UsersFile,
		borrowsPath: cfg.BorrowsFile,
		log:         log.Named("repo"),
	}, nil
}

// readLines returns the file split into non-empty trimmed lines.
// A missing file is an empty collection, not an error.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
