package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/internal/model"
)

const bookFields = 7

// LoadBooks reads the whole book collection.
// Format: book_id,title,author,year,total_copies,available,borrowed
func (r *repository) LoadBooks(_ context.Context) (map[string]model.Book, error) {
	r.booksMu.Lock()
	defer r.booksMu.Unlock()

	books := make(map[string]model.Book)
	lines, err := readLines(r.booksPath)
	if err != nil {
		return books, err
	}
	for _, line := range lines {
		parts := strings.Split(line, ",")
		if len(parts) != bookFields {
			r.log.Warn("skipping malformed book line", zap.String("line", line))
			continue
		}
		total, err1 := strconv.Atoi(parts[4])
		available, err2 := strconv.Atoi(parts[5])
		borrowed, err3 := strconv.Atoi(parts[6])
		if err1 != nil || err2 != nil || err3 != nil {
			r.log.Warn("skipping malformed book line", zap.String("line", line))
			continue
		}
		books[parts[0]] = model.Book{
			BookID:      parts[0],
			Title:       parts[1],
			Author:      parts[2],
			Year:        parts[3],
			TotalCopies: total,
			Available:   available,
			Borrowed:    borrowed,
		}
	}
	return books, nil
}

func (r *repository) SaveBooks(_ context.Context, books map[string]model.Book) error {
	r.booksMu.Lock()
	defer r.booksMu.Unlock()

	ids := make([]string, 0, len(books))
	for id := range books {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		b := books[id]
		fmt.Fprintf(&sb, "%s,%s,%s,%s,%d,%d,%d\n",
			b.BookID, b.Title, b.Author, b.Year, b.TotalCopies, b.Available, b.Borrowed)
	}
	return writeFile(r.booksPath, sb.String())
}
