package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/internal/model"
)

// An open event carries the literal string None in its return field.
const openReturnMarker = "None"

const borrowFields = 4

// LoadBorrows reads every borrow event, grouped by username in stored order.
// Format: username|book_id|borrow_timestamp|return_timestamp
func (r *repository) LoadBorrows(_ context.Context) (map[string][]model.BorrowRecord, error) {
	r.borrowsMu.Lock()
	defer r.borrowsMu.Unlock()

	borrows := make(map[string][]model.BorrowRecord)
	lines, err := readLines(r.borrowsPath)
	if err != nil {
		return borrows, err
	}
	for _, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) != borrowFields {
			r.log.Warn("skipping malformed borrow line", zap.String("line", line))
			continue
		}
		borrowDate, err := time.Parse(model.TimeLayout, parts[2])
		if err != nil {
			r.log.Warn("skipping malformed borrow line", zap.String("line", line))
			continue
		}
		rec := model.BorrowRecord{
			BookID:     parts[1],
			BorrowDate: borrowDate,
		}
		if parts[3] != openReturnMarker {
			returnDate, err := time.Parse(model.TimeLayout, parts[3])
			if err != nil {
				r.log.Warn("skipping malformed borrow line", zap.String("line", line))
				continue
			}
			rec.ReturnDate = &returnDate
		}
		borrows[parts[0]] = append(borrows[parts[0]], rec)
	}
	return borrows, nil
}

func (r *repository) SaveBorrows(_ context.Context, borrows map[string][]model.BorrowRecord) error {
	r.borrowsMu.Lock()
	defer r.borrowsMu.Unlock()

	names := make([]string, 0, len(borrows))
	for name := range borrows {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		for _, rec := range borrows[name] {
			returnField := openReturnMarker
			if rec.ReturnDate != nil {
				returnField = rec.ReturnDate.Format(model.TimeLayout)
			}
			fmt.Fprintf(&sb, "%s|%s|%s|%s\n",
				name, rec.BookID, rec.BorrowDate.Format(model.TimeLayout), returnField)
		}
	}
	return writeFile(r.borrowsPath, sb.String())
}
