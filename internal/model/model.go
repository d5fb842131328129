package model

import "time"

// TimeLayout is the timestamp format used in the borrows file.
const TimeLayout = "2006-01-02 15:04:05"

type Book struct {
	BookID      string `json:"bookId"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        string `json:"year"`
	TotalCopies int    `json:"totalCopies"`
	Available   int    `json:"available"`
	Borrowed    int    `json:"borrowed"`
}

type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

// BorrowRecord is one borrow event. A nil ReturnDate means the
// borrow is still open.
type BorrowRecord struct {
	BookID     string     `json:"bookId"`
	BorrowDate time.Time  `json:"borrowDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
}

func (r BorrowRecord) Open() bool {
	return r.ReturnDate == nil
}

// HistoryEntry is a BorrowRecord annotated for the admin audit view.
type HistoryEntry struct {
	Username   string     `json:"username"`
	BookID     string     `json:"bookId"`
	BookTitle  string     `json:"bookTitle"`
	BorrowDate time.Time  `json:"borrowDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
}

type UserSummary struct {
	Username      string `json:"username"`
	Role          string `json:"role"`
	BorrowedCount int    `json:"borrowedCount"`
}

type LibraryStats struct {
	TotalBooks     int `json:"totalBooks"`
	TotalCopies    int `json:"totalCopies"`
	TotalAvailable int `json:"totalAvailable"`
	TotalBorrowed  int `json:"totalBorrowed"`
	TotalUsers     int `json:"totalUsers"`
}

type Dashboard struct {
	Username          string `json:"username"`
	Role              string `json:"role"`
	TotalBooks        int    `json:"totalBooks"`
	TotalAvailable    int    `json:"totalAvailable"`
	TotalBorrowed     int    `json:"totalBorrowed"`
	UserBorrowedCount int    `json:"userBorrowedCount"`
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ExpiresIn   int    `json:"expiresIn"`
	AccessToken string `json:"accessToken"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=4"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// BookCreateRequest adds a new title. A blank BookID gets a generated uuid.
type BookCreateRequest struct {
	BookID      string `json:"bookId"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Year        string `json:"year"`
	TotalCopies int    `json:"totalCopies" validate:"required,min=1"`
}

type BookUpdateRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Year        string `json:"year"`
	TotalCopies int    `json:"totalCopies" validate:"min=0"`
}

type AddCopiesRequest struct {
	Count int `json:"count" validate:"min=0"`
}
