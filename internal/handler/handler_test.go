package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/internal/errs"
	"github.com/ibragimovrs/library-catalog/internal/handler"
	"github.com/ibragimovrs/library-catalog/internal/model"
	"github.com/ibragimovrs/library-catalog/pkg/auth"
	"github.com/ibragimovrs/library-catalog/pkg/validate"

	service_mocks "github.com/ibragimovrs/library-catalog/internal/handler/mocks"
)

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	type input struct {
		search        string
		availableOnly bool
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService, req input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCatalogService, req input) {
				r.EXPECT().
					ListBooks(context.Background(), req.search, req.availableOnly).
					Return([]model.Book{
						{
							BookID:      "B1",
							Title:       "Dune",
							Author:      "Herbert",
							Year:        "1965",
							TotalCopies: 3,
							Available:   2,
							Borrowed:    1,
						},
					}, nil)
			},
			input: input{
				search:        "dune",
				availableOnly: false,
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"bookId":"B1","title":"Dune","author":"Herbert","year":"1965","totalCopies":3,"available":2,"borrowed":1}]`,
			},
			wantErr: false,
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockCatalogService, req input) {
				r.EXPECT().
					ListBooks(context.Background(), req.search, req.availableOnly).
					Return(nil, errors.New("store internal"))
			},
			input: input{},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"store internal"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Catalog: svc}, handler.NewEnqueuer(nil), log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books", h.ListBooks)

			r := httptest.NewRequest(
				http.MethodGet, fmt.Sprintf("/books?search=%s&available=%v", tt.input.search, tt.input.availableOnly), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_BorrowBook(t *testing.T) {
	t.Parallel()
	type input struct {
		username string
		bookID   string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCirculationService, req input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCirculationService, req input) {
				r.EXPECT().
					Borrow(gomock.Any(), req.username, req.bookID).
					Return(model.Book{
						BookID:      "B1",
						Title:       "Dune",
						Author:      "Herbert",
						Year:        "1965",
						TotalCopies: 3,
						Available:   2,
						Borrowed:    1,
					}, nil)
			},
			input: input{username: "alice", bookID: "B1"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"bookId":"B1","title":"Dune","author":"Herbert","year":"1965","totalCopies":3,"available":2,"borrowed":1}`,
			},
			wantErr: false,
		},
		{
			name: "err. out of stock",
			mockBehavior: func(r *service_mocks.MockCirculationService, req input) {
				r.EXPECT().
					Borrow(gomock.Any(), req.username, req.bookID).
					Return(model.Book{}, errs.ErrOutOfStock)
			},
			input: input{username: "alice", bookID: "B1"},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"no available copies"}`,
			},
			wantErr: true,
		},
		{
			name: "err. not found",
			mockBehavior: func(r *service_mocks.MockCirculationService, req input) {
				r.EXPECT().
					Borrow(gomock.Any(), req.username, req.bookID).
					Return(model.Book{}, errs.ErrNotFound)
			},
			input: input{username: "alice", bookID: "missing"},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
			wantErr: true,
		},
		{
			name: "err. already borrowed",
			mockBehavior: func(r *service_mocks.MockCirculationService, req input) {
				r.EXPECT().
					Borrow(gomock.Any(), req.username, req.bookID).
					Return(model.Book{}, errs.ErrAlreadyBorrowed)
			},
			input: input{username: "alice", bookID: "B1"},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book already borrowed"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCirculationService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Circulation: svc}, handler.NewEnqueuer(nil), log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/books/:bookID/borrow", h.BorrowBook)

			r := httptest.NewRequest(
				http.MethodPost, fmt.Sprintf("/books/%s/borrow", tt.input.bookID), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r = r.WithContext(auth.SetAuthContext(r.Context(), tt.input.username, auth.RoleMember))
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Register_ValidatesPassword(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockAuthService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(handler.Services{Auth: svc}, handler.NewEnqueuer(nil), log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/register", h.Register)

	// password below the minimum length never reaches the service
	r := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"alice","password":"abc"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)

	svc.EXPECT().
		Register(gomock.Any(), model.UserCreateRequest{Username: "alice", Password: "s3cret"}).
		Return(nil)
	r = httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusCreated, w.Code)
}
