// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/vocabulary-app/internal/auth"
	"codeberg.org/oliverandrich/vocabulary-app/internal/i18n"
	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRejected = errors.New("rejected")

type stubValidator struct {
	users map[string]*models.User
	seen  []string
}

func (s *stubValidator) ValidateToken(_ context.Context, token string) (*models.User, error) {
	s.seen = append(s.seen, token)
	if user, ok := s.users[token]; ok {
		return user, nil
	}
	return nil, errRejected
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"Bearer  padded ", "padded", true},
		{"", "", false},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"bearer abc", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, err := ExtractBearer(tt.header)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.token, token)
			} else {
				assert.ErrorIs(t, err, ErrMalformedHeader)
			}
		})
	}
}

func serve(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBearerToken(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, auth.GetToken(c.Request().Context()))
	}, BearerToken(http.StatusBadRequest))

	rec := serve(e, "Bearer tok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", rec.Body.String())

	rec = serve(e, "Token tok")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireBearer(t *testing.T) {
	user := &models.User{ID: 3, Email: "a@b.com"}
	validator := &stubValidator{users: map[string]*models.User{"good": user}}

	var captured *models.User
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if errors.Is(err, errRejected) {
			_ = c.NoContent(http.StatusUnauthorized)
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
	e.GET("/", func(c echo.Context) error {
		captured = auth.GetUser(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}, RequireBearer(validator))

	rec := serve(e, "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, user, captured)

	rec = serve(e, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, []string{"good", "bad"}, validator.seen)
}

func TestLocale(t *testing.T) {
	require.NoError(t, i18n.Init())

	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, i18n.GetLocale(c.Request().Context()))
	}, Locale())

	tests := []struct {
		header string
		want   string
	}{
		{"id-ID,id;q=0.9", "id"},
		{"en-US,en;q=0.9", "en"},
		{"fr-FR", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Language", tt.header)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}
