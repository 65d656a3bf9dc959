package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"matchly-backend/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedRouter(t *testing.T) (*chi.Mux, *token.Issuer) {
	t.Helper()
	issuer := token.NewIssuer("test-secret")

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(Auth(issuer))
		r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(GetUserID(r.Context())))
		})
		r.Route("/users/{user_id}", func(r chi.Router) {
			r.Use(RequireSelf)
			r.Put("/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})
	return r, issuer
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r, _ := newAuthedRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	r, issuer := newAuthedRouter(t)
	tok, err := issuer.Issue("u1", "lisa", nil)
	require.NoError(t, err)

	for _, header := range []string{"Basic " + tok, tok, "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	r, _ := newAuthedRouter(t)

	other := token.NewIssuer("other-secret")
	tok, err := other.Issue("u1", "lisa", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthStoresIdentityInContext(t *testing.T) {
	r, issuer := newAuthedRouter(t)
	tok, err := issuer.Issue("u1", "lisa", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestRequireSelf(t *testing.T) {
	r, issuer := newAuthedRouter(t)
	tok, err := issuer.Issue("u1", "lisa", nil)
	require.NoError(t, err)

	// Caller operating on their own resource passes through.
	req := httptest.NewRequest(http.MethodPut, "/users/u1", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// A valid token for a different subject is still rejected.
	req = httptest.NewRequest(http.MethodPut, "/users/u2", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetUserID(req.Context()))
	assert.Nil(t, GetClaims(req.Context()))
}
