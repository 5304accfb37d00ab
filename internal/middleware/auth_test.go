package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	verifyFn    func(ctx context.Context, token string) (*auth.Principal, error)
	verifyCalls int
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*auth.Principal, *auth.Session, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*auth.Principal, *auth.Session, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakeProvider) SignOut(ctx context.Context, accessToken string) error {
	return errors.New("not implemented")
}

func (f *fakeProvider) VerifyToken(ctx context.Context, token string) (*auth.Principal, error) {
	f.verifyCalls++
	if f.verifyFn != nil {
		return f.verifyFn(ctx, token)
	}
	return nil, errors.New("no verifyFn")
}

func runProtected(t *testing.T, p *fakeProvider, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	NewAuthMiddleware(p).RequireAuth(next).ServeHTTP(rec, req)
	return rec, nextCalled
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		state  bearerState
	}{
		{"", "", bearerAbsent},
		{"Bearer abc123", "abc123", bearerOK},
		{"Bearer ", "", bearerMalformed},
		{"Basic dXNlcjpwYXNz", "", bearerMalformed},
		{"bearer abc123", "", bearerMalformed},
		{"abc123", "", bearerMalformed},
	}

	for _, tt := range tests {
		token, state := parseBearer(tt.header)
		assert.Equal(t, tt.state, state, "header %q", tt.header)
		assert.Equal(t, tt.token, token, "header %q", tt.header)
	}
}

func TestRequireAuthNoHeader(t *testing.T) {
	p := &fakeProvider{}

	rec, nextCalled := runProtected(t, p, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
	assert.Zero(t, p.verifyCalls, "provider must not be called without a token")

	body := decodeError(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Unauthorized: No token provided", body["message"])
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	p := &fakeProvider{}

	rec, nextCalled := runProtected(t, p, "Token abc123")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
	assert.Zero(t, p.verifyCalls)

	// malformed collapses into the same message as absent
	body := decodeError(t, rec)
	assert.Equal(t, "Unauthorized: No token provided", body["message"])
}

func TestRequireAuthProviderRejectsToken(t *testing.T) {
	p := &fakeProvider{
		verifyFn: func(ctx context.Context, token string) (*auth.Principal, error) {
			return nil, errors.New("invalid JWT")
		},
	}

	rec, nextCalled := runProtected(t, p, "Bearer expired-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
	assert.Equal(t, 1, p.verifyCalls)

	body := decodeError(t, rec)
	assert.Equal(t, "Unauthorized: Invalid token", body["message"])
}

func TestRequireAuthAttachesPrincipal(t *testing.T) {
	p := &fakeProvider{
		verifyFn: func(ctx context.Context, token string) (*auth.Principal, error) {
			assert.Equal(t, "good-token", token)
			return &auth.Principal{ID: "user-123", Email: "x@gmail.com"}, nil
		},
	}

	var got *auth.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		got = principal
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	rec := httptest.NewRecorder()
	NewAuthMiddleware(p).RequireAuth(next).ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, "user-123", got.ID)
	assert.Equal(t, "x@gmail.com", got.Email)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthMisbehavingProvider(t *testing.T) {
	p := &fakeProvider{
		verifyFn: func(ctx context.Context, token string) (*auth.Principal, error) {
			return &auth.Principal{}, nil // no id, no error
		},
	}

	rec, nextCalled := runProtected(t, p, "Bearer token")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, nextCalled)

	body := decodeError(t, rec)
	assert.Equal(t, "An error occurred during authentication", body["message"])
}

func TestPrincipalFromContextMissing(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)
}
