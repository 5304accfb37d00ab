package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/provider"
)

// Client implements the provider contract against a Supabase (GoTrue style)
// auth API. It returns identity facts only; no user, profile, or session
// decisions are made here.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New initializes the Supabase client. baseURL must be the project URL,
// e.g. https://xyzcompany.supabase.co
func New(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, errors.New("supabase config missing required fields")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type userPayload struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u *userPayload) principal() *auth.Principal {
	return &auth.Principal{
		ID:       u.ID,
		Email:    u.Email,
		Metadata: u.UserMetadata,
	}
}

// authResponse covers both GoTrue success shapes: a bare user object when
// email confirmation is pending, or a token envelope with a nested user.
type authResponse struct {
	userPayload
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	RefreshToken string       `json:"refresh_token"`
	User         *userPayload `json:"user"`
}

func (r *authResponse) principal() *auth.Principal {
	if r.User != nil {
		return r.User.principal()
	}
	return r.userPayload.principal()
}

func (r *authResponse) session() *auth.Session {
	if r.AccessToken == "" {
		return nil
	}
	return &auth.Session{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		ExpiresIn:    r.ExpiresIn,
		RefreshToken: r.RefreshToken,
	}
}

// SignUp registers the user with metadata passed through as GoTrue "data".
func (c *Client) SignUp(
	ctx context.Context,
	email string,
	password string,
	metadata map[string]any,
) (*auth.Principal, *auth.Session, error) {

	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		body["data"] = metadata
	}

	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &out); err != nil {
		return nil, nil, err
	}

	p := out.principal()
	if p.ID == "" {
		return nil, nil, errors.New("supabase: signup response missing user id")
	}

	return p, out.session(), nil
}

// SignIn performs the password grant.
func (c *Client) SignIn(
	ctx context.Context,
	email string,
	password string,
) (*auth.Principal, *auth.Session, error) {

	body := map[string]any{
		"email":    email,
		"password": password,
	}

	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &out); err != nil {
		return nil, nil, err
	}

	p := out.principal()
	sess := out.session()
	if p.ID == "" || sess == nil {
		return nil, nil, errors.New("supabase: token response missing user or session")
	}

	return p, sess, nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// VerifyToken resolves the principal behind a bearer token.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (*auth.Principal, error) {
	var out userPayload
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &out); err != nil {
		return nil, err
	}

	if out.ID == "" {
		return nil, errors.New("supabase: user response missing id")
	}

	return out.principal(), nil
}

// errorPayload covers the error shapes GoTrue returns across endpoints.
type errorPayload struct {
	Msg         string `json:"msg"`
	Message     string `json:"message"`
	Description string `json:"error_description"`
}

func (e *errorPayload) text(status int) string {
	for _, s := range []string{e.Msg, e.Message, e.Description} {
		if s != "" {
			return s
		}
	}
	return http.StatusText(status)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	accessToken string,
	in any,
	out any,
) error {

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("supabase: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("supabase: build request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload errorPayload
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &provider.Error{
			Status:  resp.StatusCode,
			Message: payload.text(resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("supabase: decode response: %w", err)
	}

	return nil
}
