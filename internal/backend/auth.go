package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// User is the authenticated account's public profile.
type User struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	AvatarURL string
}

// AuthResult is a successful login or registration.
type AuthResult struct {
	Token        string
	RefreshToken string
	User         User
}

// userRecord tolerates both profile shapes: full_name on versioned
// endpoints, name on the legacy one.
type userRecord struct {
	ID        json.RawMessage `json:"id"`
	FullName  string          `json:"full_name"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	AvatarURL string          `json:"avatar_url"`
}

// authResponse tolerates both token key spellings.
type authResponse struct {
	Token        string     `json:"token"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         userRecord `json:"user"`
}

func (r authResponse) result() (AuthResult, error) {
	token := strings.TrimSpace(r.Token)
	if token == "" {
		token = strings.TrimSpace(r.AccessToken)
	}
	if token == "" {
		return AuthResult{}, errors.New("auth response carried no token")
	}
	fullName := strings.TrimSpace(r.User.FullName)
	if fullName == "" {
		fullName = strings.TrimSpace(r.User.Name)
	}
	var id string
	if len(r.User.ID) > 0 {
		// Reuse the tolerant identifier handling: ids arrive as numbers
		// or UUID strings depending on the endpoint generation.
		var s string
		if err := json.Unmarshal(r.User.ID, &s); err == nil {
			id = s
		} else {
			var n json.Number
			if err := json.Unmarshal(r.User.ID, &n); err == nil {
				id = n.String()
			}
		}
	}
	return AuthResult{
		Token:        token,
		RefreshToken: strings.TrimSpace(r.RefreshToken),
		User: User{
			ID:        id,
			FullName:  fullName,
			Email:     strings.TrimSpace(r.User.Email),
			Phone:     strings.TrimSpace(r.User.Phone),
			AvatarURL: strings.TrimSpace(r.User.AvatarURL),
		},
	}, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return AuthResult{}, err
	}
	return resp.result()
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, fullName, email, password, phone string) (AuthResult, error) {
	body := map[string]string{
		"full_name": fullName,
		"email":     email,
		"password":  password,
	}
	if strings.TrimSpace(phone) != "" {
		body["phone"] = phone
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return AuthResult{}, err
	}
	return resp.result()
}

// Logout revokes the current session server side. The local session is
// cleared by the caller regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// ForgotPassword requests a password reset email and returns the
// backend's acknowledgement message.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
