package client

import (
	"context"

	"escapedia/pkg/model"
)

type AuthClient struct {
	httpClient *HttpClient
}

func NewAuthClient(httpClient *HttpClient) *AuthClient {
	return &AuthClient{httpClient: httpClient}
}

// Session is the answer of login and register.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (c *AuthClient) Login(ctx context.Context, creds model.Credentials) (*Session, error) {
	var out Session
	resp, err := c.httpClient.POST(ctx, "/auth/login", creds)
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) Register(ctx context.Context, reg model.Registration) (*Session, error) {
	var out Session
	resp, err := c.httpClient.POST(ctx, "/auth/register", reg)
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me resolves the token carried by ctx into its user.
func (c *AuthClient) Me(ctx context.Context) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	resp, err := c.httpClient.GET(ctx, "/auth/me")
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &APIError{StatusCode: 401, Message: "empty session"}
	}
	return out.User, nil
}

func (c *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.httpClient.POST(ctx, "/auth/forgot-password", map[string]string{"email": email})
	return err
}

func (c *AuthClient) ResetPassword(ctx context.Context, reset model.PasswordReset) error {
	_, err := c.httpClient.POST(ctx, "/auth/reset-password", reset)
	return err
}
