package apiclient

import (
	"context"
	"net/http"

	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
)

// Login exchanges credentials for a token. The auth endpoints are not enveloped.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	return c.authenticate(ctx, "auth.login", "/Auth/login", req)
}

// Register creates an account; vendors and delivery agents may get no token until approved.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	return c.authenticate(ctx, "auth.register", "/Auth/register", req)
}

func (c *Client) authenticate(ctx context.Context, op, path string, body any) (AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, op, http.MethodPost, path, nil, body, &result); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			// Wrong credentials come back as 401; surface them as a rejected login.
			return AuthResult{}, pkgerrors.Wrap(pkgerrors.CodeBusiness, err, "invalid email or password")
		}
		return AuthResult{}, err
	}
	if !result.Success {
		return result, c.business(ctx, op, result.Message)
	}
	return result, nil
}
