package platform

import (
	"context"
	"net/http"

	"github.com/bidbridge/bidbridge/internal/model"
)

// AuthSession is the token pair and identity issued by the platform on
// a successful sign-in or refresh.
type AuthSession struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int        `json:"expires_in"`
	User         model.User `json:"user"`
}

// SignIn exchanges an email and password for a session.
func (c *Client) SignIn(
	ctx context.Context,
	email string,
	password string,
) (*AuthSession, error) {
	payload := map[string]string{"email": email, "password": password}
	var auth AuthSession
	err := c.do(
		ctx, "sign in", http.MethodPost,
		"/auth/v1/token?grant_type=password", payload, &auth,
	)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

// RefreshSession exchanges a refresh token for a fresh session. Used at
// startup to resume the previous session without a password prompt.
func (c *Client) RefreshSession(
	ctx context.Context,
	refreshToken string,
) (*AuthSession, error) {
	payload := map[string]string{"refresh_token": refreshToken}
	var auth AuthSession
	err := c.do(
		ctx, "refresh session", http.MethodPost,
		"/auth/v1/token?grant_type=refresh_token", payload, &auth,
	)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

// SignOut revokes the current session's tokens. The caller clears the
// local session state regardless of the result.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, "sign out", http.MethodPost, "/auth/v1/logout", nil, nil)
}
