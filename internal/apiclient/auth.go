package apiclient

import (
	"context"

	"kra360/internal/domain/auth"
)

type loginRequest struct {
	ZohoUserID string `json:"zohoUserId"`
}

// LoginByZohoID exchanges an HRIS user id for the backend user record.
func (c *Client) LoginByZohoID(ctx context.Context, zohoUserID string) (auth.BackendUser, error) {
	user, err := createResource[auth.BackendUser](ctx, c, "/auth/login-by-zoho-id", loginRequest{ZohoUserID: zohoUserID})
	if err != nil {
		return auth.BackendUser{}, err
	}
	return *user, nil
}
