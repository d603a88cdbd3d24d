package external

import (
	"context"
	"net/url"

	"spark-chat/internal/domain/user"
	spark_errors "spark-chat/pkg/errors"
)

// ProfileClient reads public profiles from the profile service.
type ProfileClient struct {
	http *httpClient
}

func NewProfileClient(cfg Config) *ProfileClient {
	return &ProfileClient{http: newHTTPClient(cfg)}
}

type profileResponse struct {
	Success bool `json:"success"`
	Profile *struct {
		UID      string `json:"uid"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		PhotoURL string `json:"photoUrl"`
	} `json:"profile"`
}

func (c *ProfileClient) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	var resp profileResponse
	if err := c.http.do(ctx, "GET", "/api/profile/"+url.PathEscape(userID), nil, &resp); err != nil {
		return user.Profile{}, err
	}
	if resp.Profile == nil {
		return user.Profile{}, spark_errors.ErrNotFound
	}
	return user.Profile{
		UserID:        userID,
		Name:          resp.Profile.Name,
		ContactHandle: resp.Profile.Email,
		AvatarRef:     resp.Profile.PhotoURL,
	}, nil
}
