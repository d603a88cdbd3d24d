package external

import "context"

// IcebreakerClient asks the generation service for conversation openers.
type IcebreakerClient struct {
	http *httpClient
}

func NewIcebreakerClient(cfg Config) *IcebreakerClient {
	return &IcebreakerClient{http: newHTTPClient(cfg)}
}

type generateRequest struct {
	RequesterID string `json:"requester_id"`
	RecipientID string `json:"recipient_id"`
	Count       int    `json:"count"`
}

type generateResponse struct {
	Success     bool     `json:"success"`
	Icebreakers []string `json:"icebreakers"`
}

func (c *IcebreakerClient) Generate(ctx context.Context, requesterID, recipientID string, n int) ([]string, error) {
	var resp generateResponse
	err := c.http.do(ctx, "POST", "/api/icebreaker/generate", generateRequest{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Count:       n,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Icebreakers, nil
}
