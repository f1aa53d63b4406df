package client

import (
	"context"
	"net/url"

	"escapedia/pkg/model"
)

type ReviewClient struct {
	httpClient *HttpClient
}

func NewReviewClient(httpClient *HttpClient) *ReviewClient {
	return &ReviewClient{httpClient: httpClient}
}

type reviewsEnvelope struct {
	Reviews []model.Review `json:"reviews"`
}

func (c *ReviewClient) ByRoom(ctx context.Context, roomID string) ([]model.Review, error) {
	var out reviewsEnvelope
	resp, err := c.httpClient.GET(ctx, "/rooms/"+url.PathEscape(roomID)+"/reviews")
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

func (c *ReviewClient) Create(ctx context.Context, in model.ReviewInput) (*model.Review, error) {
	var out struct {
		Review *model.Review `json:"review"`
	}
	resp, err := c.httpClient.POST(ctx, "/reviews", in)
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Review, nil
}

func (c *ReviewClient) Mine(ctx context.Context) ([]model.Review, error) {
	var out reviewsEnvelope
	resp, err := c.httpClient.GET(ctx, "/reviews/mine")
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}
