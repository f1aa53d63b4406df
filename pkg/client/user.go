package client

import (
	"context"

	"escapedia/pkg/model"
)

type UserClient struct {
	httpClient *HttpClient
}

func NewUserClient(httpClient *HttpClient) *UserClient {
	return &UserClient{httpClient: httpClient}
}

func (c *UserClient) Owners(ctx context.Context) ([]model.User, error) {
	var out struct {
		Owners []model.User `json:"owners"`
	}
	resp, err := c.httpClient.GET(ctx, "/users/owners")
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Owners, nil
}

type TrophyClient struct {
	httpClient *HttpClient
}

func NewTrophyClient(httpClient *HttpClient) *TrophyClient {
	return &TrophyClient{httpClient: httpClient}
}

func (c *TrophyClient) Mine(ctx context.Context) ([]model.Trophy, error) {
	var out struct {
		Trophies []model.Trophy `json:"trophies"`
	}
	resp, err := c.httpClient.GET(ctx, "/trophies/mine")
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Trophies, nil
}
