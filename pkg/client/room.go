package client

import (
	"context"
	"net/url"

	"escapedia/pkg/model"
)

type RoomClient struct {
	httpClient *HttpClient
}

func NewRoomClient(httpClient *HttpClient) *RoomClient {
	return &RoomClient{httpClient: httpClient}
}

// List fetches one catalog page. The query is sent as given.
func (c *RoomClient) List(ctx context.Context, query url.Values) (*model.RoomPage, error) {
	path := "/rooms"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out model.RoomPage
	resp, err := c.httpClient.GET(ctx, path)
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RoomClient) Get(ctx context.Context, id string) (*model.Room, error) {
	var out struct {
		Room *model.Room `json:"room"`
	}
	resp, err := c.httpClient.GET(ctx, "/rooms/"+url.PathEscape(id))
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	if out.Room == nil {
		return nil, &APIError{StatusCode: 404, Message: "Sala no encontrada"}
	}
	return out.Room, nil
}

// Availability returns the server-computed slots of a room for date (YYYY-MM-DD).
func (c *RoomClient) Availability(ctx context.Context, roomID, date string) (*model.Availability, error) {
	path := "/rooms/" + url.PathEscape(roomID) + "/availability?date=" + url.QueryEscape(date)
	var out model.Availability
	resp, err := c.httpClient.GET(ctx, path)
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RoomClient) Create(ctx context.Context, in model.RoomInput) (*model.Room, error) {
	var out struct {
		Room *model.Room `json:"room"`
	}
	resp, err := c.httpClient.POST(ctx, "/rooms", in)
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Room, nil
}

// Update sends a full or partial room body.
func (c *RoomClient) Update(ctx context.Context, id string, body any) (*model.Room, error) {
	var out struct {
		Room *model.Room `json:"room"`
	}
	resp, err := c.httpClient.PUT(ctx, "/rooms/"+url.PathEscape(id), body)
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Room, nil
}

func (c *RoomClient) Delete(ctx context.Context, id string) error {
	_, err := c.httpClient.DELETE(ctx, "/rooms/"+url.PathEscape(id))
	return err
}
