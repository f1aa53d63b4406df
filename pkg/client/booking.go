package client

import (
	"context"
	"net/url"

	"escapedia/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(httpClient *HttpClient) *BookingClient {
	return &BookingClient{httpClient: httpClient}
}

func (c *BookingClient) one(resp *Response, err error) (*model.Booking, error) {
	var out struct {
		Booking *model.Booking `json:"booking"`
	}
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Booking, nil
}

func (c *BookingClient) many(resp *Response, err error) ([]model.Booking, error) {
	var out struct {
		Bookings []model.Booking `json:"bookings"`
	}
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

func (c *BookingClient) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	return c.one(c.httpClient.POST(ctx, "/bookings", req))
}

func (c *BookingClient) Mine(ctx context.Context) ([]model.Booking, error) {
	return c.many(c.httpClient.GET(ctx, "/bookings/mine"))
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return c.one(c.httpClient.PATCH(ctx, "/bookings/"+url.PathEscape(id)+"/cancel", nil))
}

// UpdateStatus sets any status. Admin only.
func (c *BookingClient) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	body := model.StatusUpdate{Status: status}
	return c.one(c.httpClient.PATCH(ctx, "/bookings/"+url.PathEscape(id)+"/status", body))
}

// OwnerList returns bookings of the caller's rooms, optionally filtered by status.
func (c *BookingClient) OwnerList(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
	path := "/owner/bookings"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	return c.many(c.httpClient.GET(ctx, path))
}

func (c *BookingClient) OwnerConfirm(ctx context.Context, id string) (*model.Booking, error) {
	return c.ownerAction(ctx, id, "confirm")
}

func (c *BookingClient) OwnerComplete(ctx context.Context, id string) (*model.Booking, error) {
	return c.ownerAction(ctx, id, "complete")
}

func (c *BookingClient) OwnerCancel(ctx context.Context, id string) (*model.Booking, error) {
	return c.ownerAction(ctx, id, "cancel")
}

func (c *BookingClient) ownerAction(ctx context.Context, id, action string) (*model.Booking, error) {
	return c.one(c.httpClient.PATCH(ctx, "/owner/bookings/"+url.PathEscape(id)+"/"+action, nil))
}
