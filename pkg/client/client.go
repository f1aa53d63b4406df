package client

import (
	"context"
	"time"
)

// Client groups every typed client over one API base URL.
type Client struct {
	Auth     *AuthClient
	Rooms    *RoomClient
	Locales  *LocalClient
	Bookings *BookingClient
	Reviews  *ReviewClient
	Users    *UserClient
	Trophies *TrophyClient
	Upload   *UploadClient
}

type Options struct {
	BaseURL                string
	Timeout                time.Duration
	CloudinaryCloudName    string
	CloudinaryUploadPreset string
}

func NewClient(opts Options) *Client {
	api := NewHttpClient(opts.BaseURL, opts.Timeout)
	cdn := NewHttpClient("", opts.Timeout)
	return &Client{
		Auth:     NewAuthClient(api),
		Rooms:    NewRoomClient(api),
		Locales:  NewLocalClient(api),
		Bookings: NewBookingClient(api),
		Reviews:  NewReviewClient(api),
		Users:    NewUserClient(api),
		Trophies: NewTrophyClient(api),
		Upload:   NewUploadClient(cdn, opts.CloudinaryCloudName, opts.CloudinaryUploadPreset),
	}
}

// WithoutToken strips the bearer token from ctx.
func WithoutToken(ctx context.Context) context.Context {
	return context.WithValue(ctx, tokenKey{}, "")
}
