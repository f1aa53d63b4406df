package client

import (
	"context"
	"io"
	"net/url"

	"escapedia/pkg/model"
)

type LocalClient struct {
	httpClient *HttpClient
}

func NewLocalClient(httpClient *HttpClient) *LocalClient {
	return &LocalClient{httpClient: httpClient}
}

type localsEnvelope struct {
	Locales []model.Local `json:"locales"`
}

type localEnvelope struct {
	Local *model.Local `json:"local"`
}

func (c *LocalClient) list(ctx context.Context, path string) ([]model.Local, error) {
	var out localsEnvelope
	resp, err := c.httpClient.GET(ctx, path)
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Locales, nil
}

func (c *LocalClient) one(resp *Response, err error) (*model.Local, error) {
	var out localEnvelope
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	if out.Local == nil {
		return nil, &APIError{StatusCode: 404, Message: "Local no encontrado"}
	}
	return out.Local, nil
}

// List returns every local. Admin only.
func (c *LocalClient) List(ctx context.Context) ([]model.Local, error) {
	return c.list(ctx, "/locales")
}

func (c *LocalClient) Mine(ctx context.Context) ([]model.Local, error) {
	return c.list(ctx, "/locales/mine")
}

func (c *LocalClient) Public(ctx context.Context) ([]model.Local, error) {
	return c.list(ctx, "/locales/public")
}

func (c *LocalClient) PublicByID(ctx context.Context, id string) (*model.Local, error) {
	return c.one(c.httpClient.GET(ctx, "/locales/public/"+url.PathEscape(id)))
}

func (c *LocalClient) PublicRooms(ctx context.Context, id string) ([]model.Room, error) {
	var out struct {
		Rooms []model.Room `json:"rooms"`
	}
	resp, err := c.httpClient.GET(ctx, "/locales/public/"+url.PathEscape(id)+"/rooms")
	if err := decode(resp, err, &out); err != nil {
		return nil, err
	}
	return out.Rooms, nil
}

func (c *LocalClient) Create(ctx context.Context, in model.LocalInput) (*model.Local, error) {
	return c.one(c.httpClient.POST(ctx, "/locales", in))
}

func (c *LocalClient) Update(ctx context.Context, id string, in model.LocalInput) (*model.Local, error) {
	return c.one(c.httpClient.PUT(ctx, "/locales/"+url.PathEscape(id), in))
}

func (c *LocalClient) Delete(ctx context.Context, id string) error {
	_, err := c.httpClient.DELETE(ctx, "/locales/"+url.PathEscape(id))
	return err
}

// UploadCover posts the image as multipart field "cover".
func (c *LocalClient) UploadCover(ctx context.Context, id, filename string, content io.Reader) (*model.Local, error) {
	file := File{Field: "cover", Name: filename, Content: content}
	return c.one(c.httpClient.Multipart(ctx, "/locales/"+url.PathEscape(id)+"/cover", nil, file))
}

func (c *LocalClient) DeleteCover(ctx context.Context, id string) error {
	_, err := c.httpClient.DELETE(ctx, "/locales/"+url.PathEscape(id)+"/cover")
	return err
}
