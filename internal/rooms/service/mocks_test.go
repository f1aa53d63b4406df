package service

import (
	"context"
	"io"
	"net/url"

	"escapedia/pkg/model"
)

type mockRoomAPI struct {
	ListFunc   func(ctx context.Context, query url.Values) (*model.RoomPage, error)
	GetFunc    func(ctx context.Context, id string) (*model.Room, error)
	CreateFunc func(ctx context.Context, in model.RoomInput) (*model.Room, error)
	UpdateFunc func(ctx context.Context, id string, body any) (*model.Room, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockRoomAPI) List(ctx context.Context, q url.Values) (*model.RoomPage, error) {
	return m.ListFunc(ctx, q)
}

func (m *mockRoomAPI) Get(ctx context.Context, id string) (*model.Room, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockRoomAPI) Create(ctx context.Context, in model.RoomInput) (*model.Room, error) {
	return m.CreateFunc(ctx, in)
}

func (m *mockRoomAPI) Update(ctx context.Context, id string, body any) (*model.Room, error) {
	return m.UpdateFunc(ctx, id, body)
}

func (m *mockRoomAPI) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockReviewAPI struct {
	ByRoomFunc func(ctx context.Context, roomID string) ([]model.Review, error)
}

func (m *mockReviewAPI) ByRoom(ctx context.Context, roomID string) ([]model.Review, error) {
	return m.ByRoomFunc(ctx, roomID)
}

type mockLocalAPI struct {
	ListFunc   func(ctx context.Context) ([]model.Local, error)
	MineFunc   func(ctx context.Context) ([]model.Local, error)
	PublicFunc func(ctx context.Context) ([]model.Local, error)
}

func (m *mockLocalAPI) List(ctx context.Context) ([]model.Local, error)   { return m.ListFunc(ctx) }
func (m *mockLocalAPI) Mine(ctx context.Context) ([]model.Local, error)   { return m.MineFunc(ctx) }
func (m *mockLocalAPI) Public(ctx context.Context) ([]model.Local, error) { return m.PublicFunc(ctx) }

type mockUploader struct {
	configured bool
	ImageFunc  func(ctx context.Context, filename string, content io.Reader) (string, error)
}

func (m *mockUploader) Configured() bool { return m.configured }

func (m *mockUploader) Image(ctx context.Context, filename string, content io.Reader) (string, error) {
	return m.ImageFunc(ctx, filename, content)
}
