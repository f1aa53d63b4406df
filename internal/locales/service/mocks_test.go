package service

import (
	"context"
	"io"

	"escapedia/pkg/model"
)

type mockLocalAPI struct {
	ListFunc        func(ctx context.Context) ([]model.Local, error)
	MineFunc        func(ctx context.Context) ([]model.Local, error)
	PublicFunc      func(ctx context.Context) ([]model.Local, error)
	PublicByIDFunc  func(ctx context.Context, id string) (*model.Local, error)
	PublicRoomsFunc func(ctx context.Context, id string) ([]model.Room, error)
	CreateFunc      func(ctx context.Context, in model.LocalInput) (*model.Local, error)
	UpdateFunc      func(ctx context.Context, id string, in model.LocalInput) (*model.Local, error)
	DeleteFunc      func(ctx context.Context, id string) error
	UploadCoverFunc func(ctx context.Context, id, filename string, content io.Reader) (*model.Local, error)
	DeleteCoverFunc func(ctx context.Context, id string) error
}

func (m *mockLocalAPI) List(ctx context.Context) ([]model.Local, error)   { return m.ListFunc(ctx) }
func (m *mockLocalAPI) Mine(ctx context.Context) ([]model.Local, error)   { return m.MineFunc(ctx) }
func (m *mockLocalAPI) Public(ctx context.Context) ([]model.Local, error) { return m.PublicFunc(ctx) }

func (m *mockLocalAPI) PublicByID(ctx context.Context, id string) (*model.Local, error) {
	return m.PublicByIDFunc(ctx, id)
}

func (m *mockLocalAPI) PublicRooms(ctx context.Context, id string) ([]model.Room, error) {
	return m.PublicRoomsFunc(ctx, id)
}

func (m *mockLocalAPI) Create(ctx context.Context, in model.LocalInput) (*model.Local, error) {
	return m.CreateFunc(ctx, in)
}

func (m *mockLocalAPI) Update(ctx context.Context, id string, in model.LocalInput) (*model.Local, error) {
	return m.UpdateFunc(ctx, id, in)
}

func (m *mockLocalAPI) Delete(ctx context.Context, id string) error { return m.DeleteFunc(ctx, id) }

func (m *mockLocalAPI) UploadCover(ctx context.Context, id, filename string, content io.Reader) (*model.Local, error) {
	return m.UploadCoverFunc(ctx, id, filename, content)
}

func (m *mockLocalAPI) DeleteCover(ctx context.Context, id string) error {
	return m.DeleteCoverFunc(ctx, id)
}

type mockOwners struct {
	OwnersFunc func(ctx context.Context) ([]model.User, error)
}

func (m *mockOwners) Owners(ctx context.Context) ([]model.User, error) { return m.OwnersFunc(ctx) }
