package service

import (
	"context"

	"escapedia/pkg/model"
)

type mockAvailabilityAPI struct {
	AvailabilityFunc func(ctx context.Context, roomID, date string) (*model.Availability, error)
}

func (m *mockAvailabilityAPI) Availability(ctx context.Context, roomID, date string) (*model.Availability, error) {
	return m.AvailabilityFunc(ctx, roomID, date)
}

type mockCreator struct {
	calls      int
	CreateFunc func(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
}

func (m *mockCreator) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	m.calls++
	return m.CreateFunc(ctx, req)
}

type mockOwnerAPI struct {
	calls            []string
	OwnerListFunc    func(ctx context.Context, status model.BookingStatus) ([]model.Booking, error)
	ActionErr        error
	UpdateStatusFunc func(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)
}

func (m *mockOwnerAPI) OwnerList(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
	return m.OwnerListFunc(ctx, status)
}

func (m *mockOwnerAPI) action(name, id string, status model.BookingStatus) (*model.Booking, error) {
	m.calls = append(m.calls, name)
	if m.ActionErr != nil {
		return nil, m.ActionErr
	}
	return &model.Booking{ID: id, Status: status}, nil
}

func (m *mockOwnerAPI) OwnerConfirm(ctx context.Context, id string) (*model.Booking, error) {
	return m.action("confirm", id, model.BookingConfirmed)
}

func (m *mockOwnerAPI) OwnerComplete(ctx context.Context, id string) (*model.Booking, error) {
	return m.action("complete", id, model.BookingCompleted)
}

func (m *mockOwnerAPI) OwnerCancel(ctx context.Context, id string) (*model.Booking, error) {
	return m.action("cancel", id, model.BookingCancelled)
}

func (m *mockOwnerAPI) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	m.calls = append(m.calls, "status:"+string(status))
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return &model.Booking{ID: id, Status: status}, m.ActionErr
}
