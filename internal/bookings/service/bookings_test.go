package service

import (
	"context"
	"testing"
	"time"

	"escapedia/internal/events"
	"escapedia/internal/session"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
)

type recordingPublisher struct {
	got []events.Activity
}

func (p *recordingPublisher) Publish(ctx context.Context, a events.Activity) {
	p.got = append(p.got, a)
}

type mockBookingAPI struct {
	CreateFunc func(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
	MineFunc   func(ctx context.Context) ([]model.Booking, error)
	CancelFunc func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingAPI) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	return m.CreateFunc(ctx, req)
}

func (m *mockBookingAPI) Mine(ctx context.Context) ([]model.Booking, error) {
	return m.MineFunc(ctx)
}

func (m *mockBookingAPI) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return m.CancelFunc(ctx, id)
}

func newBookingService(api *mockBookingAPI, pub events.Publisher) *BookingService {
	madrid, _ := time.LoadLocation("Europe/Madrid")
	s := NewBookingService(fixedAvailability(daySlots), api, pub, madrid, logger.Discard())
	// 23:30 UTC is already the next day in Madrid
	s.now = func() time.Time { return time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC) }
	return s
}

func TestToday_UsesConfiguredZone(t *testing.T) {
	s := newBookingService(&mockBookingAPI{}, nil)
	if got := s.Today(); got != "2026-10-15" {
		t.Errorf("Today() = %s", got)
	}
}

func TestDate(t *testing.T) {
	s := newBookingService(&mockBookingAPI{}, nil)
	tests := map[string]string{
		"":           "2026-10-15",
		"garbage":    "2026-10-15",
		"2026-10-01": "2026-10-15",
		"2026-10-15": "2026-10-15",
		"2026-12-24": "2026-12-24",
	}
	for in, want := range tests {
		if got := s.Date(in); got != want {
			t.Errorf("Date(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestCreate_PublishesActivity(t *testing.T) {
	pub := &recordingPublisher{}
	api := &mockBookingAPI{CreateFunc: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
		return &model.Booking{ID: "b7", Status: model.BookingPending}, nil
	}}
	s := newBookingService(api, pub)

	ctx := session.WithState(context.Background(), loggedIn)
	if _, err := s.Create(ctx, model.BookingRequest{RoomID: "r1", Players: 2}); err != nil {
		t.Fatal(err)
	}
	if len(pub.got) != 1 {
		t.Fatalf("published %d events", len(pub.got))
	}
	a := pub.got[0]
	if a.Type != events.TypeBookingRequested || a.EntityID != "b7" || a.ActorID != "u1" {
		t.Errorf("activity = %+v", a)
	}
}

func TestMine_FiltersByStatus(t *testing.T) {
	api := &mockBookingAPI{MineFunc: func(ctx context.Context) ([]model.Booking, error) {
		return []model.Booking{{ID: "1", Status: model.BookingPending}, {ID: "2", Status: model.BookingCompleted}}, nil
	}}
	s := newBookingService(api, nil)

	all, _ := s.Mine(context.Background(), "")
	done, _ := s.Mine(context.Background(), model.BookingCompleted)
	if len(all) != 2 || len(done) != 1 || done[0].ID != "2" {
		t.Errorf("all = %v, done = %v", all, done)
	}
}
