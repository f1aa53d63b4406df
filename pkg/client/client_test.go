package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"escapedia/pkg/model"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/"})
}

func TestHttpClient_BearerToken(t *testing.T) {
	var got string
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"user":{"_id":"u1","name":"Ana","role":"owner"}}`))
	})

	user, err := c.Auth.Me(WithToken(context.Background(), "tok"))
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if got != "Bearer tok" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer tok")
	}
	if user.ID != "u1" || user.Role != model.RoleOwner {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestHttpClient_NoTokenNoHeader(t *testing.T) {
	var got string
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"locales":[]}`))
	})

	if _, err := c.Locales.Public(context.Background()); err != nil {
		t.Fatalf("Public() error = %v", err)
	}
	if got != "" {
		t.Errorf("Authorization = %q, want empty", got)
	}
}

func TestHttpClient_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusConflict, `{"message":"Ese horario ya está reservado"}`, "Ese horario ya está reservado"},
		{"error field", http.StatusBadRequest, `{"error":"bad"}`, "bad"},
		{"no body", http.StatusUnauthorized, ``, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Bookings.Mine(context.Background())
			if !IsStatus(err, tt.status) {
				t.Fatalf("IsStatus(%v, %d) = false", err, tt.status)
			}
			apiErr := err.(*APIError)
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestRoomClient_ListSendsQuery(t *testing.T) {
	var gotQuery url.Values
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rooms" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"rooms":[{"_id":"r1","title":"La cripta"}],"page":2,"totalPages":3,"total":30}`))
	})

	q := url.Values{"city": {"Madrid"}, "page": {"2"}, "limit": {"12"}}
	page, err := c.Rooms.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gotQuery.Get("city") != "Madrid" || gotQuery.Get("limit") != "12" {
		t.Errorf("query = %v", gotQuery)
	}
	if page.TotalPages != 3 || len(page.Rooms) != 1 || page.Rooms[0].Title != "La cripta" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestRoomClient_Availability(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rooms/r1/availability" || r.URL.Query().Get("date") != "2026-10-20" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"date":"2026-10-20","slots":[
			{"startsAt":"2026-10-20T16:00:00Z","time":"18:00","available":true,"callRequired":false},
			{"startsAt":"2026-10-20T18:00:00Z","time":"20:00","available":true,"callRequired":true}]}`))
	})

	av, err := c.Rooms.Availability(context.Background(), "r1", "2026-10-20")
	if err != nil {
		t.Fatalf("Availability() error = %v", err)
	}
	if len(av.Slots) != 2 {
		t.Fatalf("got %d slots", len(av.Slots))
	}
	if !av.Slots[0].Selectable() || av.Slots[1].Selectable() {
		t.Errorf("unexpected selectability %+v", av.Slots)
	}
}

func TestBookingClient_OwnerActions(t *testing.T) {
	var calls []string
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"booking":{"_id":"b1","status":"confirmed"}}`))
	})
	ctx := context.Background()

	if _, err := c.Bookings.OwnerConfirm(ctx, "b1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Bookings.OwnerComplete(ctx, "b1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Bookings.OwnerCancel(ctx, "b1"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"PATCH /owner/bookings/b1/confirm",
		"PATCH /owner/bookings/b1/complete",
		"PATCH /owner/bookings/b1/cancel",
	}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestBookingClient_UpdateStatusBody(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path != "/bookings/b1/status" || body["status"] != "completed" {
			t.Errorf("unexpected request %s %v", r.URL.Path, body)
		}
		_, _ = w.Write([]byte(`{"booking":{"_id":"b1","status":"completed"}}`))
	})

	b, err := c.Bookings.UpdateStatus(context.Background(), "b1", model.BookingCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != model.BookingCompleted {
		t.Errorf("status = %s", b.Status)
	}
}

func TestLocalClient_UploadCoverMultipart(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		f, hdr, err := r.FormFile("cover")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "cover.jpg" || string(data) != "jpegdata" {
			t.Errorf("unexpected file %s %q", hdr.Filename, data)
		}
		_, _ = w.Write([]byte(`{"local":{"_id":"l1","coverImageUrl":"https://cdn/x.jpg"}}`))
	})

	local, err := c.Locales.UploadCover(context.Background(), "l1", "cover.jpg", strings.NewReader("jpegdata"))
	if err != nil {
		t.Fatalf("UploadCover() error = %v", err)
	}
	if local.CoverImageURL != "https://cdn/x.jpg" {
		t.Errorf("CoverImageURL = %s", local.CoverImageURL)
	}
}

func TestUploadClient(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		up := NewUploadClient(NewHttpClient("", 0), "", "")
		if _, err := up.Image(context.Background(), "a.png", strings.NewReader("x")); err != ErrUploadNotConfigured {
			t.Errorf("err = %v, want ErrUploadNotConfigured", err)
		}
	})

	t.Run("uploads with preset and no bearer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/demo/image/upload" {
				t.Errorf("path = %s", r.URL.Path)
			}
			if r.Header.Get("Authorization") != "" {
				t.Error("bearer token leaked to the CDN")
			}
			_ = r.ParseMultipartForm(1 << 20)
			if r.FormValue("upload_preset") != "unsigned" {
				t.Errorf("upload_preset = %q", r.FormValue("upload_preset"))
			}
			_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/a.png"}`))
		}))
		defer srv.Close()

		up := NewUploadClient(NewHttpClient("", 0), "demo", "unsigned").WithBaseURL(srv.URL + "/")
		got, err := up.Image(WithToken(context.Background(), "secret"), "a.png", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("Image() error = %v", err)
		}
		if got != "https://res.cloudinary.com/demo/a.png" {
			t.Errorf("url = %s", got)
		}
	})
}
