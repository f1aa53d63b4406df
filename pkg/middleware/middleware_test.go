package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"escapedia/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func okHandler(calls *int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func formRequest(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestContentTypeValidation(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"get passes", http.MethodGet, "", http.StatusOK},
		{"urlencoded", http.MethodPost, "application/x-www-form-urlencoded", http.StatusOK},
		{"multipart", http.MethodPost, "multipart/form-data; boundary=x", http.StatusOK},
		{"json rejected", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"missing rejected", http.MethodPost, "", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			h := ContentTypeValidation(testLogger())(okHandler(&calls))
			r := httptest.NewRequest(tt.method, "/login", nil)
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestKeyedRateLimiter_Allow(t *testing.T) {
	rl := NewKeyedRateLimiter(2, time.Minute, nil, testLogger())
	defer rl.Stop()

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request inside the window should be limited")
	}
	if !rl.Allow("b") {
		t.Error("other keys are independent")
	}
	if !rl.Allow("") {
		t.Error("empty key is never limited")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow("a") {
		t.Error("window should have slid")
	}
}

func TestRateLimit_OnlyScopedPaths(t *testing.T) {
	extractor := PathKey(func(r *http.Request) string { return "1.2.3.4" }, "/login")
	rl := NewKeyedRateLimiter(1, time.Minute, extractor, testLogger())
	defer rl.Stop()

	var calls int32
	h := RateLimit(rl)(okHandler(&calls))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, formRequest("/login", url.Values{}))
		if rec.Code != want {
			t.Errorf("login attempt %d status = %d, want %d", i, rec.Code, want)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, formRequest("/salas/1/reservar", url.Values{}))
	if rec.Code != http.StatusOK {
		t.Errorf("unscoped path status = %d", rec.Code)
	}
}

func TestIdempotency_ReplaysRedirect(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.SetCookie(w, &http.Cookie{Name: "flash", Value: "x"})
		http.Redirect(w, r, "/mis-reservas", http.StatusSeeOther)
	})
	h := Idempotency(store, FormKey("idempotency_key", "token"))(next)

	form := url.Values{"idempotency_key": {"k1"}}
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, formRequest("/salas/r1/reservar", form))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/mis-reservas" {
			t.Fatalf("attempt %d: status %d location %q", i, rec.Code, rec.Header().Get("Location"))
		}
		if i == 1 && rec.Header().Get("Set-Cookie") != "" {
			t.Error("replayed answer must not set cookies")
		}
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestIdempotency_FailuresNotCached(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusConflict)
	})
	h := Idempotency(store, FormKey("idempotency_key", "token"))(next)

	form := url.Values{"idempotency_key": {"k2"}}
	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), formRequest("/salas/r1/reservar", form))
	}
	if calls != 2 {
		t.Errorf("handler called %d times, want 2", calls)
	}
}

func TestCSRFProtection(t *testing.T) {
	secret := []byte("0123456789abcdef")
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CSRFToken(r.Context())
	})
	h := CSRFProtection(secret, false, testLogger())(next)

	// a first GET issues the seed cookie and exposes the token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || seen == "" {
		t.Fatalf("expected seed cookie and token, got %v %q", cookies, seen)
	}
	token := seen

	t.Run("valid token", func(t *testing.T) {
		r := formRequest("/login", url.Values{CSRFField: {token}})
		r.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		r := formRequest("/login", url.Values{})
		r.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("token without seed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, formRequest("/login", url.Values{CSRFField: {token}}))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestRecovery(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		_, _ = w.Write([]byte("late"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequestTimeout_PanicReachesRecovery(t *testing.T) {
	h := Recovery(testLogger())(RequestTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	var id string
	h := RequestLogging(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = RequestID(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if id == "" || rec.Header().Get(RequestIDHeader) != id {
		t.Errorf("request id %q, header %q", id, rec.Header().Get(RequestIDHeader))
	}
}
