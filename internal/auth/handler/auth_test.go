package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"escapedia/internal/auth/service"
	"escapedia/internal/auth/validator"
	"escapedia/internal/guard"
	"escapedia/internal/session"
	"escapedia/internal/web"
	"escapedia/pkg/client"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sealer"

	"github.com/julienschmidt/httprouter"
)

const cookieName = "escapedia_session"

func newTestRouter(t *testing.T, api http.Handler) *httprouter.Router {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	log := logger.Discard()
	c := client.NewClient(client.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})

	renderer, err := web.New(time.UTC, log)
	if err != nil {
		t.Fatalf("web.New() error = %v", err)
	}
	s, err := sealer.New(base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32)))
	if err != nil {
		t.Fatal(err)
	}

	svc := service.NewAuthService(c.Auth, c.Trophies, c.Reviews, validator.NewAuthValidator(log), log)
	h := NewAuthHandler(svc, renderer, session.NewManager(cookieName, false, s), guard.New(renderer.Placeholder()), log)

	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func serve(router http.Handler, req *http.Request, state *session.State) *httptest.ResponseRecorder {
	if state != nil {
		req = req.WithContext(session.WithState(req.Context(), *state))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret123" {
			writeJSON(w, 401, map[string]string{"message": "Credenciales inválidas"})
			return
		}
		writeJSON(w, 200, client.Session{Token: "tok", User: &model.User{ID: "u1"}})
	})
	router := newTestRouter(t, mux)

	t.Run("success goes to next", func(t *testing.T) {
		form := url.Values{"email": {"ana@example.com"}, "password": {"secret123"}, "next": {"/salas/r1"}}
		rec := serve(router, postForm("/login", form), &session.State{})
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/salas/r1" {
			t.Fatalf("status = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
		}
		c := sessionCookie(rec)
		if c == nil || c.Value == "" || c.Value == "tok" {
			t.Errorf("cookie = %+v, want a sealed token", c)
		}
	})

	t.Run("external next is ignored", func(t *testing.T) {
		form := url.Values{"email": {"ana@example.com"}, "password": {"secret123"}, "next": {"//evil.example"}}
		rec := serve(router, postForm("/login", form), &session.State{})
		if rec.Header().Get("Location") != "/" {
			t.Errorf("Location = %q", rec.Header().Get("Location"))
		}
	})

	t.Run("api message shown verbatim", func(t *testing.T) {
		form := url.Values{"email": {"ana@example.com"}, "password": {"wrong"}}
		rec := serve(router, postForm("/login", form), &session.State{})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Credenciales inválidas") {
			t.Error("expected the API message")
		}
		if sessionCookie(rec) != nil {
			t.Error("failed login must not set a session")
		}
	})
}

func TestLogout(t *testing.T) {
	rec := serve(newTestRouter(t, http.NotFoundHandler()), postForm("/logout", url.Values{}), &session.State{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Errorf("cookie = %+v, want expired", c)
	}
}

func TestResetPassword(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, 200, map[string]string{"message": "ok"})
	})
	router := newTestRouter(t, mux)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/reset-password", nil), &session.State{})
	if !strings.Contains(rec.Body.String(), "no es válido") || strings.Contains(rec.Body.String(), `name="newPassword"`) {
		t.Error("missing token should render the invalid-token message without a form")
	}

	rec = serve(router, postForm("/reset-password", url.Values{"token": {"t"}, "newPassword": {"longenough"}, "confirm": {"other-pass"}}), &session.State{})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "no coinciden") {
		t.Errorf("mismatch: status = %d", rec.Code)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("blocked submissions must not reach the API")
	}

	rec = serve(router, postForm("/reset-password", url.Values{"token": {"t"}, "newPassword": {"longenough"}, "confirm": {"longenough"}}), &session.State{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("status = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d", calls)
	}
}

func TestProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trophies/mine", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]string{"message": "boom"})
	})
	mux.HandleFunc("/reviews/mine", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"reviews": []model.Review{{ID: "rv1", RoomID: "r1", Rating: 4, Comment: "Muy divertida"}}})
	})
	router := newTestRouter(t, mux)

	user := &session.State{User: &model.User{ID: "u1", Name: "Ana", Email: "ana@example.com", EmailVerified: true}, Token: "t"}
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/perfil", nil), user)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Email verificado", "Todavía no tienes trofeos.", "Muy divertida"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/perfil", nil), &session.State{})
	if rec.Header().Get("Location") != "/login?next=%2Fperfil" {
		t.Errorf("anonymous Location = %q", rec.Header().Get("Location"))
	}
}
