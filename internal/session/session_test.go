package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"escapedia/pkg/client"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sealer"
)

const testKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

type mockMe struct {
	MeFunc func(ctx context.Context) (*model.User, error)
}

func (m *mockMe) Me(ctx context.Context) (*model.User, error) {
	return m.MeFunc(ctx)
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	s, err := sealer.New(testKey)
	if err != nil {
		t.Fatal(err)
	}
	return NewManager("token", false, s)
}

func sessionCookie(t *testing.T, m *Manager, token string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := m.Login(rec, token); err != nil {
		t.Fatal(err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func expired(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestResolve(t *testing.T) {
	m := newManager(t)
	owner := &model.User{ID: "u1", Name: "Ana", Role: model.RoleOwner}

	tests := []struct {
		name        string
		cookie      func() *http.Cookie
		me          func(ctx context.Context) (*model.User, error)
		wantUser    bool
		wantDiscard bool
		wantCalls   int
	}{
		{
			name:      "no cookie is anonymous without a request",
			cookie:    func() *http.Cookie { return nil },
			wantCalls: 0,
		},
		{
			name:        "tampered cookie is discarded without a request",
			cookie:      func() *http.Cookie { return &http.Cookie{Name: "token", Value: "garbage"} },
			wantDiscard: true,
			wantCalls:   0,
		},
		{
			name:   "valid token resolves the user",
			cookie: func() *http.Cookie { return sessionCookie(t, m, "api-token") },
			me: func(ctx context.Context) (*model.User, error) {
				if client.TokenFromContext(ctx) != "api-token" {
					t.Errorf("token = %q", client.TokenFromContext(ctx))
				}
				return owner, nil
			},
			wantUser:  true,
			wantCalls: 1,
		},
		{
			name:   "rejected token is discarded",
			cookie: func() *http.Cookie { return sessionCookie(t, m, "stale") },
			me: func(ctx context.Context) (*model.User, error) {
				return nil, &client.APIError{StatusCode: 401, Message: "Token inválido"}
			},
			wantDiscard: true,
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			fetcher := &mockMe{MeFunc: func(ctx context.Context) (*model.User, error) {
				calls++
				return tt.me(ctx)
			}}
			res := NewResolver(m, fetcher, logger.Discard())

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if c := tt.cookie(); c != nil {
				r.AddCookie(c)
			}
			rec := httptest.NewRecorder()
			state := res.Resolve(rec, r)

			if state.Loading {
				t.Error("Resolve must always clear Loading")
			}
			if state.Authenticated() != tt.wantUser {
				t.Errorf("Authenticated() = %v, want %v", state.Authenticated(), tt.wantUser)
			}
			if expired(rec) != tt.wantDiscard {
				t.Errorf("discarded = %v, want %v", expired(rec), tt.wantDiscard)
			}
			if calls != tt.wantCalls {
				t.Errorf("Me calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestMiddleware_StoresState(t *testing.T) {
	m := newManager(t)
	fetcher := &mockMe{MeFunc: func(ctx context.Context) (*model.User, error) {
		return &model.User{ID: "u1", Role: model.RoleAdmin}, nil
	}}
	res := NewResolver(m, fetcher, logger.Discard())

	var got State
	var token string
	h := res.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		token = client.TokenFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/perfil", nil)
	r.AddCookie(sessionCookie(t, m, "tok"))
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got.Role() != model.RoleAdmin || got.Token != "tok" {
		t.Errorf("state = %+v", got)
	}
	if token != "tok" {
		t.Errorf("API token in context = %q", token)
	}
}

func TestFromContext_UnresolvedIsLoading(t *testing.T) {
	if !FromContext(context.Background()).Loading {
		t.Error("an unresolved request must read as Loading")
	}
}

func TestDiscardOnUnauthorized(t *testing.T) {
	m := newManager(t)

	rec := httptest.NewRecorder()
	if !m.DiscardOnUnauthorized(rec, &client.APIError{StatusCode: 401}) || !expired(rec) {
		t.Error("401 should discard the cookie")
	}

	rec = httptest.NewRecorder()
	if m.DiscardOnUnauthorized(rec, &client.APIError{StatusCode: 403}) || expired(rec) {
		t.Error("403 must keep the cookie")
	}
}
