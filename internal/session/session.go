package session

import (
	"context"
	"net/http"
	"time"

	"escapedia/pkg/client"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sealer"
)

const cookieMaxAge = 30 * 24 * time.Hour

// State is what a request knows about its visitor. Loading means the session
// has not been resolved and nothing decision-critical may be rendered.
type State struct {
	Loading bool
	User    *model.User
	Token   string
}

func (s State) Authenticated() bool {
	return !s.Loading && s.User != nil
}

func (s State) Role() model.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

type stateKey struct{}

// FromContext returns the resolved state. A request the middleware never saw reads as Loading.
func FromContext(ctx context.Context) State {
	s, ok := ctx.Value(stateKey{}).(State)
	if !ok {
		return State{Loading: true}
	}
	return s
}

// WithState stores s in ctx and makes API calls made with ctx carry its token.
func WithState(ctx context.Context, s State) context.Context {
	ctx = context.WithValue(ctx, stateKey{}, s)
	return client.WithToken(ctx, s.Token)
}

// Manager persists the API token in one sealed cookie.
type Manager struct {
	cookieName string
	secure     bool
	sealer     *sealer.Sealer
}

func NewManager(cookieName string, secure bool, s *sealer.Sealer) *Manager {
	return &Manager{cookieName: cookieName, secure: secure, sealer: s}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// Login persists token for later requests.
func (m *Manager) Login(w http.ResponseWriter, token string) error {
	sealed, err := m.sealer.Seal(token)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout expires the session cookie.
func (m *Manager) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Discard drops the token after the API rejected it.
func (m *Manager) Discard(w http.ResponseWriter) {
	m.Logout(w)
}

// DiscardOnUnauthorized discards the token when err is a 401 from the API and reports whether it did.
func (m *Manager) DiscardOnUnauthorized(w http.ResponseWriter, err error) bool {
	if !client.IsStatus(err, http.StatusUnauthorized) {
		return false
	}
	m.Discard(w)
	return true
}

// token returns the unsealed token. present reports whether a cookie was sent at all.
func (m *Manager) token(r *http.Request) (token string, present bool, err error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return "", false, nil
	}
	token, err = m.sealer.Open(c.Value)
	return token, true, err
}

// MeFetcher resolves the token carried by ctx into a user.
type MeFetcher interface {
	Me(ctx context.Context) (*model.User, error)
}

type Resolver struct {
	manager *Manager
	auth    MeFetcher
	log     *logger.Logger
}

func NewResolver(manager *Manager, auth MeFetcher, log *logger.Logger) *Resolver {
	return &Resolver{manager: manager, auth: auth, log: log}
}

// Resolve turns the request cookie into a State. Every outcome clears Loading and
// any failure discards the token.
func (res *Resolver) Resolve(w http.ResponseWriter, r *http.Request) State {
	token, present, err := res.manager.token(r)
	if !present {
		return State{}
	}
	if err != nil {
		res.log.Info("Discarding unreadable session cookie", "error", err)
		res.manager.Discard(w)
		return State{}
	}

	user, err := res.auth.Me(client.WithToken(r.Context(), token))
	if err != nil {
		res.log.Info("Session token rejected", "error", err)
		res.manager.Discard(w)
		return State{}
	}

	return State{User: user, Token: token}
}

// Middleware resolves the session once per request and stores it in the context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := res.Resolve(w, r)
		next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state)))
	})
}
