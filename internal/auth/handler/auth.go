package handler

import (
	"errors"
	"net/http"

	autherrors "escapedia/internal/auth/errors"
	"escapedia/internal/auth/service"
	"escapedia/internal/guard"
	"escapedia/internal/session"
	"escapedia/internal/web"
	apperrors "escapedia/pkg/errors"
	httputil "escapedia/pkg/http"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/validation"

	"github.com/julienschmidt/httprouter"
)

const (
	invalidTokenMessage = "El enlace para restablecer la contraseña no es válido o ha caducado."
	forgotSentMessage   = "Si el email está registrado, recibirás un enlace para restablecer la contraseña."
	resetDoneMessage    = "Contraseña actualizada. Ya puedes iniciar sesión."
)

type AuthHandler struct {
	service  *service.AuthService
	renderer *web.Renderer
	sessions *session.Manager
	guard    *guard.Guard
	log      *logger.Logger
}

func NewAuthHandler(s *service.AuthService, renderer *web.Renderer, sessions *session.Manager, g *guard.Guard, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:  s,
		renderer: renderer,
		sessions: sessions,
		guard:    g,
		log:      log,
	}
}

// authForm is echoed back to the credential pages. Passwords never are.
type authForm struct {
	Next   string
	Name   string
	Email  string
	Token  string
	Valid  bool
	Errors validation.ValidationErrors
}

// failure turns a service error into the form status and message.
func failure(err error, form *authForm) (int, string) {
	if verrs, ok := validation.As(err); ok {
		form.Errors = verrs
		return http.StatusUnprocessableEntity, verrs.First()
	}
	appErr := apperrors.FromAPI(err)
	return appErr.StatusCode(), appErr.Message
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if session.FromContext(r.Context()).Authenticated() {
		httputil.SeeOther(w, r, "/")
		return
	}
	form := authForm{Next: httputil.SafeNext(r.URL.Query().Get("next"))}
	h.renderer.Render(w, r, http.StatusOK, "login", web.View{Title: "Entrar", Data: form})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, apperrors.InvalidInput("No se pudo leer el formulario."))
		return
	}
	form := authForm{Next: httputil.SafeNext(r.PostForm.Get("next")), Email: r.PostForm.Get("email")}
	creds := model.Credentials{Email: form.Email, Password: r.PostForm.Get("password")}

	sess, err := h.service.Login(r.Context(), creds)
	if err != nil {
		status, msg := failure(err, &form)
		h.log.Info("Login rejected", "handler", "Login", "operation", "Login", "status", status)
		h.renderer.Render(w, r, status, "login", web.View{Title: "Entrar", Error: msg, Data: form})
		return
	}
	h.start(w, r, sess.Token, form.Next)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if session.FromContext(r.Context()).Authenticated() {
		httputil.SeeOther(w, r, "/")
		return
	}
	form := authForm{Next: httputil.SafeNext(r.URL.Query().Get("next"))}
	h.renderer.Render(w, r, http.StatusOK, "register", web.View{Title: "Crear cuenta", Data: form})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, apperrors.InvalidInput("No se pudo leer el formulario."))
		return
	}
	form := authForm{
		Next:  httputil.SafeNext(r.PostForm.Get("next")),
		Name:  r.PostForm.Get("name"),
		Email: r.PostForm.Get("email"),
	}
	reg := model.Registration{Name: form.Name, Email: form.Email, Password: r.PostForm.Get("password")}

	sess, err := h.service.Register(r.Context(), reg)
	if err != nil {
		status, msg := failure(err, &form)
		h.log.Info("Registration rejected", "handler", "Register", "operation", "Register", "status", status)
		h.renderer.Render(w, r, status, "register", web.View{Title: "Crear cuenta", Error: msg, Data: form})
		return
	}
	h.start(w, r, sess.Token, form.Next)
}

// start persists the new session and leaves the credential page.
func (h *AuthHandler) start(w http.ResponseWriter, r *http.Request, token, next string) {
	if err := h.sessions.Login(w, token); err != nil {
		h.log.Error("failed to seal session", "handler", "Auth", "operation", "Login", "error", err)
		h.renderer.Error(w, r, apperrors.Internal("No se pudo iniciar la sesión.", err))
		return
	}
	httputil.SeeOther(w, r, next)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.sessions.Logout(w)
	httputil.SeeOther(w, r, "/")
}

func (h *AuthHandler) ForgotPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.renderer.Render(w, r, http.StatusOK, "forgot_password", web.View{Title: "Recuperar contraseña", Data: authForm{}})
}

func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, apperrors.InvalidInput("No se pudo leer el formulario."))
		return
	}
	form := authForm{Email: r.PostForm.Get("email")}
	view := web.View{Title: "Recuperar contraseña", Data: &form}

	if err := h.service.ForgotPassword(r.Context(), form.Email); err != nil {
		status, msg := failure(err, &form)
		h.log.Info("Password reset request failed", "handler", "Forgot", "operation", "ForgotPassword", "status", status)
		view.Error = msg
		h.renderer.Render(w, r, status, "forgot_password", view)
		return
	}

	view.Notice = forgotSentMessage
	h.renderer.Render(w, r, http.StatusOK, "forgot_password", view)
}

func (h *AuthHandler) ResetPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	form := authForm{Token: r.URL.Query().Get("token")}
	form.Valid = form.Token != ""
	view := web.View{Title: "Nueva contraseña", Data: form}
	if !form.Valid {
		view.Error = invalidTokenMessage
	}
	h.renderer.Render(w, r, http.StatusOK, "reset_password", view)
}

func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, apperrors.InvalidInput("No se pudo leer el formulario."))
		return
	}
	form := authForm{Token: r.PostForm.Get("token"), Valid: true}
	reset := model.PasswordReset{
		Token:       form.Token,
		NewPassword: r.PostForm.Get("newPassword"),
		Confirm:     r.PostForm.Get("confirm"),
	}

	err := h.service.ResetPassword(r.Context(), reset)
	if err != nil {
		view := web.View{Title: "Nueva contraseña", Data: &form}
		status := http.StatusOK
		if errors.Is(err, autherrors.ErrInvalidResetToken) {
			form.Valid = false
			view.Error = invalidTokenMessage
		} else {
			status, view.Error = failure(err, &form)
		}
		h.renderer.Render(w, r, status, "reset_password", view)
		return
	}

	web.SetFlash(w, "notice", resetDoneMessage)
	httputil.SeeOther(w, r, "/login")
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	profile, err := h.service.Profile(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		httputil.SeeOther(w, r, guard.LoginURL(r))
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "profile", web.View{Title: "Mi perfil", Data: profile})
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)
	router.GET("/register", h.RegisterPage)
	router.POST("/register", h.Register)
	router.POST("/logout", h.Logout)
	router.GET("/forgot-password", h.ForgotPage)
	router.POST("/forgot-password", h.Forgot)
	router.GET("/reset-password", h.ResetPage)
	router.POST("/reset-password", h.Reset)
	router.GET("/perfil", h.guard.Require(h.Profile))
}
