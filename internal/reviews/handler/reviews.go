package handler

import (
	"errors"
	"net/http"
	"net/url"

	"escapedia/internal/guard"
	reviewerrors "escapedia/internal/reviews/errors"
	"escapedia/internal/reviews/service"
	"escapedia/internal/session"
	"escapedia/internal/web"
	apperrors "escapedia/pkg/errors"
	httputil "escapedia/pkg/http"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/validation"

	"github.com/julienschmidt/httprouter"
)

const missingReferenceMessage = "No encontramos la reserva que quieres valorar."

type ReviewHandler struct {
	service  *service.ReviewService
	renderer *web.Renderer
	sessions *session.Manager
	guard    *guard.Guard
	log      *logger.Logger
}

func NewReviewHandler(s *service.ReviewService, renderer *web.Renderer, sessions *session.Manager, g *guard.Guard, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:  s,
		renderer: renderer,
		sessions: sessions,
		guard:    g,
		log:      log,
	}
}

type reviewForm struct {
	BookingID string
	RoomID    string
	Room      *model.Room
	Rating    int
	Comment   string
	Errors    validation.ValidationErrors
}

func (h *ReviewHandler) New(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	form := reviewForm{BookingID: q.Get("bookingId"), RoomID: q.Get("roomId")}
	if form.BookingID == "" || form.RoomID == "" {
		h.renderer.NotFound(w, r, missingReferenceMessage)
		return
	}
	form.Room = h.service.Room(r.Context(), form.RoomID)
	h.renderer.Render(w, r, http.StatusOK, "review_form", web.View{Title: "Valorar sala", Data: form})
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, apperrors.InvalidInput("No se pudo leer el formulario."))
		return
	}

	form := reviewForm{
		BookingID: r.FormValue("bookingId"),
		RoomID:    r.FormValue("roomId"),
		Rating:    httputil.FormInt(r, "rating", 0),
		Comment:   r.PostForm.Get("comment"),
	}
	in := model.ReviewInput{BookingID: form.BookingID, RoomID: form.RoomID, Rating: form.Rating, Comment: form.Comment}

	review, err := h.service.Create(r.Context(), session.FromContext(r.Context()), in)
	if err != nil {
		if errors.Is(err, reviewerrors.ErrMissingReference) {
			h.renderer.NotFound(w, r, missingReferenceMessage)
			return
		}
		view := web.View{Title: "Valorar sala", Data: &form}
		status := http.StatusUnprocessableEntity
		if verrs, ok := validation.As(err); ok {
			form.Errors = verrs
			view.Error = verrs.First()
		} else {
			h.log.Error("Failed to create review", "handler", "Create", "booking_id", form.BookingID, "error", err)
			if h.sessions.DiscardOnUnauthorized(w, err) {
				httputil.SeeOther(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()))
				return
			}
			appErr := apperrors.FromAPI(err)
			status, view.Error = appErr.StatusCode(), appErr.Message
		}
		form.Room = h.service.Room(r.Context(), form.RoomID)
		h.renderer.Render(w, r, status, "review_form", view)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "review_done", web.View{Title: "Reseña publicada", Data: review})
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/reviews/nueva", h.guard.Require(h.New))
	router.POST("/reviews/nueva", h.guard.Require(h.Create))
}
