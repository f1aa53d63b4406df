package handler

import (
	"errors"
	"net/http"
	"strings"

	"escapedia/internal/guard"
	localerrors "escapedia/internal/locales/errors"
	"escapedia/internal/locales/service"
	"escapedia/internal/locales/validator"
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
	maxFormMemory = 8 << 20
	ownerBase     = "/owner/locales"
	adminBase     = "/admin/locales"
)

type LocalHandler struct {
	service  *service.LocalService
	renderer *web.Renderer
	sessions *session.Manager
	guard    *guard.Guard
	log      *logger.Logger
}

func NewLocalHandler(s *service.LocalService, renderer *web.Renderer, sessions *session.Manager, g *guard.Guard, log *logger.Logger) *LocalHandler {
	return &LocalHandler{
		service:  s,
		renderer: renderer,
		sessions: sessions,
		guard:    g,
		log:      log,
	}
}

func (h *LocalHandler) Directory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view := web.View{Title: "Locales"}
	dir, err := h.service.Directory(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		h.log.Error("failed to list locales", "handler", "Directory", "operation", "Directory", "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		view.Error = apperrors.UserMessage(err)
		dir = &service.Directory{Cities: []string{}, Locales: []model.Local{}}
	}
	view.Data = dir
	h.renderer.Render(w, r, http.StatusOK, "locales", view)
}

func (h *LocalHandler) Public(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	local, err := h.service.Public(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, localerrors.ErrNotFound) {
			h.renderer.NotFound(w, r, "Este local no existe.")
			return
		}
		h.log.Error("failed to load local", "handler", "Public", "operation", "Public", "local_id", ps.ByName("id"), "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		h.renderer.Error(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "local", web.View{Title: local.Local.Name, Data: local})
}

type manageData struct {
	*service.Management
	Base      string
	EditID    string
	ShowNew   bool
	NewInput  model.LocalInput
	EditInput model.LocalInput
	Errors    validation.ValidationErrors
}

func (h *LocalHandler) manage(base string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data := manageData{Base: base, EditID: r.URL.Query().Get("editar"), ShowNew: r.URL.Query().Get("nuevo") != ""}
		h.renderManage(w, r, http.StatusOK, data, "")
	}
}

func (h *LocalHandler) renderManage(w http.ResponseWriter, r *http.Request, status int, data manageData, errMsg string) {
	view := web.View{Title: "Mis locales", Error: errMsg}
	if data.Base == adminBase {
		view.Title = "Gestión de locales"
	}

	m, err := h.service.Manage(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		h.log.Error("failed to load locales", "handler", "Manage", "operation", "Manage", "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		if view.Error == "" {
			view.Error = apperrors.UserMessage(err)
		}
		m = &service.Management{Locales: []model.Local{}, Owners: []model.User{}}
	}
	view.Warning = m.OwnersWarning
	data.Management = m

	if data.EditID != "" && data.EditInput == (model.LocalInput{}) {
		for i := range m.Locales {
			if m.Locales[i].ID == data.EditID {
				data.EditInput = validator.InputFromLocal(&m.Locales[i])
			}
		}
	}

	view.Data = data
	h.renderer.Render(w, r, status, "manage_locales", view)
}

func (h *LocalHandler) save(base string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")
		in, cover, err := parseLocalForm(r)
		data := manageData{Base: base, EditID: id, ShowNew: id == ""}
		if id == "" {
			data.NewInput = in
		} else {
			data.EditInput = in
		}
		if err != nil {
			h.renderManage(w, r, http.StatusBadRequest, data, "No se pudo leer el formulario.")
			return
		}
		if cover != nil {
			defer cover.close()
		}

		var upload *service.Upload
		if cover != nil {
			upload = &cover.Upload
		}

		_, warning, err := h.service.Save(r.Context(), session.FromContext(r.Context()), id, in, upload)
		if err != nil {
			if verrs, ok := validation.As(err); ok {
				data.Errors = verrs
				h.renderManage(w, r, http.StatusUnprocessableEntity, data, verrs.First())
				return
			}
			h.log.Error("failed to save local", "handler", "Save", "operation", "Save", "local_id", id, "error", err)
			if h.sessions.DiscardOnUnauthorized(w, err) {
				httputil.SeeOther(w, r, "/login")
				return
			}
			h.renderManage(w, r, http.StatusOK, data, apperrors.UserMessage(err))
			return
		}

		switch {
		case warning != "":
			web.SetFlash(w, "warning", warning)
		case id == "":
			web.SetFlash(w, "notice", "Local creado correctamente.")
		default:
			web.SetFlash(w, "notice", "Local actualizado.")
		}
		httputil.SeeOther(w, r, base)
	}
}

func (h *LocalHandler) remove(base string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")
		if err := h.service.Delete(r.Context(), id); err != nil {
			h.log.Error("failed to delete local", "handler", "Delete", "operation", "Delete", "local_id", id, "error", err)
			h.sessions.DiscardOnUnauthorized(w, err)
			web.SetFlash(w, "warning", "No se pudo eliminar el local: "+apperrors.UserMessage(err))
		} else {
			web.SetFlash(w, "notice", "Local eliminado.")
		}
		httputil.SeeOther(w, r, base)
	}
}

func (h *LocalHandler) uploadCover(base string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")
		_, cover, err := parseLocalForm(r)
		if err != nil || cover == nil {
			web.SetFlash(w, "warning", "Elige una imagen para la portada.")
			httputil.SeeOther(w, r, base)
			return
		}
		defer cover.close()

		if warning := h.service.UploadCover(r.Context(), &model.Local{ID: id}, &cover.Upload); warning != "" {
			web.SetFlash(w, "warning", "No se pudo subir la portada.")
		} else {
			web.SetFlash(w, "notice", "Portada actualizada.")
		}
		httputil.SeeOther(w, r, base)
	}
}

func (h *LocalHandler) deleteCover(base string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")
		if err := h.service.DeleteCover(r.Context(), id); err != nil {
			h.log.Error("failed to delete cover", "handler", "DeleteCover", "operation", "DeleteCover", "local_id", id, "error", err)
			h.sessions.DiscardOnUnauthorized(w, err)
			web.SetFlash(w, "warning", "No se pudo quitar la portada: "+apperrors.UserMessage(err))
		} else {
			web.SetFlash(w, "notice", "Portada eliminada.")
		}
		httputil.SeeOther(w, r, base)
	}
}

type coverFile struct {
	service.Upload
	close func() error
}

func parseLocalForm(r *http.Request) (model.LocalInput, *coverFile, error) {
	var in model.LocalInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return in, nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return in, nil, err
	}

	in = model.LocalInput{
		Name:    r.FormValue("name"),
		City:    r.FormValue("city"),
		Address: r.FormValue("address"),
		Phone:   r.FormValue("phone"),
		Email:   r.FormValue("email"),
		OwnerID: r.FormValue("ownerId"),
	}

	if r.MultipartForm == nil {
		return in, nil, nil
	}
	file, header, err := r.FormFile("cover")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, nil
		}
		return in, nil, err
	}
	if header.Size == 0 || header.Filename == "" {
		_ = file.Close()
		return in, nil, nil
	}
	return in, &coverFile{Upload: service.Upload{Filename: header.Filename, Content: file}, close: file.Close}, nil
}

func (h *LocalHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/locales", h.Directory)
	router.GET("/locales/:id", h.Public)

	h.registerManagement(router, ownerBase, guard.RolesFor(guard.ManageRooms))
	h.registerManagement(router, adminBase, guard.RolesFor(guard.ManageAllLocales))
}

func (h *LocalHandler) registerManagement(router *httprouter.Router, base string, roles []model.Role) {
	router.GET(base, h.guard.Require(h.manage(base), roles...))
	router.POST(base, h.guard.Require(h.save(base), roles...))
	router.POST(base+"/:id", h.guard.Require(h.save(base), roles...))
	router.POST(base+"/:id/eliminar", h.guard.Require(h.remove(base), roles...))
	router.POST(base+"/:id/portada", h.guard.Require(h.uploadCover(base), roles...))
	router.POST(base+"/:id/portada/eliminar", h.guard.Require(h.deleteCover(base), roles...))
}
