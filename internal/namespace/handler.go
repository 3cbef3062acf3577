// Package namespace serves the namespace logo routes of the storage gateway.
package namespace

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ovsx/storage/internal/response"
	"github.com/ovsx/storage/internal/storage"
)

// MaxLogoSize caps the body of a logo upload.
const MaxLogoSize = 4 << 20

// Handler holds HTTP handlers for namespace logos.
type Handler struct {
	svc storage.Service
}

// NewHandler creates a new namespace Handler.
func NewHandler(svc storage.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the logo routes on r. Mutating routes go through auth.
func (h *Handler) Routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/{namespace}/logo/{logoName}", h.Location)
	r.Get("/{namespace}/logo/{logoName}/content", h.Content)
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Put("/{namespace}/logo/{logoName}", h.Upload)
		r.Delete("/{namespace}/logo/{logoName}", h.Remove)
	})
}

type locationData struct {
	Location string `json:"location" example:"https://openvsx-1250000000.cos.ap-guangzhou.myqcloud.com/redhat/logo/logo.png"`
}

func namespaceFromRequest(r *http.Request) *storage.Namespace {
	return &storage.Namespace{
		Name:     chi.URLParam(r, "namespace"),
		LogoName: chi.URLParam(r, "logoName"),
	}
}

// Location godoc
//
//	@Summary	Redirect to a namespace logo
//	@Tags		namespaces
//	@Param		namespace	path	string	true	"Namespace"
//	@Param		logoName	path	string	true	"Logo file name"
//	@Success	302
//	@Failure	400	{object}	response.Envelope
//	@Failure	503	{object}	response.Envelope
//	@Router		/namespaces/{namespace}/logo/{logoName} [get]
func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	loc, err := h.svc.NamespaceLogoLocation(namespaceFromRequest(r))
	if err != nil {
		response.StorageError(w, r, err)
		return
	}
	http.Redirect(w, r, loc.String(), http.StatusFound)
}

// Content godoc
//
//	@Summary		Download a namespace logo
//	@Description	Fetches the logo from the bucket and streams it back.
//	@Tags			namespaces
//	@Produce		image/png,image/jpeg,image/svg+xml
//	@Param			namespace	path	string	true	"Namespace"
//	@Param			logoName	path	string	true	"Logo file name"
//	@Success		200
//	@Failure		400	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/namespaces/{namespace}/logo/{logoName}/content [get]
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	ns := namespaceFromRequest(r)
	tmp, err := h.svc.DownloadNamespaceLogo(r.Context(), ns)
	if err != nil {
		response.StorageError(w, r, err)
		return
	}
	defer tmp.Close()

	f, err := os.Open(tmp.Path())
	if err != nil {
		response.InternalError(w)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", storage.ContentType(ns.LogoName))
	http.ServeContent(w, r, ns.LogoName, time.Time{}, f)
}

// Upload godoc
//
//	@Summary	Upload a namespace logo
//	@Tags		namespaces
//	@Accept		image/png,image/jpeg,image/svg+xml
//	@Produce	json
//	@Security	BearerAuth
//	@Param		namespace	path		string	true	"Namespace"
//	@Param		logoName	path		string	true	"Logo file name"
//	@Success	201			{object}	response.Envelope{data=locationData}
//	@Failure	400			{object}	response.Envelope
//	@Failure	401			{object}	response.Envelope
//	@Failure	413			{object}	response.Envelope
//	@Failure	502			{object}	response.Envelope
//	@Failure	503			{object}	response.Envelope
//	@Router		/namespaces/{namespace}/logo/{logoName} [put]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ns := namespaceFromRequest(r)
	loc, err := h.svc.NamespaceLogoLocation(ns)
	if err != nil {
		response.StorageError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxLogoSize))
	if err != nil {
		response.Error(w, http.StatusRequestEntityTooLarge, "logo too large")
		return
	}
	ns.LogoBytes = body
	if err := h.svc.UploadNamespaceLogo(r.Context(), ns); err != nil {
		response.StorageError(w, r, err)
		return
	}
	response.Created(w, locationData{Location: loc.String()})
}

// Remove godoc
//
//	@Summary	Remove a namespace logo
//	@Tags		namespaces
//	@Security	BearerAuth
//	@Param		namespace	path	string	true	"Namespace"
//	@Param		logoName	path	string	true	"Logo file name"
//	@Success	204
//	@Failure	400	{object}	response.Envelope
//	@Failure	401	{object}	response.Envelope
//	@Failure	502	{object}	response.Envelope
//	@Failure	503	{object}	response.Envelope
//	@Router		/namespaces/{namespace}/logo/{logoName} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveNamespaceLogo(r.Context(), namespaceFromRequest(r)); err != nil {
		response.StorageError(w, r, err)
		return
	}
	response.NoContent(w)
}
