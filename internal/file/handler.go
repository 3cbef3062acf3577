// Package file serves the extension file routes of the storage gateway.
package file

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/ovsx/storage/internal/logger"
	"github.com/ovsx/storage/internal/middleware"
	"github.com/ovsx/storage/internal/response"
	"github.com/ovsx/storage/internal/storage"
)

// Handler holds HTTP handlers for extension files.
type Handler struct {
	svc storage.Service
	// spoolThreshold is the body size from which uploads go through a temp file.
	spoolThreshold int64
}

// NewHandler creates a new file Handler. Bodies of at least spoolThreshold
// bytes, or of unknown length, are spooled to disk before uploading.
func NewHandler(svc storage.Service, spoolThreshold int64) *Handler {
	return &Handler{svc: svc, spoolThreshold: spoolThreshold}
}

// Routes mounts the file routes on r. Mutating routes go through auth.
func (h *Handler) Routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/{namespace}/{extension}/{version}/*", h.Location)
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/copy", h.Copy)
		r.Put("/{namespace}/{extension}/{version}/*", h.Upload)
		r.Delete("/{namespace}/{extension}/{version}/*", h.Remove)
	})
}

type fileRef struct {
	Namespace      string `json:"namespace"      example:"redhat"`
	Extension      string `json:"extension"      example:"java"`
	TargetPlatform string `json:"targetPlatform" example:"linux-x64"`
	Version        string `json:"version"        example:"1.30.0"`
	Name           string `json:"name"           example:"extension.vsix"`
}

func (f fileRef) resource() *storage.FileResource {
	return &storage.FileResource{
		Name: f.Name,
		Version: storage.ExtensionVersion{
			Namespace:      f.Namespace,
			Extension:      f.Extension,
			TargetPlatform: f.TargetPlatform,
			Version:        f.Version,
		},
	}
}

type copyRequest struct {
	Pairs []struct {
		Source fileRef `json:"source"`
		Target fileRef `json:"target"`
	} `json:"pairs"`
}

type copyData struct {
	Copied int `json:"copied" example:"2"`
}

type locationData struct {
	Location string `json:"location" example:"https://openvsx-1250000000.cos.ap-guangzhou.myqcloud.com/redhat/java/1.30.0/extension.vsix"`
}

// urlParam returns the decoded route parameter. chi matches on the raw path
// when the request carries escaped slashes, leaving parameters escaped.
func urlParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func resourceFromRequest(r *http.Request) *storage.FileResource {
	return fileRef{
		Namespace:      urlParam(r, "namespace"),
		Extension:      urlParam(r, "extension"),
		TargetPlatform: r.URL.Query().Get("targetPlatform"),
		Version:        urlParam(r, "version"),
		Name:           urlParam(r, "*"),
	}.resource()
}

// Location godoc
//
//	@Summary		Redirect to a file
//	@Description	Redirects to the public URL of an extension file.
//	@Tags			files
//	@Param			namespace		path	string	true	"Namespace"
//	@Param			extension		path	string	true	"Extension"
//	@Param			version			path	string	true	"Version"
//	@Param			name			path	string	true	"File name, may contain '/'"
//	@Param			targetPlatform	query	string	false	"Target platform, omitted for universal"
//	@Success		302
//	@Failure		400	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/files/{namespace}/{extension}/{version}/{name} [get]
func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	loc, err := h.svc.Location(resourceFromRequest(r))
	if err != nil {
		response.StorageError(w, r, err)
		return
	}
	http.Redirect(w, r, loc.String(), http.StatusFound)
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stores the request body as an extension file. Packages (.vsix) are served as attachments.
//	@Tags			files
//	@Accept			application/octet-stream
//	@Produce		json
//	@Security		BearerAuth
//	@Param			namespace		path	string	true	"Namespace"
//	@Param			extension		path	string	true	"Extension"
//	@Param			version			path	string	true	"Version"
//	@Param			name			path	string	true	"File name, may contain '/'"
//	@Param			targetPlatform	query	string	false	"Target platform, omitted for universal"
//	@Success		201	{object}	response.Envelope{data=locationData}
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/files/{namespace}/{extension}/{version}/{name} [put]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.svc.IsEnabled() {
		response.StorageError(w, r, storage.ErrDisabled)
		return
	}
	res := resourceFromRequest(r)
	loc, err := h.svc.Location(res)
	if err != nil {
		response.StorageError(w, r, err)
		return
	}

	if r.ContentLength >= 0 && r.ContentLength < h.spoolThreshold {
		content, err := io.ReadAll(r.Body)
		if err != nil {
			response.BadRequest(w, "could not read request body")
			return
		}
		res.Content = content
		if err := h.svc.UploadFile(r.Context(), res); err != nil {
			response.StorageError(w, r, err)
			return
		}
	} else {
		tmp, err := spool(r.Body, path.Ext(res.Name))
		if err != nil {
			logger.FromContext(r.Context()).Error("spool upload", slog.Any("error", err))
			response.InternalError(w)
			return
		}
		defer tmp.Close()
		if err := h.svc.UploadFileFrom(r.Context(), res, tmp); err != nil {
			response.StorageError(w, r, err)
			return
		}
	}

	logger.FromContext(r.Context()).Info("file stored",
		slog.String("subject", middleware.Subject(r.Context())), slog.String("location", loc.String()))
	response.Created(w, locationData{Location: loc.String()})
}

// spool copies body into a new temp file.
func spool(body io.Reader, suffix string) (*storage.TempFile, error) {
	tmp, err := storage.NewTempFile("upload", suffix)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(tmp.Path(), os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		_ = tmp.Close()
		return nil, err
	}
	_, err = io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = tmp.Close()
		return nil, err
	}
	return tmp, nil
}

// Remove godoc
//
//	@Summary		Remove a file
//	@Tags			files
//	@Security		BearerAuth
//	@Param			namespace		path	string	true	"Namespace"
//	@Param			extension		path	string	true	"Extension"
//	@Param			version			path	string	true	"Version"
//	@Param			name			path	string	true	"File name, may contain '/'"
//	@Param			targetPlatform	query	string	false	"Target platform, omitted for universal"
//	@Success		204
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/files/{namespace}/{extension}/{version}/{name} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveFile(r.Context(), resourceFromRequest(r)); err != nil {
		response.StorageError(w, r, err)
		return
	}
	response.NoContent(w)
}

// Copy godoc
//
//	@Summary		Copy files
//	@Description	Copies files between extension versions inside the bucket.
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		copyRequest	true	"Source and target pairs"
//	@Success		200		{object}	response.Envelope{data=copyData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/files/copy [post]
func (h *Handler) Copy(w http.ResponseWriter, r *http.Request) {
	var req copyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if len(req.Pairs) == 0 {
		response.BadRequest(w, "pairs must not be empty")
		return
	}

	pairs := make([]storage.CopyPair, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		pairs = append(pairs, storage.CopyPair{Source: p.Source.resource(), Target: p.Target.resource()})
	}
	if err := h.svc.CopyFiles(r.Context(), pairs); err != nil {
		response.StorageError(w, r, err)
		return
	}
	response.OK(w, copyData{Copied: len(pairs)})
}
