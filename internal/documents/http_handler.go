package documents

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/packerp/packerp/internal/auth"
)

// HTTPHandler exposes document upload, download and listing endpoints.
type HTTPHandler struct {
	Service *DocumentService
}

func NewHTTPHandler(service *DocumentService) *HTTPHandler {
	return &HTTPHandler{Service: service}
}

// RegisterRoutes attaches the document HTTP routes to the mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/documents", h.Upload)
	mux.HandleFunc("GET /api/documents", h.List)
	mux.HandleFunc("GET /api/documents/{documentID}/content", h.Download)
	mux.HandleFunc("DELETE /api/documents/{documentID}", h.Delete)
}

func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.requireOrganization(w, r)
	if !ok {
		return
	}

	// Max memory 32MB
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, `{"error": "failed to parse form"}`, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error": "file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	docType := DocumentType(r.FormValue("type"))
	reference := r.FormValue("reference")

	doc, err := h.Service.Upload(r.Context(), organizationID, docType, reference,
		header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		slog.ErrorContext(r.Context(), "document upload failed", "error", err)
		http.Error(w, `{"error": "upload failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.requireOrganization(w, r)
	if !ok {
		return
	}
	docType := DocumentType(r.URL.Query().Get("type"))
	reference := r.URL.Query().Get("reference")

	docs, err := h.Service.List(r.Context(), organizationID, docType, reference)
	if err != nil {
		http.Error(w, `{"error": "failed to list documents"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

func (h *HTTPHandler) Download(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.requireOrganization(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(r.PathValue("documentID"))
	if err != nil {
		http.Error(w, `{"error": "invalid document id"}`, http.StatusBadRequest)
		return
	}

	reader, contentType, err := h.Service.Download(r.Context(), organizationID, id)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			http.Error(w, `{"error": "document not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error": "download failed"}`, http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, reader)
}

func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.requireOrganization(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(r.PathValue("documentID"))
	if err != nil {
		http.Error(w, `{"error": "invalid document id"}`, http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), organizationID, id); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			http.Error(w, `{"error": "document not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error": "delete failed"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) requireOrganization(w http.ResponseWriter, r *http.Request) (string, bool) {
	if authCtx := auth.GetAuthContext(r.Context()); authCtx != nil {
		return authCtx.OrganizationID, true
	}
	if organizationID := r.URL.Query().Get("organizationId"); organizationID != "" {
		return organizationID, true
	}
	http.Error(w, `{"error": "organizationId is required"}`, http.StatusBadRequest)
	return "", false
}
