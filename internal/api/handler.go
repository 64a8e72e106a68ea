// Package api exposes the catalog resolver as a read-only HTTP browse
// surface. It adds no catalog semantics of its own: every route is a thin
// projection over the resolver operations.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kvcatalog/internal/catalog"
	"kvcatalog/internal/domain"
)

// Handler serves the catalog browse API.
type Handler struct {
	resolver *catalog.Resolver
	logger   *slog.Logger
}

// NewHandler creates a Handler over the given resolver.
func NewHandler(resolver *catalog.Resolver, logger *slog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		logger:   logger.With("component", "api"),
	}
}

// Routes mounts the browse endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/schemas", h.listSchemas)
		r.Get("/tables", h.listAllTables)
		r.Get("/schemas/{schema}/tables", h.listTables)
		r.Get("/schemas/{schema}/tables/{table}", h.getTable)
		r.Get("/schemas/{schema}/tables/{table}/columns", h.listColumns)
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listSchemas(w http.ResponseWriter, r *http.Request) {
	schemas, err := h.resolver.ListSchemaNames(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemas": schemas})
}

func (h *Handler) listAllTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.resolver.ListTables(r.Context(), "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.resolver.ListTables(r.Context(), chi.URLParam(r, "schema"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	name := domain.SchemaTableName{
		Schema: chi.URLParam(r, "schema"),
		Table:  chi.URLParam(r, "table"),
	}

	handle, err := h.resolver.GetTableHandle(r.Context(), name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if handle == nil {
		h.writeError(w, domain.ErrTableNotFound(name))
		return
	}

	metadata, err := h.resolver.GetTableMetadata(r.Context(), handle)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"handle":  handle,
		"columns": metadata.Columns,
	})
}

func (h *Handler) listColumns(w http.ResponseWriter, r *http.Request) {
	name := domain.SchemaTableName{
		Schema: chi.URLParam(r, "schema"),
		Table:  chi.URLParam(r, "table"),
	}

	handle, err := h.resolver.GetTableHandle(r.Context(), name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if handle == nil {
		h.writeError(w, domain.ErrTableNotFound(name))
		return
	}

	metadata, err := h.resolver.GetTableMetadata(r.Context(), handle)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"columns": metadata.Columns})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var notFound *domain.TableNotFoundError
	if errors.As(err, &notFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "message": err.Error()})
		return
	}
	h.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"code": 500, "message": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
