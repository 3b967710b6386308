package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/internal/logging"
	"github.com/goliatone/go-discussion-pager/internal/store"
)

const contentType = "application/vnd.api+json"

// listDiscussions handles GET /api/discussions.
// Query parameters: filter[q], filter[sticky], sort, page[offset],
// page[limit] and include.
func (s *Server) listDiscussions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := forum.ParseRequestParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records, total, err := s.lister.List(ctx, store.FromRequest(req)...)
	if err != nil {
		logging.FromContext(ctx).Error("list discussions failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, listDocument(ctx, r.URL, req, records, total))
}

// getDiscussion handles GET /api/discussions/{id}.
func (s *Server) getDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	record, err := s.lister.GetByID(ctx, id)
	switch {
	case errors.Is(err, forum.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		logging.FromContext(ctx).Error("get discussion failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, singleDocument{
		Data:    forum.NewResource(record.Forum()),
		JSONAPI: forum.Meta{Version: jsonapiVersion},
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "status", code, "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorDocument{Errors: []errorObject{{
		Status: strconv.Itoa(code),
		Detail: err.Error(),
	}}})
}
