package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanshika/agegraph/internal/cypher"
	"github.com/vanshika/agegraph/internal/graph"
	"github.com/vanshika/agegraph/internal/graphvalue"
)

// GraphService is the graph lifecycle and query surface used by the handlers.
type GraphService interface {
	CreateGraph(ctx context.Context, name string) error
	DropGraph(ctx context.Context, name string, cascade bool) error
	GraphExists(ctx context.Context, name string) (bool, error)
	Query(ctx context.Context, graphName, query string, params map[string]any) (graph.Result, error)
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger     *slog.Logger
	graphs     GraphService
	columnType string
}

// NewAPIHandlers constructs an APIHandlers instance. columnType is the type
// token reported by the column analysis endpoint.
func NewAPIHandlers(logger *slog.Logger, graphs GraphService, columnType string) *APIHandlers {
	if columnType == "" {
		columnType = cypher.ColumnType
	}
	return &APIHandlers{
		logger:     logger,
		graphs:     graphs,
		columnType: columnType,
	}
}

type graphResponse struct {
	Graph   string `json:"graph"`
	Created bool   `json:"created,omitempty"`
	Dropped bool   `json:"dropped,omitempty"`
	Exists  *bool  `json:"exists,omitempty"`
}

type cypherRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params,omitempty"`
}

type cypherResponse struct {
	Columns []string `json:"columns"`
	Rows    []any    `json:"rows"`
}

type columnsRequest struct {
	Query string `json:"query"`
}

type columnsResponse struct {
	Clause  string   `json:"clause"`
	Columns []string `json:"columns"`
}

func (h *APIHandlers) createGraph(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.graphs.CreateGraph(r.Context(), name); err != nil {
		h.fail(w, r, "failed to create graph", err, "graph", name)
		return
	}
	respondJSON(w, http.StatusCreated, graphResponse{Graph: name, Created: true})
}

func (h *APIHandlers) dropGraph(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	cascade := false
	if v := r.URL.Query().Get("cascade"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "cascade must be a boolean")
			return
		}
		cascade = parsed
	}

	if err := h.graphs.DropGraph(r.Context(), name, cascade); err != nil {
		h.fail(w, r, "failed to drop graph", err, "graph", name, "cascade", cascade)
		return
	}
	respondJSON(w, http.StatusOK, graphResponse{Graph: name, Dropped: true})
}

func (h *APIHandlers) graphExists(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	exists, err := h.graphs.GraphExists(r.Context(), name)
	if err != nil {
		h.fail(w, r, "failed to check graph", err, "graph", name)
		return
	}
	respondJSON(w, http.StatusOK, graphResponse{Graph: name, Exists: &exists})
}

func (h *APIHandlers) runCypher(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req cypherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	res, err := h.graphs.Query(r.Context(), name, req.Query, req.Params)
	if err != nil {
		h.fail(w, r, "failed to run cypher", err, "graph", name)
		return
	}

	rows, err := RenderRows(res)
	if err != nil {
		h.fail(w, r, "failed to decode graph values", err, "graph", name)
		return
	}

	columns := res.Columns
	if columns == nil {
		columns = []string{}
	}
	respondJSON(w, http.StatusOK, cypherResponse{Columns: columns, Rows: rows})
}

func (h *APIHandlers) analyzeColumns(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	names := []string{}
	for _, c := range cypher.ReturnColumns(req.Query) {
		names = append(names, c.Name)
	}
	respondJSON(w, http.StatusOK, columnsResponse{
		Clause:  cypher.ColumnClauseFor(req.Query, h.columnType),
		Columns: names,
	})
}

// fail logs err and writes the status it maps to.
func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	status := statusFor(err)
	args := append([]any{"error", err, "request_id", RequestID(r.Context())}, attrs...)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, args...)
	} else {
		h.logger.Warn(msg, args...)
	}
	writeError(w, status, fmt.Sprintf("%s: %v", msg, err))
}

func statusFor(err error) int {
	var formatErr *graphvalue.FormatError
	switch {
	case errors.Is(err, cypher.ErrInvalidGraphName), errors.Is(err, cypher.ErrDollarQuote):
		return http.StatusBadRequest
	case errors.Is(err, graph.ErrUnsupportedCommand):
		return http.StatusNotImplemented
	case errors.As(err, &formatErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
