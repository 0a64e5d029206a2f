package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/streamweld/streamweld/internal/reconcile"
	"github.com/streamweld/streamweld/pkg/adapter"
)

// SinkHandlers provisions schemas on sink databases.
type SinkHandlers struct {
	engine *Engine
}

func NewSinkHandlers(engine *Engine) *SinkHandlers {
	return &SinkHandlers{engine: engine}
}

// connect resolves the engine adapter from the URL path and opens a verified
// connection for the request.
func (h *SinkHandlers) connect(w http.ResponseWriter, r *http.Request, connReq SinkConnectionRequest) (adapter.Connection, bool) {
	engineName := mux.Vars(r)["engine"]
	dbAdapter, err := h.engine.Registry().GetByName(engineName)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "unknown engine", fmt.Sprintf("unsupported sink engine %q", engineName))
		return nil, false
	}

	if connReq.URL == "" {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "url is required")
		return nil, false
	}

	cfg := adapter.ConnectionConfig{
		URL:              connReq.URL,
		Username:         connReq.Username,
		Password:         connReq.Password,
		DialTimeout:      h.engine.config.DialTimeout,
		StatementTimeout: h.engine.config.StatementTimeout,
	}

	conn, err := dbAdapter.Connect(r.Context(), cfg)
	if err != nil {
		h.engine.trackError()
		writeErrorResponse(w, sinkErrorStatus(err), "connect failed", err.Error())
		return nil, false
	}
	return conn, true
}

// CreateDatabase ensures the named database exists.
func (h *SinkHandlers) CreateDatabase(w http.ResponseWriter, r *http.Request) {
	h.engine.TrackOperation()
	defer h.engine.UntrackOperation()

	var req CreateDatabaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "invalid JSON body")
		return
	}
	if req.DatabaseName == "" {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "dbName is required")
		return
	}

	conn, ok := h.connect(w, r, req.SinkConnectionRequest)
	if !ok {
		return
	}
	defer conn.Close()

	created, err := reconcile.New(conn, h.engine.logger).EnsureDatabase(r.Context(), req.DatabaseName)
	if err != nil {
		h.engine.trackError()
		writeErrorResponse(w, sinkErrorStatus(err), "create database failed", err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, SinkResponse{
		Success: true,
		Created: created,
		Message: fmt.Sprintf("database %s ready", req.DatabaseName),
	})
}

// CreateTable ensures the described table exists, creating the database first
// when needed and reconciling columns when the table is already there.
func (h *SinkHandlers) CreateTable(w http.ResponseWriter, r *http.Request) {
	h.engine.TrackOperation()
	defer h.engine.UntrackOperation()

	var req CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "invalid JSON body")
		return
	}
	if req.Table.DatabaseName == "" || req.Table.TableName == "" {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "table.databaseName and table.tableName are required")
		return
	}

	conn, ok := h.connect(w, r, req.SinkConnectionRequest)
	if !ok {
		return
	}
	defer conn.Close()

	created, err := reconcile.New(conn, h.engine.logger).EnsureTable(r.Context(), &req.Table)
	if err != nil {
		h.engine.trackError()
		writeErrorResponse(w, sinkErrorStatus(err), "create table failed", err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, SinkResponse{
		Success: true,
		Created: created,
		Message: fmt.Sprintf("table %s.%s ready", req.Table.DatabaseName, req.Table.TableName),
	})
}

// AddColumns appends the missing subset of the given columns to the table.
func (h *SinkHandlers) AddColumns(w http.ResponseWriter, r *http.Request) {
	h.engine.TrackOperation()
	defer h.engine.UntrackOperation()

	var req AddColumnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "invalid JSON body")
		return
	}
	if req.DatabaseName == "" || req.TableName == "" || len(req.Columns) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "dbName, tableName and columns are required")
		return
	}

	conn, ok := h.connect(w, r, req.SinkConnectionRequest)
	if !ok {
		return
	}
	defer conn.Close()

	err := reconcile.New(conn, h.engine.logger).EnsureColumns(r.Context(), req.DatabaseName, req.TableName, req.Columns)
	if err != nil {
		h.engine.trackError()
		writeErrorResponse(w, sinkErrorStatus(err), "add columns failed", err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, SinkResponse{
		Success: true,
		Message: fmt.Sprintf("columns on %s.%s ready", req.DatabaseName, req.TableName),
	})
}

// GetColumns returns the table's current columns.
func (h *SinkHandlers) GetColumns(w http.ResponseWriter, r *http.Request) {
	h.engine.TrackOperation()
	defer h.engine.UntrackOperation()

	var req ListColumnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "invalid JSON body")
		return
	}
	if req.DatabaseName == "" || req.TableName == "" {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "dbName and tableName are required")
		return
	}

	conn, ok := h.connect(w, r, req.SinkConnectionRequest)
	if !ok {
		return
	}
	defer conn.Close()

	columns, err := conn.SchemaOperations().GetColumns(r.Context(), req.DatabaseName, req.TableName)
	if err != nil {
		h.engine.trackError()
		writeErrorResponse(w, sinkErrorStatus(err), "list columns failed", err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, SinkResponse{Success: true, Columns: columns})
}

// sinkErrorStatus maps adapter error classes to HTTP statuses.
func sinkErrorStatus(err error) int {
	switch {
	case adapter.IsConfigurationError(err) || errors.Is(err, adapter.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case adapter.IsConnectionError(err) || adapter.IsAuthenticationError(err):
		return http.StatusBadGateway
	case errors.Is(err, adapter.ErrTableNotFound) || errors.Is(err, adapter.ErrDatabaseNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
