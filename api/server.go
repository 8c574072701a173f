// Package api - Thin API layer
// The API is ONLY responsible for: input ingestion, engine orchestration, output serialization.
// The API NEVER performs viscosity math.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"viscolab/internal/config"
	verrors "viscolab/internal/errors"
	"viscolab/internal/logging"
)

// Server is the API server
type Server struct {
	handler *Handler
	mux     *http.ServeMux
	root    http.Handler
	version string
	maxBody int64
	origins []string
	metrics *metrics
}

// NewServer creates a new API server
func NewServer(version string, cfg *config.Config) *Server {
	s := &Server{
		handler: NewHandler(cfg),
		mux:     http.NewServeMux(),
		version: version,
		maxBody: cfg.Server.MaxBodyBytes,
		origins: cfg.Server.AllowedOrigins,
	}

	s.registerRoutes()
	if cfg.Server.EnableMetrics {
		s.metrics = &metrics{}
		s.mux.HandleFunc("GET /metrics", s.handleMetrics)
	}

	// Apply middleware
	handler := withCORS(s.origins, s.mux)
	handler = withRecovery(s, handler)
	s.root = withRequestLogging(s.metrics, handler)
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /viscosity_temperature", endpoint(s, s.handler.Calibrate))
	s.mux.HandleFunc("POST /vi", endpoint(s, s.handler.Index))
	s.mux.HandleFunc("POST /mixture", endpoint(s, s.handler.Blend))
	s.mux.HandleFunc("POST /mix2", endpoint(s, s.handler.TwoComponent))
	s.mux.HandleFunc("POST /solver", endpoint(s, s.handler.Solve))

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// endpoint adapts an engine operation to an HTTP handler: it decodes the
// body, runs op and writes either its report or a typed error.
func endpoint[R any](s *Server, op func(map[string]interface{}) (R, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := s.decodeBody(w, r)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		result, err := op(body)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		s.writeJSON(w, result, http.StatusOK)
	}
}

// decodeBody reads a JSON object. Numbers are kept as json.Number so that
// input decoding sees exactly what the client sent.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, verrors.Newf(verrors.TypeInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, verrors.Parsing("failed to read request body", err)
	}

	body := map[string]interface{}{}
	if len(bytes.TrimSpace(data)) == 0 {
		return body, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, verrors.Parsing("request body is not valid JSON", err)
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, verrors.New(verrors.TypeParsing, "request body must be a JSON object")
	}
	return obj, nil
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, VersionResponse{
		Version:    s.version,
		Engine:     "viscolab",
		APIVersion: "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	payload, err := json.Marshal(data)
	if err != nil {
		logging.Named("api").Error("failed to encode response", zap.Error(err))
		s.writeError(w, "", string(verrors.TypeInternal), "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(payload, '\n'))
}

func (s *Server) writeError(w http.ResponseWriter, requestID, code, message string, status int) {
	body, _ := json.Marshal(ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: requestID,
	}})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// fail maps an engine error onto the response. Internal errors are logged in
// full and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := RequestID(r.Context())
	status := verrors.HTTPStatus(err)
	code := verrors.TypeOf(err)
	if code == "" {
		code = verrors.TypeInternal
	}

	message := err.Error()
	var typed *verrors.Error
	if errors.As(err, &typed) {
		message = typed.Message
		if typed.Cause != nil && code != verrors.TypeInternal {
			message += ": " + causeMessage(typed.Cause)
		}
	}
	if status >= http.StatusInternalServerError {
		logging.Named("api").Error("request failed",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		message = "internal error"
	}

	s.writeError(w, requestID, string(code), message, status)
}

// causeMessage strips the type prefix from nested typed errors
func causeMessage(err error) string {
	var typed *verrors.Error
	if errors.As(err, &typed) {
		if typed.Cause != nil {
			return typed.Message + ": " + causeMessage(typed.Cause)
		}
		return typed.Message
	}
	return err.Error()
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.root.ServeHTTP(w, r)
}
