package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"courierdesk/internal/logger"
	"courierdesk/internal/service"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON encodes v before writing the header so an encode failure can
// still be answered with 500.
func writeJSON(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.FromContext(r.Context(), log).Error("encode response failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"internal error","code":"Internal"}`+"\n")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.FromContext(r.Context(), log).Debug("write response failed", zap.Error(err))
	}
}

// writeError maps service errors onto status codes. Unknown errors are logged
// and answered with 500.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, r, log, http.StatusBadRequest, errorResponse{Error: verr.Error(), Code: "ValidationError"})
	case errors.Is(err, errBadRequest):
		writeJSON(w, r, log, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "BadRequest"})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, r, log, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "NotFound"})
	case errors.Is(err, service.ErrInvalidTransition):
		writeJSON(w, r, log, http.StatusConflict, errorResponse{Error: err.Error(), Code: "InvalidTransition"})
	case errors.Is(err, service.ErrInvalidState):
		writeJSON(w, r, log, http.StatusConflict, errorResponse{Error: err.Error(), Code: "InvalidState"})
	default:
		logger.FromContext(r.Context(), log).Error("request failed", zap.Error(err))
		writeJSON(w, r, log, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "Internal"})
	}
}

// decodeJSON reads one JSON object into dst. With strict set, fields dst does
// not declare are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body: %w", errBadRequest)
		}
		return fmt.Errorf("invalid json: %v: %w", err, errBadRequest)
	}
	if dec.More() {
		return fmt.Errorf("invalid json: trailing data: %w", errBadRequest)
	}
	return nil
}
