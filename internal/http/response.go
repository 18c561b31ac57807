package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Meta carries pagination counters alongside list payloads.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "error", err)
	}
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	writeJSON(ctx, w, status, envelope{Success: true, Message: message, Data: data})
}

func writeList(ctx context.Context, w http.ResponseWriter, message string, data any, total, page, limit int) {
	writeJSON(ctx, w, http.StatusOK, envelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    &Meta{Total: total, Page: page, Limit: limit},
	})
}

// writeError surfaces the failure message verbatim in the envelope.
func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, envelope{Success: false, Message: message})
}
