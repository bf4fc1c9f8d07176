package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type contextKey string

const contextUserIDKey contextKey = "userID"

func withUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, contextUserIDKey, userID)
}

func userIDFromContext(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(contextUserIDKey).(int)
	if !ok || userID < 1 {
		return 0, errors.New("missing user id")
	}
	return userID, nil
}

// MessageResponse is the single-message payload used for auth,
// entitlement, and not-found failures.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// FieldError is one entry in a validation error list.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// FieldErrorsResponse is the structured validation payload.
type FieldErrorsResponse struct {
	Errors []FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageResponse{Msg: msg})
}

func writeFieldErrors(w http.ResponseWriter, fieldErrors []FieldError) {
	writeJSON(w, http.StatusBadRequest, FieldErrorsResponse{Errors: fieldErrors})
}

// writeServerError logs the underlying failure and answers with a
// generic message so internals never leak to clients.
func writeServerError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	slog.ErrorContext(ctx, msg, "error", err)
	writeMessage(w, http.StatusInternalServerError, "server error")
}
