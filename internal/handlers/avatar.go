package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/devlink-social/apiserver/internal/services"
	"github.com/devlink-social/apiserver/internal/storage"
	"github.com/go-chi/chi/v5"
)

const (
	maxAvatarMemory   = 8 << 20
	maxAvatarBytes    = 5 << 20
	formFieldAvatar   = "avatar"
	avatarURLTemplate = "/api/users/%d/avatar"
)

// AvatarHandler stores uploaded avatar images in object storage and
// streams them back out. A nil backend disables uploads: the endpoints
// answer 503 so the gravatar fallback keeps working.
type AvatarHandler struct {
	userService *services.UserService
	backend     storage.ObjectStorage
}

// NewAvatarHandler constructs an AvatarHandler. backend may be nil.
func NewAvatarHandler(userService *services.UserService, backend storage.ObjectStorage) *AvatarHandler {
	return &AvatarHandler{userService: userService, backend: backend}
}

// Upload replaces the caller's avatar with an uploaded image.
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.backend == nil {
		writeMessage(w, http.StatusServiceUnavailable, "avatar storage is not configured")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarMemory); err != nil {
		writeFieldErrors(w, []FieldError{{Msg: "invalid multipart form"}})
		return
	}

	data, contentType, err := readAvatarFile(r)
	if err != nil {
		writeFieldErrors(w, []FieldError{{Msg: err.Error(), Param: formFieldAvatar}})
		return
	}

	key := storage.AvatarKey(userID)
	if err := h.backend.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		writeServerError(r.Context(), w, "failed to store avatar", err)
		return
	}

	avatarURL := fmt.Sprintf(avatarURLTemplate, userID)
	if err := h.userService.SetAvatar(r.Context(), userID, avatarURL); err != nil {
		writeServerError(r.Context(), w, "failed to record avatar", err)
		return
	}

	writeJSON(w, http.StatusOK, AvatarResponse{Avatar: avatarURL})
}

// Download streams a stored avatar image.
func (h *AvatarHandler) Download(w http.ResponseWriter, r *http.Request) {
	if h.backend == nil {
		writeMessage(w, http.StatusServiceUnavailable, "avatar storage is not configured")
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID < 1 {
		writeMessage(w, http.StatusNotFound, "avatar not found")
		return
	}

	reader, err := h.backend.Get(r.Context(), storage.AvatarKey(userID))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "avatar not found")
		return
	}
	defer reader.Close()

	// Object-store clients may defer the existence check to the first
	// read, so sniff the head before committing a 200.
	head := make([]byte, 512)
	n, err := reader.Read(head)
	if n == 0 && err != nil {
		writeMessage(w, http.StatusNotFound, "avatar not found")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(head[:n]))
	_, _ = w.Write(head[:n])
	_, _ = io.Copy(w, reader)
}

func readAvatarFile(r *http.Request) (data []byte, contentType string, err error) {
	if r.MultipartForm == nil {
		return nil, "", errors.New("missing form data")
	}

	files := r.MultipartForm.File[formFieldAvatar]
	if len(files) == 0 {
		return nil, "", errors.New("avatar file is required")
	}
	if len(files) > 1 {
		return nil, "", errors.New("only one avatar file is allowed")
	}

	file, err := files[0].Open()
	if err != nil {
		return nil, "", errors.New("failed to read avatar file")
	}
	defer file.Close()

	limited := io.LimitReader(file, maxAvatarBytes+1)
	data, err = io.ReadAll(limited)
	if err != nil {
		return nil, "", errors.New("failed to read avatar file")
	}
	if int64(len(data)) > maxAvatarBytes {
		return nil, "", errors.New("avatar file too large")
	}

	contentType = http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", errors.New("avatar must be an image")
	}
	return data, contentType, nil
}

// AvatarResponse echoes the URL the avatar is now served from.
type AvatarResponse struct {
	Avatar string `json:"avatar"`
}
