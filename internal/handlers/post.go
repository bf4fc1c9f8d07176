package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/devlink-social/apiserver/internal/services"
	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// PostHandler provides HTTP handlers for posts, likes, and comments.
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler constructs a handler with the provided service.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostRouter registers post routes on the given router. Every route is
// credential protected.
func PostRouter(r chi.Router, handler *PostHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Use(authMiddleware)

	r.Post("/", handler.CreatePost)
	r.Get("/", handler.ListPosts)
	r.Get("/{postID}", handler.GetPost)
	r.Delete("/{postID}", handler.DeletePost)
	r.Put("/like/{postID}", handler.LikePost)
	r.Put("/unlike/{postID}", handler.UnlikePost)
	r.Post("/comment/{postID}", handler.AddComment)
	r.Delete("/comment/{postID}/{commentID}", handler.RemoveComment)
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []FieldError{{Msg: "invalid request body"}})
		return
	}

	if fieldErrors := validateText(req.Text); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, req.Text)
	if err != nil {
		writeServerError(r.Context(), w, "failed to create post", err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// ListPosts returns all posts, most recent first.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context())
	if err != nil {
		writeServerError(r.Context(), w, "failed to list posts", err)
		return
	}
	if posts == nil {
		posts = []types.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		h.writePostError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		h.writePostError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "post removed")
}

func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Like(r.Context(), postID, userID)
	if err != nil {
		h.writePostError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post.Likes)
}

func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Unlike(r.Context(), postID, userID)
	if err != nil {
		h.writePostError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post.Likes)
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []FieldError{{Msg: "invalid request body"}})
		return
	}

	if fieldErrors := validateText(req.Text); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	post, err := h.postService.AddComment(r.Context(), postID, userID, req.Text)
	if err != nil {
		h.writePostError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post.Comments)
}

func (h *PostHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.RemoveComment(r.Context(), postID, userID, chi.URLParam(r, "commentID"))
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			writeMessage(w, http.StatusNotFound, "comment does not exist")
			return
		}
		h.writePostError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post.Comments)
}

func (h *PostHandler) writePostError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "post not found")
	case errors.Is(err, services.ErrNotOwner):
		writeMessage(w, http.StatusForbidden, "user not authorized")
	case errors.Is(err, services.ErrAlreadyLiked):
		writeMessage(w, http.StatusBadRequest, "post already liked")
	case errors.Is(err, services.ErrNotLiked):
		writeMessage(w, http.StatusBadRequest, "post has not yet been liked")
	default:
		writeServerError(r.Context(), w, "post operation failed", err)
	}
}

func parsePostID(w http.ResponseWriter, r *http.Request) (int, bool) {
	postID, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil || postID < 1 {
		writeMessage(w, http.StatusNotFound, "post not found")
		return 0, false
	}
	return postID, true
}

// PostRequest is the JSON payload for creating posts and comments.
type PostRequest struct {
	Text string `json:"text"`
}
