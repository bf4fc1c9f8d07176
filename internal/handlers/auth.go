package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/devlink-social/apiserver/internal/services"
	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/internal/token"
	"github.com/go-chi/chi/v5"
)

// AuthHeader is the request header carrying the signed credential.
const AuthHeader = "x-auth-token"

// AuthHandler provides registration, login, and the current-user endpoint.
type AuthHandler struct {
	userService *services.UserService
	codec       *token.Codec
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, codec *token.Codec) *AuthHandler {
	return &AuthHandler{userService: userService, codec: codec}
}

// UsersRouter registers registration and avatar routes on the given router.
func UsersRouter(r chi.Router, handler *AuthHandler, avatars *AvatarHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/", handler.Register)
	r.With(authMiddleware).Post("/me/avatar", avatars.Upload)
	r.Get("/{userID}/avatar", avatars.Download)
}

// AuthRouter registers login and current-user routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/", handler.Login)
	r.With(authMiddleware).Get("/", handler.Me)
}

// RequireAuth builds the middleware gating protected routes. The
// credential is read from the x-auth-token header, verified, and the
// resolved user id is injected into the request context. Failure paths
// never touch storage.
func RequireAuth(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := strings.TrimSpace(r.Header.Get(AuthHeader))
			if tokenString == "" {
				writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
				return
			}

			userID, err := codec.Verify(tokenString)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "token is not valid")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
		})
	}
}

// Register creates an account and returns a signed token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []FieldError{{Msg: "invalid request body"}})
		return
	}

	if fieldErrors := validateRegister(req); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	user, err := h.userService.Register(r.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeFieldErrors(w, []FieldError{{Msg: "User already exists"}})
			return
		}
		writeServerError(r.Context(), w, "failed to register user", err)
		return
	}

	signed, err := h.codec.Issue(user.ID)
	if err != nil {
		writeServerError(r.Context(), w, "failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: signed})
}

// Login verifies credentials and returns a signed token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []FieldError{{Msg: "invalid request body"}})
		return
	}

	if fieldErrors := validateLogin(req); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeFieldErrors(w, []FieldError{{Msg: "Invalid credentials"}})
			return
		}
		writeServerError(r.Context(), w, "failed to authenticate user", err)
		return
	}

	signed, err := h.codec.Issue(user.ID)
	if err != nil {
		writeServerError(r.Context(), w, "failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: signed})
}

// Me returns the authenticated user without the password hash.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "token is not valid")
			return
		}
		writeServerError(r.Context(), w, "failed to load user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
