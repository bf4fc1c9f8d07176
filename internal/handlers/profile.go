package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/devlink-social/apiserver/internal/github"
	"github.com/devlink-social/apiserver/internal/services"
	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ProfileHandler provides HTTP handlers for profiles.
type ProfileHandler struct {
	profileService *services.ProfileService
	userService    *services.UserService
	githubClient   *github.Client
}

// NewProfileHandler constructs a handler with the provided services.
func NewProfileHandler(profileService *services.ProfileService, userService *services.UserService, githubClient *github.Client) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		userService:    userService,
		githubClient:   githubClient,
	}
}

// ProfileRouter registers profile routes on the given router. Reads of
// other users' profiles are public; everything touching the caller's own
// profile requires a credential.
func ProfileRouter(r chi.Router, handler *ProfileHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/", handler.ListProfiles)
	r.Get("/user/{userID}", handler.ProfileByUser)
	r.Get("/github/{username}", handler.GithubRepos)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/me", handler.MyProfile)
		r.Post("/", handler.UpsertProfile)
		r.Delete("/", handler.DeleteAccount)
		r.Put("/experience", handler.AddExperience)
		r.Delete("/experience/{entryID}", handler.RemoveExperience)
		r.Put("/education", handler.AddEducation)
		r.Delete("/education/{entryID}", handler.RemoveEducation)
	})
}

func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.List(r.Context())
	if err != nil {
		writeServerError(r.Context(), w, "failed to list profiles", err)
		return
	}
	if profiles == nil {
		profiles = []types.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) MyProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	profile, err := h.profileService.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusBadRequest, "there is no profile for this user")
			return
		}
		writeServerError(r.Context(), w, "failed to load profile", err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) ProfileByUser(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || targetID < 1 {
		writeMessage(w, http.StatusBadRequest, "profile not found")
		return
	}

	profile, err := h.profileService.GetByUserID(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusBadRequest, "profile not found")
			return
		}
		writeServerError(r.Context(), w, "failed to load profile", err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpsertProfile creates or updates the caller's profile.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	var req ProfileUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []FieldError{{Msg: "invalid request body"}})
		return
	}

	if fieldErrors := validateProfile(req); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), types.Profile{
		UserID:         userID,
		Company:        strings.TrimSpace(req.Company),
		Website:        strings.TrimSpace(req.Website),
		Location:       strings.TrimSpace(req.Location),
		Status:         strings.TrimSpace(req.Status),
		Bio:            strings.TrimSpace(req.Bio),
		GithubUsername: strings.TrimSpace(req.GithubUsername),
		Skills:         splitSkills(req.Skills),
		Social: types.Social{
			Youtube:   strings.TrimSpace(req.Youtube),
			Twitter:   strings.TrimSpace(req.Twitter),
			Facebook:  strings.TrimSpace(req.Facebook),
			Linkedin:  strings.TrimSpace(req.Linkedin),
			Instagram: strings.TrimSpace(req.Instagram),
		},
	})
	if err != nil {
		writeServerError(r.Context(), w, "failed to upsert profile", err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// DeleteAccount removes the caller's posts, profile, and user record.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), userID); err != nil {
		writeServerError(r.Context(), w, "failed to delete account", err)
		return
	}

	writeMessage(w, http.StatusOK, "user deleted")
}

func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	var req ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []FieldError{{Msg: "invalid request body"}})
		return
	}

	if fieldErrors := validateExperience(req); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	from, _ := parseDate(req.From)
	profile, err := h.profileService.AddExperience(r.Context(), userID, types.Experience{
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Location:    strings.TrimSpace(req.Location),
		From:        from,
		To:          parseOptionalDate(req.To),
		Current:     req.Current,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		h.writeProfileMutationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	profile, err := h.profileService.RemoveExperience(r.Context(), userID, chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeProfileMutationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	var req EducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, []FieldError{{Msg: "invalid request body"}})
		return
	}

	if fieldErrors := validateEducation(req); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	from, _ := parseDate(req.From)
	profile, err := h.profileService.AddEducation(r.Context(), userID, types.Education{
		School:       strings.TrimSpace(req.School),
		Degree:       strings.TrimSpace(req.Degree),
		FieldOfStudy: strings.TrimSpace(req.FieldOfStudy),
		From:         from,
		To:           parseOptionalDate(req.To),
		Current:      req.Current,
		Description:  strings.TrimSpace(req.Description),
	})
	if err != nil {
		h.writeProfileMutationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	profile, err := h.profileService.RemoveEducation(r.Context(), userID, chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeProfileMutationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// GithubRepos proxies the five most recent public repos for a username.
func (h *ProfileHandler) GithubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.githubClient.Repos(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, github.ErrNoProfile) {
			writeMessage(w, http.StatusNotFound, "no github profile found")
			return
		}
		writeServerError(r.Context(), w, "failed to fetch github repos", err)
		return
	}

	writeJSON(w, http.StatusOK, repos)
}

func (h *ProfileHandler) writeProfileMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusBadRequest, "there is no profile for this user")
	case errors.Is(err, services.ErrEntryNotFound):
		writeMessage(w, http.StatusNotFound, "entry not found")
	default:
		writeServerError(r.Context(), w, "failed to update profile", err)
	}
}

// ProfileUpsertRequest is the JSON payload for profile creation/update.
// Skills arrive as a comma-separated string and are split server side.
type ProfileUpsertRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"github_username"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// ExperienceRequest carries dates as strings (YYYY-MM-DD or RFC 3339).
type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationRequest carries dates as strings (YYYY-MM-DD or RFC 3339).
type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}
