package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/delivery/http/middleware"
	"communityhub/internal/domain"
)

// UpdateUserRequest is the request body for PATCH /users/me. All fields are optional.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Country   *string `json:"country"`
}

// Validate implements Validator.
func (u UpdateUserRequest) Validate() []string {
	var errs []string
	if u.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*u.Email))
		if email == "" {
			errs = append(errs, "email cannot be empty")
		} else if !emailRegexp.MatchString(email) {
			errs = append(errs, "invalid email format")
		}
	}
	if u.Username != nil && strings.TrimSpace(*u.Username) == "" {
		errs = append(errs, "username cannot be empty")
	}
	return errs
}

func (u UpdateUserRequest) toUpdate() domain.UserUpdate {
	upd := domain.UserUpdate{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Country:   u.Country,
	}
	if u.Username != nil {
		v := strings.TrimSpace(*u.Username)
		upd.Username = &v
	}
	if u.Email != nil {
		v := strings.TrimSpace(strings.ToLower(*u.Email))
		upd.Email = &v
	}
	return upd
}

// SetProfilePhotoRequest is the request body for PATCH /users/me/photo.
type SetProfilePhotoRequest struct {
	PhotoURL string `json:"photo_url"`
}

// Validate implements Validator.
func (s SetProfilePhotoRequest) Validate() []string {
	if strings.TrimSpace(s.PhotoURL) == "" {
		return []string{"photo_url is required"}
	}
	return nil
}

// UserController handles user profile endpoints.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List users
// @Description Returns all user profiles. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the users"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile. For sponsor-role users the sponsor profile is embedded. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// GetUser godoc
// @Summary Get a user by id
// @Description Returns a user's profile by id. For sponsor-role users the sponsor profile is embedded. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [get]
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := c.Service.GetByID(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update current user
// @Description Update the authenticated user's profile. All fields optional. Email and username must stay unique. Requires Bearer token.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateUserRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Update(r.Context(), userID, req.toUpdate())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// SetProfilePhoto godoc
// @Summary Set current user's profile photo
// @Description Store the given URL as the authenticated user's profile picture. Upload the file first via POST /images. Requires Bearer token.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetProfilePhotoRequest true "Photo URL"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/photo [patch]
func (c *UserController) SetProfilePhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SetProfilePhotoRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SetProfilePhoto(r.Context(), userID, strings.TrimSpace(req.PhotoURL))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
