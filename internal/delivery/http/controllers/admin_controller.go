package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/domain"
)

// CreateUserRequest is the request body for POST /admin/users.
type CreateUserRequest struct {
	SignUpRequest
	Role       string `json:"role"`
	Membership string `json:"membership"`
}

// Validate implements Validator.
func (c CreateUserRequest) Validate() []string {
	errs := c.SignUpRequest.Validate()
	if c.Role != "" && !domain.Role(strings.ToUpper(c.Role)).Valid() {
		errs = append(errs, "role must be one of USER, ADMIN, SPONSOR")
	}
	if c.Membership != "" && !domain.Membership(strings.ToUpper(c.Membership)).Valid() {
		errs = append(errs, "membership must be one of FREE, PREMIUM, FOUNDER")
	}
	return errs
}

// AssignRoleRequest is the request body for POST /admin/users/{userID}/role.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// Validate implements Validator.
func (a AssignRoleRequest) Validate() []string {
	if !domain.Role(strings.ToUpper(a.Role)).Valid() {
		return []string{"role must be one of USER, ADMIN, SPONSOR"}
	}
	return nil
}

// AdminUpdateUserRequest is the request body for PATCH /admin/users/{userID}.
type AdminUpdateUserRequest struct {
	UpdateUserRequest
	Membership *string `json:"membership"`
}

// Validate implements Validator.
func (a AdminUpdateUserRequest) Validate() []string {
	errs := a.UpdateUserRequest.Validate()
	if a.Membership != nil && !domain.Membership(strings.ToUpper(*a.Membership)).Valid() {
		errs = append(errs, "membership must be one of FREE, PREMIUM, FOUNDER")
	}
	return errs
}

// AdminController handles administrative user-management endpoints. Every
// route is behind the ADMIN role.
type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
}

// NewAdminController creates an AdminController with the given logger and service.
func NewAdminController(logger *slog.Logger, svc domain.AdminService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateUser godoc
// @Summary Create a user
// @Description Create a user account with an explicit role. No welcome email is sent.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateUserRequest true "User data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [post]
func (c *AdminController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user := req.toUser()
	if req.Membership != "" {
		user.Membership = domain.Membership(strings.ToUpper(req.Membership))
	}
	role := domain.RoleUser
	if req.Role != "" {
		role = domain.Role(strings.ToUpper(req.Role))
	}
	created, err := c.Service.CreateUser(r.Context(), user, req.Password, role)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// Stats godoc
// @Summary User statistics
// @Description Returns total user count plus breakdowns by country and membership.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the statistics"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/stats [get]
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// ListUsers godoc
// @Summary List users
// @Description List users, optionally filtered by country and membership.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param country query string false "Filter by country"
// @Param membership query string false "Filter by membership"
// @Success 200 {object} helpers.APIResponse "data contains the users"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	var filter domain.UserFilter
	if s := r.URL.Query().Get("country"); s != "" {
		filter.Country = &s
	}
	if s := r.URL.Query().Get("membership"); s != "" {
		m := domain.Membership(strings.ToUpper(s))
		if !m.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid membership filter")
			return
		}
		filter.Membership = &m
	}
	users, err := c.Service.ListUsers(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// AssignRole godoc
// @Summary Assign a role to a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param body body AssignRoleRequest true "Role to assign"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID}/role [post]
func (c *AdminController) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req AssignRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.AssignRole(r.Context(), r.PathValue("userID"), domain.Role(strings.ToUpper(req.Role)))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Partially update any user's profile, including membership.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param body body AdminUpdateUserRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID} [patch]
func (c *AdminController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req AdminUpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := req.toUpdate()
	if req.Membership != nil {
		m := domain.Membership(strings.ToUpper(*req.Membership))
		upd.Membership = &m
	}
	user, err := c.Service.UpdateUser(r.Context(), r.PathValue("userID"), upd)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID} [delete]
func (c *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteUser(r.Context(), r.PathValue("userID")); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
