package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/delivery/http/middleware"
	"communityhub/internal/domain"
)

// CreateActivityRequest is the request body for POST /activities.
type CreateActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // RFC 3339
	Time        string `json:"time"`
	Link        string `json:"link"`
	Type        string `json:"type"`
}

// Validate implements Validator.
func (c CreateActivityRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if _, err := time.Parse(time.RFC3339, c.Date); err != nil {
		errs = append(errs, "date must be RFC 3339")
	}
	if !domain.ActivityType(strings.ToUpper(c.Type)).Valid() {
		errs = append(errs, "type must be one of WEBINAR, WORKSHOP, MEETUP, OTHER")
	}
	return errs
}

// UpdateActivityRequest is the request body for PATCH /activities/{activityID}.
// All fields are optional.
type UpdateActivityRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"` // RFC 3339
	Time        *string `json:"time"`
	Link        *string `json:"link"`
	Type        *string `json:"type"`
}

// Validate implements Validator.
func (u UpdateActivityRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Date != nil {
		if _, err := time.Parse(time.RFC3339, *u.Date); err != nil {
			errs = append(errs, "date must be RFC 3339")
		}
	}
	if u.Type != nil && !domain.ActivityType(strings.ToUpper(*u.Type)).Valid() {
		errs = append(errs, "type must be one of WEBINAR, WORKSHOP, MEETUP, OTHER")
	}
	return errs
}

func (u UpdateActivityRequest) toUpdate() domain.ActivityUpdate {
	upd := domain.ActivityUpdate{
		Title:       u.Title,
		Description: u.Description,
		Time:        u.Time,
		Link:        u.Link,
	}
	if u.Date != nil {
		d, _ := time.Parse(time.RFC3339, *u.Date)
		upd.Date = &d
	}
	if u.Type != nil {
		t := domain.ActivityType(strings.ToUpper(*u.Type))
		upd.Type = &t
	}
	return upd
}

// ActivityController handles activity CRUD, lifecycle transitions, and user
// registration endpoints.
type ActivityController struct {
	Logger  *slog.Logger
	Service domain.ActivityService
}

// NewActivityController creates an ActivityController with the given logger and service.
func NewActivityController(logger *slog.Logger, svc domain.ActivityService) *ActivityController {
	return &ActivityController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List activities
// @Description List activities, optionally filtered by status and type. Expired active activities are flipped to INACTIVE before the response is built.
// @Tags activities
// @Produce json
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by type"
// @Success 200 {object} helpers.APIResponse "data contains the activities"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities [get]
func (c *ActivityController) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.ActivityFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.Status(strings.ToUpper(s))
		if !status.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status filter")
			return
		}
		filter.Status = &status
	}
	if s := r.URL.Query().Get("type"); s != "" {
		typ := domain.ActivityType(strings.ToUpper(s))
		if !typ.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid type filter")
			return
		}
		filter.Type = &typ
	}
	activities, err := c.Service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activities)
}

// ListUpcoming godoc
// @Summary List upcoming activities
// @Description List active activities whose date is in the future.
// @Tags activities
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the activities"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/upcoming [get]
func (c *ActivityController) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	activities, err := c.Service.ListUpcoming(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activities)
}

// Get godoc
// @Summary Get an activity
// @Description Returns an activity with its registered users.
// @Tags activities
// @Produce json
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the activity with users"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID} [get]
func (c *ActivityController) Get(w http.ResponseWriter, r *http.Request) {
	activity, err := c.Service.GetByID(r.Context(), r.PathValue("activityID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// Create godoc
// @Summary Create an activity
// @Description Create a new activity. New activities always start in DRAFT regardless of any submitted status. Admin only.
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateActivityRequest true "Activity data"
// @Success 201 {object} helpers.APIResponse "data contains the created activity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities [post]
func (c *ActivityController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	date, _ := time.Parse(time.RFC3339, req.Date)
	activity, err := c.Service.Create(r.Context(), &domain.Activity{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Link:        strings.TrimSpace(req.Link),
		Type:        domain.ActivityType(strings.ToUpper(req.Type)),
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, activity)
}

// Update godoc
// @Summary Update an activity
// @Description Partially update an activity's content fields. Status is not updatable here; use the transition endpoints. Admin only.
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Param body body UpdateActivityRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated activity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID} [patch]
func (c *ActivityController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateActivityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	activity, err := c.Service.Update(r.Context(), r.PathValue("activityID"), req.toUpdate())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// Delete godoc
// @Summary Delete an activity
// @Description Delete an activity and its registrations. Admin only.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID} [delete]
func (c *ActivityController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), r.PathValue("activityID")); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "activity deleted"})
}

// transition runs one named lifecycle transition and writes the result.
func (c *ActivityController) transition(w http.ResponseWriter, r *http.Request, fn func(r *http.Request, id string) (*domain.Activity, error)) {
	activity, err := fn(r, r.PathValue("activityID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// Approve godoc
// @Summary Approve an activity
// @Description Set the activity status to ACTIVE. Admin only.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated activity"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID}/approve [post]
func (c *ActivityController) Approve(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Activity, error) {
		return c.Service.Approve(r.Context(), id)
	})
}

// Reject godoc
// @Summary Reject an activity
// @Description Set the activity status to REJECTED. Admin only.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated activity"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID}/reject [post]
func (c *ActivityController) Reject(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Activity, error) {
		return c.Service.Reject(r.Context(), id)
	})
}

// RequestRevision godoc
// @Summary Request revision of an activity
// @Description Set the activity status to REVISION. Admin only.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated activity"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID}/revision [post]
func (c *ActivityController) RequestRevision(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Activity, error) {
		return c.Service.RequestRevision(r.Context(), id)
	})
}

// MarkPending godoc
// @Summary Mark an activity as pending review
// @Description Set the activity status back to DRAFT. Admin only.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated activity"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID}/pending [post]
func (c *ActivityController) MarkPending(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Activity, error) {
		return c.Service.MarkPending(r.Context(), id)
	})
}

// Toggle godoc
// @Summary Toggle an activity between ACTIVE and INACTIVE
// @Description Flip ACTIVE to INACTIVE or back. For any other status the activity is returned unchanged. Admin only.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the activity"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID}/toggle [post]
func (c *ActivityController) Toggle(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Activity, error) {
		return c.Service.ToggleStatus(r.Context(), id)
	})
}

// Register godoc
// @Summary Register for an activity
// @Description Register the authenticated user for an ACTIVE activity. Duplicate registrations are rejected. A confirmation email with calendar links is sent in the background. Requires Bearer token.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the registration result"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID}/register [post]
func (c *ActivityController) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.Register(r.Context(), r.PathValue("activityID"), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// Unregister godoc
// @Summary Unregister from an activity
// @Description Remove the authenticated user's registration. Requires Bearer token.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the registration result"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID}/register [delete]
func (c *ActivityController) Unregister(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.Unregister(r.Context(), r.PathValue("activityID"), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// MyActivities godoc
// @Summary List current user's activities
// @Description List the activities the authenticated user is registered for. Requires Bearer token.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the activities"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/activities [get]
func (c *ActivityController) MyActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	activities, err := c.Service.ActivitiesByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activities)
}

// Users godoc
// @Summary List users registered for an activity
// @Description List the users registered for the given activity. Admin only.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} helpers.APIResponse "data contains the registered users"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /activities/{activityID}/users [get]
func (c *ActivityController) Users(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.UsersByActivity(r.Context(), r.PathValue("activityID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}
