package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // RFC 3339
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if _, err := time.Parse(time.RFC3339, c.Date); err != nil {
		errs = append(errs, "date must be RFC 3339")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"` // RFC 3339
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Date != nil {
		if _, err := time.Parse(time.RFC3339, *u.Date); err != nil {
			errs = append(errs, "date must be RFC 3339")
		}
	}
	return errs
}

func (u UpdateEventRequest) toUpdate() domain.EventUpdate {
	upd := domain.EventUpdate{
		Title:       u.Title,
		Description: u.Description,
	}
	if u.Date != nil {
		d, _ := time.Parse(time.RFC3339, *u.Date)
		upd.Date = &d
	}
	return upd
}

// EventController handles event CRUD and lifecycle endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

// NewEventController creates an EventController with the given logger and service.
func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List events
// @Description List events, optionally filtered by status. Expired active events are flipped to INACTIVE before the response is built.
// @Tags events
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} helpers.APIResponse "data contains the events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.Status(strings.ToUpper(s))
		if !st.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status filter")
			return
		}
		status = &st
	}
	events, err := c.Service.List(r.Context(), domain.EventTypeEvent, status)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetByID(r.Context(), r.PathValue("eventID"), domain.EventTypeEvent)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Create godoc
// @Summary Create an event
// @Description Create a new event. New events always start in DRAFT regardless of any submitted status. Admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	date, _ := time.Parse(time.RFC3339, req.Date)
	event, err := c.Service.Create(r.Context(), &domain.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        date,
		Type:        domain.EventTypeEvent,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// Update godoc
// @Summary Update an event
// @Description Partially update an event's content fields. Status is not updatable here; use the transition endpoints. Admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Update(r.Context(), r.PathValue("eventID"), domain.EventTypeEvent, req.toUpdate())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), r.PathValue("eventID")); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

func (c *EventController) transition(w http.ResponseWriter, r *http.Request, fn func(r *http.Request, id string) (*domain.Event, error)) {
	event, err := fn(r, r.PathValue("eventID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Approve godoc
// @Summary Approve an event
// @Description Set the event status to ACTIVE. Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/approve [post]
func (c *EventController) Approve(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Event, error) {
		return c.Service.Approve(r.Context(), id)
	})
}

// Reject godoc
// @Summary Reject an event
// @Description Set the event status to REJECTED. Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/reject [post]
func (c *EventController) Reject(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Event, error) {
		return c.Service.Reject(r.Context(), id)
	})
}

// RequestRevision godoc
// @Summary Request revision of an event
// @Description Set the event status to REVISION. Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/revision [post]
func (c *EventController) RequestRevision(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Event, error) {
		return c.Service.RequestRevision(r.Context(), id)
	})
}

// Toggle godoc
// @Summary Toggle an event between ACTIVE and INACTIVE
// @Description Flip ACTIVE to INACTIVE or back. For any other status the event is returned unchanged. Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/toggle [post]
func (c *EventController) Toggle(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(r *http.Request, id string) (*domain.Event, error) {
		return c.Service.ToggleStatus(r.Context(), id)
	})
}
