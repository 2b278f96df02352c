package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/domain"
)

// CreateNewsRequest is the request body for POST /news.
type CreateNewsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Type        string `json:"type"`
}

// Validate implements Validator.
func (c CreateNewsRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if !domain.NewsType(strings.ToUpper(c.Type)).Valid() {
		errs = append(errs, "type must be one of NEWS, BLOGS, ARTICLES")
	}
	return errs
}

// UpdateNewsRequest is the request body for PATCH /news/{newsID}.
type UpdateNewsRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// Validate implements Validator.
func (u UpdateNewsRequest) Validate() []string {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return []string{"title cannot be empty"}
	}
	return nil
}

// NewsController handles published-content endpoints.
type NewsController struct {
	Logger  *slog.Logger
	Service domain.NewsService
}

// NewNewsController creates a NewsController with the given logger and service.
func NewNewsController(logger *slog.Logger, svc domain.NewsService) *NewsController {
	return &NewsController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List active news
// @Description List active entries of the given type (default NEWS).
// @Tags news
// @Produce json
// @Param type query string false "NEWS, BLOGS, or ARTICLES"
// @Success 200 {object} helpers.APIResponse "data contains the entries"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /news [get]
func (c *NewsController) List(w http.ResponseWriter, r *http.Request) {
	typ := domain.NewsTypeNews
	if s := r.URL.Query().Get("type"); s != "" {
		typ = domain.NewsType(strings.ToUpper(s))
		if !typ.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid type filter")
			return
		}
	}
	entries, err := c.Service.ListActive(r.Context(), typ)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}

// ListInactive godoc
// @Summary List inactive news
// @Description List inactive entries of every type. Admin only.
// @Tags news
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the entries"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /news/inactive [get]
func (c *NewsController) ListInactive(w http.ResponseWriter, r *http.Request) {
	entries, err := c.Service.ListInactive(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}

// Get godoc
// @Summary Get a news entry
// @Tags news
// @Produce json
// @Param newsID path string true "News ID"
// @Success 200 {object} helpers.APIResponse "data contains the entry"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /news/{newsID} [get]
func (c *NewsController) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := c.Service.GetByID(r.Context(), r.PathValue("newsID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entry)
}

// Create godoc
// @Summary Create a news entry
// @Description Create a news, blog, or article entry. New entries start ACTIVE. Admin only.
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateNewsRequest true "News data"
// @Success 201 {object} helpers.APIResponse "data contains the created entry"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /news [post]
func (c *NewsController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNewsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	entry, err := c.Service.Create(r.Context(), &domain.News{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Type:        domain.NewsType(strings.ToUpper(req.Type)),
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, entry)
}

// Update godoc
// @Summary Update a news entry
// @Description Partially update a news entry's content fields. Admin only.
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param newsID path string true "News ID"
// @Param body body UpdateNewsRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated entry"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /news/{newsID} [patch]
func (c *NewsController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateNewsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	entry, err := c.Service.Update(r.Context(), r.PathValue("newsID"), domain.NewsUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entry)
}

// Toggle godoc
// @Summary Toggle a news entry between ACTIVE and INACTIVE
// @Description Flip ACTIVE to INACTIVE or back. Admin only.
// @Tags news
// @Produce json
// @Security BearerAuth
// @Param newsID path string true "News ID"
// @Success 200 {object} helpers.APIResponse "data contains the entry"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /news/{newsID}/toggle [post]
func (c *NewsController) Toggle(w http.ResponseWriter, r *http.Request) {
	entry, err := c.Service.ToggleStatus(r.Context(), r.PathValue("newsID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entry)
}
