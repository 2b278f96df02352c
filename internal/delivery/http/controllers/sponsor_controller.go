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

// SponsorDescriptionInput is one description block in sponsor requests.
type SponsorDescriptionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CertificateInput is one certificate in sponsor requests. Certificates with
// the same title and url are shared between sponsors.
type CertificateInput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CreateSponsorRequest is the request body for POST /sponsors. Creates a
// sponsor profile for an existing user; each user can own at most one.
type CreateSponsorRequest struct {
	UserID       string                    `json:"user_id"`
	CompanyName  string                    `json:"company_name"`
	WebsiteURL   string                    `json:"website_url"`
	LogoURL      string                    `json:"logo_url"`
	Descriptions []SponsorDescriptionInput `json:"descriptions"`
	Certificates []CertificateInput        `json:"certificates"`
}

// Validate implements Validator.
func (c CreateSponsorRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.UserID) == "" {
		errs = append(errs, "user_id is required")
	}
	if strings.TrimSpace(c.CompanyName) == "" {
		errs = append(errs, "company_name is required")
	}
	return errs
}

// UpdateSponsorRequest is the request body for PATCH /sponsors/{sponsorID}.
// Descriptions, when present, replace the existing set; certificates, when
// present, reset the relation. Country is written through to the owning user.
type UpdateSponsorRequest struct {
	CompanyName  *string                   `json:"company_name"`
	WebsiteURL   *string                   `json:"website_url"`
	LogoURL      *string                   `json:"logo_url"`
	Country      *string                   `json:"country"`
	Descriptions []SponsorDescriptionInput `json:"descriptions"`
	Certificates []CertificateInput        `json:"certificates"`
}

// Validate implements Validator.
func (u UpdateSponsorRequest) Validate() []string {
	if u.CompanyName != nil && strings.TrimSpace(*u.CompanyName) == "" {
		return []string{"company_name cannot be empty"}
	}
	return nil
}

func (u UpdateSponsorRequest) toUpdate() domain.SponsorUpdate {
	upd := domain.SponsorUpdate{
		CompanyName: u.CompanyName,
		WebsiteURL:  u.WebsiteURL,
		LogoURL:     u.LogoURL,
		Country:     u.Country,
	}
	if u.Descriptions != nil {
		upd.Descriptions = make([]*domain.SponsorDescription, 0, len(u.Descriptions))
		for _, d := range u.Descriptions {
			upd.Descriptions = append(upd.Descriptions, &domain.SponsorDescription{
				Title:       d.Title,
				Description: d.Description,
			})
		}
	}
	if u.Certificates != nil {
		upd.Certificates = make([]*domain.Certificate, 0, len(u.Certificates))
		for _, c := range u.Certificates {
			upd.Certificates = append(upd.Certificates, &domain.Certificate{Title: c.Title, URL: c.URL})
		}
	}
	return upd
}

// CreateSponsorPostRequest is the request body for POST /sponsors/me/posts
// and POST /sponsors/me/offers. A missing valid_until means the entry never
// expires.
type CreateSponsorPostRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	ValidFrom   string  `json:"valid_from"` // RFC 3339
	ValidUntil  *string `json:"valid_until"`
}

// Validate implements Validator.
func (c CreateSponsorPostRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.ValidFrom != "" {
		if _, err := time.Parse(time.RFC3339, c.ValidFrom); err != nil {
			errs = append(errs, "valid_from must be RFC 3339")
		}
	}
	if c.ValidUntil != nil {
		if _, err := time.Parse(time.RFC3339, *c.ValidUntil); err != nil {
			errs = append(errs, "valid_until must be RFC 3339")
		}
	}
	return errs
}

func (c CreateSponsorPostRequest) window(now time.Time) (time.Time, *time.Time) {
	from := now
	if c.ValidFrom != "" {
		from, _ = time.Parse(time.RFC3339, c.ValidFrom)
	}
	var until *time.Time
	if c.ValidUntil != nil {
		u, _ := time.Parse(time.RFC3339, *c.ValidUntil)
		until = &u
	}
	return from, until
}

// RemoveCertificatesRequest is the request body for DELETE /sponsors/{sponsorID}/certificates.
type RemoveCertificatesRequest struct {
	CertificateIDs []string `json:"certificate_ids"`
}

// Validate implements Validator.
func (r RemoveCertificatesRequest) Validate() []string {
	if len(r.CertificateIDs) == 0 {
		return []string{"certificate_ids is required"}
	}
	return nil
}

// SponsorController handles sponsor, sponsor post, and sponsor offer endpoints.
type SponsorController struct {
	Logger  *slog.Logger
	Service domain.SponsorService
}

// NewSponsorController creates a SponsorController with the given logger and service.
func NewSponsorController(logger *slog.Logger, svc domain.SponsorService) *SponsorController {
	return &SponsorController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a sponsor
// @Description Create a sponsor profile for an existing user, with optional descriptions and certificates. Certificates with a known title and url are reused rather than duplicated. Admin only.
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSponsorRequest true "Sponsor data"
// @Success 201 {object} helpers.APIResponse "data contains the created sponsor detail"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors [post]
func (c *SponsorController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSponsorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	descs := make([]*domain.SponsorDescription, 0, len(req.Descriptions))
	for _, d := range req.Descriptions {
		descs = append(descs, &domain.SponsorDescription{Title: d.Title, Description: d.Description})
	}
	certs := make([]*domain.Certificate, 0, len(req.Certificates))
	for _, cert := range req.Certificates {
		certs = append(certs, &domain.Certificate{Title: cert.Title, URL: cert.URL})
	}
	detail, err := c.Service.CreateSponsor(r.Context(), &domain.Sponsor{
		UserID:      strings.TrimSpace(req.UserID),
		CompanyName: strings.TrimSpace(req.CompanyName),
		WebsiteURL:  strings.TrimSpace(req.WebsiteURL),
		LogoURL:     strings.TrimSpace(req.LogoURL),
	}, descs, certs)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, detail)
}

// List godoc
// @Summary List sponsors
// @Description Public sponsor listing. The order is shuffled and cached for a short window so no sponsor is permanently favored by list position.
// @Tags sponsors
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the sponsors"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors [get]
func (c *SponsorController) List(w http.ResponseWriter, r *http.Request) {
	sponsors, err := c.Service.ListSponsors(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sponsors)
}

// Get godoc
// @Summary Get a sponsor
// @Description Returns the full sponsor profile with posts, offers, descriptions, and certificates. Expired posts and offers are flipped to INACTIVE before the response is built.
// @Tags sponsors
// @Produce json
// @Param sponsorID path string true "Sponsor ID"
// @Success 200 {object} helpers.APIResponse "data contains the sponsor detail"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/{sponsorID} [get]
func (c *SponsorController) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := c.Service.GetSponsor(r.Context(), r.PathValue("sponsorID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// GetMe godoc
// @Summary Get the current user's sponsor profile
// @Description Returns the sponsor profile owned by the authenticated user. Sponsor role only.
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the sponsor detail"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/me [get]
func (c *SponsorController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	detail, err := c.Service.GetSponsorByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// Update godoc
// @Summary Update a sponsor
// @Description Partially update a sponsor profile. Descriptions replace the existing set; certificates reset the relation; country is written through to the owning user. Admin only.
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sponsorID path string true "Sponsor ID"
// @Param body body UpdateSponsorRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated sponsor detail"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/{sponsorID} [patch]
func (c *SponsorController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSponsorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	detail, err := c.Service.UpdateSponsor(r.Context(), r.PathValue("sponsorID"), req.toUpdate())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// Toggle godoc
// @Summary Toggle a sponsor between ACTIVE and INACTIVE
// @Description Flip ACTIVE to INACTIVE or back. For any other status the sponsor is returned unchanged. Admin only.
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Param sponsorID path string true "Sponsor ID"
// @Success 200 {object} helpers.APIResponse "data contains the sponsor"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/{sponsorID}/toggle [post]
func (c *SponsorController) Toggle(w http.ResponseWriter, r *http.Request) {
	sponsor, err := c.Service.ToggleSponsorStatus(r.Context(), r.PathValue("sponsorID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sponsor)
}

// mySponsorID resolves the sponsor profile owned by the authenticated user.
func (c *SponsorController) mySponsorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	detail, err := c.Service.GetSponsorByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return "", false
	}
	return detail.ID, true
}

// CreatePost godoc
// @Summary Create a sponsor post
// @Description Create a post owned by the authenticated user's sponsor profile. A missing valid_until means the post never expires. Sponsor role only.
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSponsorPostRequest true "Post data"
// @Success 201 {object} helpers.APIResponse "data contains the created post"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/me/posts [post]
func (c *SponsorController) CreatePost(w http.ResponseWriter, r *http.Request) {
	sponsorID, ok := c.mySponsorID(w, r)
	if !ok {
		return
	}
	var req CreateSponsorPostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	from, until := req.window(time.Now())
	post, err := c.Service.CreatePost(r.Context(), &domain.SponsorPost{
		SponsorID:   sponsorID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		ValidFrom:   from,
		ValidUntil:  until,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, post)
}

// ListPosts godoc
// @Summary List sponsor posts
// @Tags sponsors
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the posts"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/posts [get]
func (c *SponsorController) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := c.Service.ListPosts(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a sponsor post
// @Tags sponsors
// @Produce json
// @Param postID path string true "Post ID"
// @Success 200 {object} helpers.APIResponse "data contains the post"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/posts/{postID} [get]
func (c *SponsorController) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := c.Service.GetPost(r.Context(), r.PathValue("postID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, post)
}

// TogglePost godoc
// @Summary Toggle a sponsor post between ACTIVE and INACTIVE
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Success 200 {object} helpers.APIResponse "data contains the post"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/posts/{postID}/toggle [post]
func (c *SponsorController) TogglePost(w http.ResponseWriter, r *http.Request) {
	post, err := c.Service.TogglePostStatus(r.Context(), r.PathValue("postID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, post)
}

// CreateOffer godoc
// @Summary Create a sponsor offer
// @Description Create an offer owned by the authenticated user's sponsor profile. A missing valid_until means the offer never expires. Sponsor role only.
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSponsorPostRequest true "Offer data"
// @Success 201 {object} helpers.APIResponse "data contains the created offer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/me/offers [post]
func (c *SponsorController) CreateOffer(w http.ResponseWriter, r *http.Request) {
	sponsorID, ok := c.mySponsorID(w, r)
	if !ok {
		return
	}
	var req CreateSponsorPostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	from, until := req.window(time.Now())
	offer, err := c.Service.CreateOffer(r.Context(), &domain.SponsorOffer{
		SponsorID:   sponsorID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		ValidFrom:   from,
		ValidUntil:  until,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, offer)
}

// ListOffers godoc
// @Summary List sponsor offers
// @Tags sponsors
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the offers"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/offers [get]
func (c *SponsorController) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := c.Service.ListOffers(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, offers)
}

// GetOffer godoc
// @Summary Get a sponsor offer
// @Tags sponsors
// @Produce json
// @Param offerID path string true "Offer ID"
// @Success 200 {object} helpers.APIResponse "data contains the offer"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/offers/{offerID} [get]
func (c *SponsorController) GetOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := c.Service.GetOffer(r.Context(), r.PathValue("offerID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, offer)
}

// ToggleOffer godoc
// @Summary Toggle a sponsor offer between ACTIVE and INACTIVE
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Param offerID path string true "Offer ID"
// @Success 200 {object} helpers.APIResponse "data contains the offer"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/offers/{offerID}/toggle [post]
func (c *SponsorController) ToggleOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := c.Service.ToggleOfferStatus(r.Context(), r.PathValue("offerID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, offer)
}

// ListCertificates godoc
// @Summary List certificates
// @Tags sponsors
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the certificates"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /certificates [get]
func (c *SponsorController) ListCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := c.Service.ListCertificates(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, certs)
}

// RemoveCertificates godoc
// @Summary Unlink certificates from a sponsor
// @Description Remove the given certificates from the sponsor. The shared certificate records themselves are kept. Admin only.
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sponsorID path string true "Sponsor ID"
// @Param body body RemoveCertificatesRequest true "Certificate ids to unlink"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sponsors/{sponsorID}/certificates [delete]
func (c *SponsorController) RemoveCertificates(w http.ResponseWriter, r *http.Request) {
	var req RemoveCertificatesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RemoveCertificates(r.Context(), r.PathValue("sponsorID"), req.CertificateIDs); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "certificates removed"})
}
