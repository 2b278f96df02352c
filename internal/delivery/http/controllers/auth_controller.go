package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Country   string `json:"country"`
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if strings.TrimSpace(s.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(s.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	return errs
}

func (s SignUpRequest) toUser() *domain.User {
	return &domain.User{
		FirstName: strings.TrimSpace(s.FirstName),
		LastName:  strings.TrimSpace(s.LastName),
		Username:  strings.TrimSpace(s.Username),
		Email:     strings.TrimSpace(strings.ToLower(s.Email)),
		Country:   strings.TrimSpace(s.Country),
	}
}

// SponsorSignUpRequest is the request body for POST /auth/signup/sponsor
type SponsorSignUpRequest struct {
	SignUpRequest
	CompanyName string `json:"company_name"`
	WebsiteURL  string `json:"website_url"`
	LogoURL     string `json:"logo_url"`
}

// Validate implements Validator.
func (s SponsorSignUpRequest) Validate() []string {
	errs := s.SignUpRequest.Validate()
	if strings.TrimSpace(s.CompanyName) == "" {
		errs = append(errs, "company_name is required")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// SignUpSuccessResponse is the success response envelope for POST /auth/signup (201).
type SignUpSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// LoginSuccessResponse is the success response envelope for POST /auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AuthController handles signup and login endpoints.
type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

// NewAuthController creates an AuthController with the given logger and service.
func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create a user account with role USER and send the welcome email. Email and username must be unique.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} controllers.SignUpSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), req.toUser(), req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// SignUpSponsor godoc
// @Summary Sign up a new sponsor
// @Description Create a sponsor-role account together with its sponsor profile. Email and username must be unique.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SponsorSignUpRequest true "Sponsor sign-up data"
// @Success 201 {object} controllers.SignUpSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup/sponsor [post]
func (c *AuthController) SignUpSponsor(w http.ResponseWriter, r *http.Request) {
	var req SponsorSignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sponsor := &domain.Sponsor{
		CompanyName: strings.TrimSpace(req.CompanyName),
		WebsiteURL:  strings.TrimSpace(req.WebsiteURL),
		LogoURL:     strings.TrimSpace(req.LogoURL),
	}
	user, err := c.Service.SignUpSponsor(r.Context(), req.toUser(), req.Password, sponsor)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT and the user. JWT contains user id, email, and roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, token_type, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}
