// Package http wires the controllers into the application's route table.
package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"communityhub/internal/delivery/http/controllers"
	"communityhub/internal/delivery/http/middleware"
	"communityhub/internal/domain"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Activity *controllers.ActivityController
	Event    *controllers.EventController
	News     *controllers.NewsController
	Sponsor  *controllers.SponsorController
	Admin    *controllers.AdminController
	Image    *controllers.ImageController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(logger *slog.Logger, verifier domain.TokenVerifier, c Controllers) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(h))
	}
	sponsor := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleSponsor)(h))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/signup/sponsor", c.Auth.SignUpSponsor)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /users", auth(c.User.List))
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))
	mux.HandleFunc("PATCH /users/me/photo", auth(c.User.SetProfilePhoto))
	mux.HandleFunc("GET /users/me/activities", auth(c.Activity.MyActivities))
	mux.HandleFunc("GET /users/{userID}", auth(c.User.GetUser))

	// Activities
	mux.HandleFunc("GET /activities", c.Activity.List)
	mux.HandleFunc("GET /activities/upcoming", c.Activity.ListUpcoming)
	mux.HandleFunc("GET /activities/{activityID}", c.Activity.Get)
	mux.HandleFunc("POST /activities", admin(c.Activity.Create))
	mux.HandleFunc("PATCH /activities/{activityID}", admin(c.Activity.Update))
	mux.HandleFunc("DELETE /activities/{activityID}", admin(c.Activity.Delete))
	mux.HandleFunc("POST /activities/{activityID}/approve", admin(c.Activity.Approve))
	mux.HandleFunc("POST /activities/{activityID}/reject", admin(c.Activity.Reject))
	mux.HandleFunc("POST /activities/{activityID}/revision", admin(c.Activity.RequestRevision))
	mux.HandleFunc("POST /activities/{activityID}/pending", admin(c.Activity.MarkPending))
	mux.HandleFunc("POST /activities/{activityID}/toggle", admin(c.Activity.Toggle))
	mux.HandleFunc("POST /activities/{activityID}/register", auth(c.Activity.Register))
	mux.HandleFunc("DELETE /activities/{activityID}/register", auth(c.Activity.Unregister))
	mux.HandleFunc("GET /activities/{activityID}/users", admin(c.Activity.Users))

	// Events
	mux.HandleFunc("GET /events", c.Event.List)
	mux.HandleFunc("GET /events/{eventID}", c.Event.Get)
	mux.HandleFunc("POST /events", admin(c.Event.Create))
	mux.HandleFunc("PATCH /events/{eventID}", admin(c.Event.Update))
	mux.HandleFunc("DELETE /events/{eventID}", admin(c.Event.Delete))
	mux.HandleFunc("POST /events/{eventID}/approve", admin(c.Event.Approve))
	mux.HandleFunc("POST /events/{eventID}/reject", admin(c.Event.Reject))
	mux.HandleFunc("POST /events/{eventID}/revision", admin(c.Event.RequestRevision))
	mux.HandleFunc("POST /events/{eventID}/toggle", admin(c.Event.Toggle))

	// News
	mux.HandleFunc("GET /news", c.News.List)
	mux.HandleFunc("GET /news/inactive", admin(c.News.ListInactive))
	mux.HandleFunc("GET /news/{newsID}", c.News.Get)
	mux.HandleFunc("POST /news", admin(c.News.Create))
	mux.HandleFunc("PATCH /news/{newsID}", admin(c.News.Update))
	mux.HandleFunc("POST /news/{newsID}/toggle", admin(c.News.Toggle))

	// Sponsors
	mux.HandleFunc("GET /sponsors", c.Sponsor.List)
	mux.HandleFunc("POST /sponsors", admin(c.Sponsor.Create))
	mux.HandleFunc("GET /sponsors/me", sponsor(c.Sponsor.GetMe))
	mux.HandleFunc("GET /sponsors/posts", c.Sponsor.ListPosts)
	mux.HandleFunc("GET /sponsors/posts/{postID}", c.Sponsor.GetPost)
	mux.HandleFunc("POST /sponsors/posts/{postID}/toggle", admin(c.Sponsor.TogglePost))
	mux.HandleFunc("GET /sponsors/offers", c.Sponsor.ListOffers)
	mux.HandleFunc("GET /sponsors/offers/{offerID}", c.Sponsor.GetOffer)
	mux.HandleFunc("POST /sponsors/offers/{offerID}/toggle", admin(c.Sponsor.ToggleOffer))
	mux.HandleFunc("POST /sponsors/me/posts", sponsor(c.Sponsor.CreatePost))
	mux.HandleFunc("POST /sponsors/me/offers", sponsor(c.Sponsor.CreateOffer))
	mux.HandleFunc("GET /sponsors/{sponsorID}", c.Sponsor.Get)
	mux.HandleFunc("PATCH /sponsors/{sponsorID}", admin(c.Sponsor.Update))
	mux.HandleFunc("POST /sponsors/{sponsorID}/toggle", admin(c.Sponsor.Toggle))
	mux.HandleFunc("DELETE /sponsors/{sponsorID}/certificates", admin(c.Sponsor.RemoveCertificates))
	mux.HandleFunc("GET /certificates", c.Sponsor.ListCertificates)

	// Admin
	mux.HandleFunc("POST /admin/users", admin(c.Admin.CreateUser))
	mux.HandleFunc("GET /admin/users", admin(c.Admin.ListUsers))
	mux.HandleFunc("GET /admin/stats", admin(c.Admin.Stats))
	mux.HandleFunc("POST /admin/users/{userID}/role", admin(c.Admin.AssignRole))
	mux.HandleFunc("PATCH /admin/users/{userID}", admin(c.Admin.UpdateUser))
	mux.HandleFunc("DELETE /admin/users/{userID}", admin(c.Admin.DeleteUser))

	// Images
	mux.HandleFunc("POST /images", auth(c.Image.Upload))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
