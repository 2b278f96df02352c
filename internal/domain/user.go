package domain

import (
	"context"
	"time"
)

// User represents a registered user. PasswordHash never crosses the API
// boundary.
// swagger:model User
type User struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Country           string     `json:"country"`
	Membership        Membership `json:"membership"`
	Role              Role       `json:"role"`
	ProfilePictureURL string     `json:"profile_picture_url"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// UserSummary is the reduced projection embedded in activity and sponsor
// reads.
// swagger:model UserSummary
type UserSummary struct {
	ID                string `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// UserWithSponsor is the detail projection for sponsor-role users.
// swagger:model UserWithSponsor
type UserWithSponsor struct {
	*User
	Sponsor *SponsorDetail `json:"sponsor,omitempty"`
}

// UserFilter narrows user listings. Nil fields mean "no filter".
type UserFilter struct {
	Country    *string
	Membership *Membership
}

// UserUpdate carries the partial-update fields. Nil fields are unchanged.
type UserUpdate struct {
	FirstName  *string
	LastName   *string
	Username   *string
	Email      *string
	Country    *string
	Membership *Membership
}

// UserStats aggregates account numbers for the admin dashboard.
// swagger:model UserStats
type UserStats struct {
	TotalUsers     int            `json:"total_users"`
	UsersByCountry map[string]int `json:"users_by_country"`
	Memberships    map[string]int `json:"memberships"`
}

// PasswordHasher hashes and verifies passwords. Implementations may use
// bcrypt, argon2, etc.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and
// role claims.
type TokenVerifier interface {
	Verify(token string) (userID string, roles []string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	SetRole(ctx context.Context, id string, role Role) (*User, error)
	SetProfilePicture(ctx context.Context, id string, url string) (*User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByCountry(ctx context.Context) (map[string]int, error)
	CountByMembership(ctx context.Context) (map[string]int, error)
}

// UserService defines the business logic for user profiles.
type UserService interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id string) (*UserWithSponsor, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	SetProfilePhoto(ctx context.Context, id string, photoURL string) (*User, error)
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, user *User, password string) (*User, error)
	SignUpSponsor(ctx context.Context, user *User, password string, sponsor *Sponsor) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}

// AdminService defines administrative operations over user accounts.
type AdminService interface {
	CreateUser(ctx context.Context, user *User, password string, role Role) (*User, error)
	Stats(ctx context.Context) (*UserStats, error)
	AssignRole(ctx context.Context, userID string, role Role) (*User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*User, error)
	UpdateUser(ctx context.Context, userID string, upd UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, userID string) error
}
