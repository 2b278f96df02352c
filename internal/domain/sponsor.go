package domain

import (
	"context"
	"time"
)

// Sponsor is the sponsor profile attached to a sponsor-role user.
// swagger:model Sponsor
type Sponsor struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	WebsiteURL  string    `json:"website_url"`
	LogoURL     string    `json:"logo_url"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SponsorDescription is a titled description block owned by one sponsor.
// swagger:model SponsorDescription
type SponsorDescription struct {
	ID          string `json:"id"`
	SponsorID   string `json:"sponsor_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Certificate is shared across sponsors through an m2m relation; creating a
// sponsor reuses an existing certificate with the same title.
// swagger:model Certificate
type Certificate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SponsorContact is the user projection embedded in sponsor listings.
// swagger:model SponsorContact
type SponsorContact struct {
	Country string `json:"country"`
	Email   string `json:"email"`
}

// SponsorListing is the shuffled-list projection served by ListSponsors.
// swagger:model SponsorListing
type SponsorListing struct {
	*Sponsor
	User         *SponsorContact       `json:"user"`
	Descriptions []*SponsorDescription `json:"descriptions"`
	Certificates []*Certificate        `json:"certificates"`
}

// SponsorDetail is the full projection including posts and offers.
// swagger:model SponsorDetail
type SponsorDetail struct {
	*Sponsor
	User         *UserSummary          `json:"user,omitempty"`
	Posts        []*SponsorPost        `json:"posts"`
	Offers       []*SponsorOffer       `json:"offers"`
	Descriptions []*SponsorDescription `json:"descriptions"`
	Certificates []*Certificate        `json:"certificates"`
}

// SponsorPost is a sponsor publication with a validity window.
// swagger:model SponsorPost
type SponsorPost struct {
	ID          string     `json:"id"`
	SponsorID   string     `json:"sponsor_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	ValidFrom   time.Time  `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExpiryDate returns the instant used by the lazy expiry sweep. Posts with no
// valid_until never expire.
func (p *SponsorPost) ExpiryDate() (time.Time, bool) {
	if p.ValidUntil == nil {
		return time.Time{}, false
	}
	return *p.ValidUntil, true
}

// CurrentStatus implements the sweep candidate interface.
func (p *SponsorPost) CurrentStatus() Status { return p.Status }

// EntityID implements the sweep candidate interface.
func (p *SponsorPost) EntityID() string { return p.ID }

// SponsorOffer is a sponsor offer with a validity window.
// swagger:model SponsorOffer
type SponsorOffer struct {
	ID          string     `json:"id"`
	SponsorID   string     `json:"sponsor_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	ValidFrom   time.Time  `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExpiryDate returns the instant used by the lazy expiry sweep.
func (o *SponsorOffer) ExpiryDate() (time.Time, bool) {
	if o.ValidUntil == nil {
		return time.Time{}, false
	}
	return *o.ValidUntil, true
}

// CurrentStatus implements the sweep candidate interface.
func (o *SponsorOffer) CurrentStatus() Status { return o.Status }

// EntityID implements the sweep candidate interface.
func (o *SponsorOffer) EntityID() string { return o.ID }

// SponsorUpdate carries the partial-update fields. Descriptions, when
// non-nil, replace the existing set; Certificates, when non-nil, reset the
// m2m relation. Country is written through to the owning user.
type SponsorUpdate struct {
	CompanyName  *string
	WebsiteURL   *string
	LogoURL      *string
	Country      *string
	Descriptions []*SponsorDescription
	Certificates []*Certificate
}

// SponsorRepository defines the interface for sponsor storage, including
// descriptions and the certificate m2m relation.
type SponsorRepository interface {
	Create(ctx context.Context, s *Sponsor) error
	GetByID(ctx context.Context, id string) (*Sponsor, error)
	GetByUserID(ctx context.Context, userID string) (*Sponsor, error)
	ListAll(ctx context.Context) ([]*SponsorListing, error)
	GetDetail(ctx context.Context, id string) (*SponsorDetail, error)
	GetDetailByUserID(ctx context.Context, userID string) (*SponsorDetail, error)
	Update(ctx context.Context, id string, upd SponsorUpdate) error
	SetStatus(ctx context.Context, id string, status Status) (*Sponsor, error)

	ReplaceDescriptions(ctx context.Context, sponsorID string, descs []*SponsorDescription) error
	FindOrCreateCertificate(ctx context.Context, title, url string) (*Certificate, error)
	LinkCertificates(ctx context.Context, sponsorID string, certIDs []string) error
	UnlinkCertificates(ctx context.Context, sponsorID string, certIDs []string) error
	ClearCertificates(ctx context.Context, sponsorID string) error
	ListCertificates(ctx context.Context) ([]*Certificate, error)
}

// SponsorPostRepository stores sponsor posts.
type SponsorPostRepository interface {
	Create(ctx context.Context, p *SponsorPost) error
	GetByID(ctx context.Context, id string) (*SponsorPost, error)
	ListAll(ctx context.Context) ([]*SponsorPost, error)
	SetStatus(ctx context.Context, id string, status Status) (*SponsorPost, error)
	BulkSetStatus(ctx context.Context, ids []string, status Status) error
}

// SponsorOfferRepository stores sponsor offers.
type SponsorOfferRepository interface {
	Create(ctx context.Context, o *SponsorOffer) error
	GetByID(ctx context.Context, id string) (*SponsorOffer, error)
	ListAll(ctx context.Context) ([]*SponsorOffer, error)
	SetStatus(ctx context.Context, id string, status Status) (*SponsorOffer, error)
	BulkSetStatus(ctx context.Context, ids []string, status Status) error
}

// SponsorService defines the business logic for sponsors, their posts and
// offers, and the shuffled public listing.
type SponsorService interface {
	CreateSponsor(ctx context.Context, s *Sponsor, descs []*SponsorDescription, certs []*Certificate) (*SponsorDetail, error)
	ListSponsors(ctx context.Context) ([]*SponsorListing, error)
	GetSponsor(ctx context.Context, id string) (*SponsorDetail, error)
	GetSponsorByUser(ctx context.Context, userID string) (*SponsorDetail, error)
	UpdateSponsor(ctx context.Context, id string, upd SponsorUpdate) (*SponsorDetail, error)
	ToggleSponsorStatus(ctx context.Context, id string) (*Sponsor, error)

	CreatePost(ctx context.Context, p *SponsorPost) (*SponsorPost, error)
	ListPosts(ctx context.Context) ([]*SponsorPost, error)
	GetPost(ctx context.Context, id string) (*SponsorPost, error)
	TogglePostStatus(ctx context.Context, id string) (*SponsorPost, error)

	CreateOffer(ctx context.Context, o *SponsorOffer) (*SponsorOffer, error)
	ListOffers(ctx context.Context) ([]*SponsorOffer, error)
	GetOffer(ctx context.Context, id string) (*SponsorOffer, error)
	ToggleOfferStatus(ctx context.Context, id string) (*SponsorOffer, error)

	ListCertificates(ctx context.Context) ([]*Certificate, error)
	RemoveCertificates(ctx context.Context, sponsorID string, certIDs []string) error
}
