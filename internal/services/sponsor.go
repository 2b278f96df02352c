package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"communityhub/internal/domain"
)

// shuffleWindow is how long a shuffled sponsor listing stays fresh before the
// next read reloads and reshuffles, so no sponsor is permanently favored by
// list position.
const shuffleWindow = 30 * time.Minute

// sponsorListCache holds the shuffled listing between reads. It is owned by
// the sponsor service and invalidated by every successful sponsor write, so a
// read after a write always reflects the change instead of waiting out the
// window.
type sponsorListCache struct {
	mu          sync.Mutex
	sponsors    []*domain.SponsorListing
	lastShuffle time.Time
}

func (c *sponsorListCache) get(now time.Time) ([]*domain.SponsorListing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sponsors) == 0 || now.Sub(c.lastShuffle) > shuffleWindow {
		return nil, false
	}
	return c.sponsors, true
}

func (c *sponsorListCache) set(sponsors []*domain.SponsorListing, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sponsors = sponsors
	c.lastShuffle = now
}

func (c *sponsorListCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sponsors = nil
	c.lastShuffle = time.Time{}
}

type sponsorService struct {
	logger      *slog.Logger
	sponsorRepo domain.SponsorRepository
	postRepo    domain.SponsorPostRepository
	offerRepo   domain.SponsorOfferRepository
	userRepo    domain.UserRepository
	cache       sponsorListCache
	now         func() time.Time
}

// NewSponsorService creates a SponsorService with the given repositories.
// The user repository is needed for the country write-through on sponsor
// updates.
func NewSponsorService(
	logger *slog.Logger,
	sponsorRepo domain.SponsorRepository,
	postRepo domain.SponsorPostRepository,
	offerRepo domain.SponsorOfferRepository,
	userRepo domain.UserRepository,
) domain.SponsorService {
	return &sponsorService{
		logger:      logger,
		sponsorRepo: sponsorRepo,
		postRepo:    postRepo,
		offerRepo:   offerRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

func (s *sponsorService) CreateSponsor(ctx context.Context, sp *domain.Sponsor, descs []*domain.SponsorDescription, certs []*domain.Certificate) (*domain.SponsorDetail, error) {
	now := s.now()
	if sp.Status == "" {
		sp.Status = domain.StatusActive
	}
	sp.CreatedAt = now
	sp.UpdatedAt = now
	if err := s.sponsorRepo.Create(ctx, sp); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: user already has a sponsor profile", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create sponsor: %w", err)
	}

	if len(descs) > 0 {
		if err := s.sponsorRepo.ReplaceDescriptions(ctx, sp.ID, descs); err != nil {
			return nil, fmt.Errorf("create sponsor descriptions: %w", err)
		}
	}

	// Certificates are shared records: reuse one with the same title/url,
	// create it otherwise, then link the whole set.
	if len(certs) > 0 {
		certIDs := make([]string, 0, len(certs))
		for _, c := range certs {
			cert, err := s.sponsorRepo.FindOrCreateCertificate(ctx, c.Title, c.URL)
			if err != nil {
				return nil, fmt.Errorf("find or create certificate: %w", err)
			}
			certIDs = append(certIDs, cert.ID)
		}
		if err := s.sponsorRepo.LinkCertificates(ctx, sp.ID, certIDs); err != nil {
			return nil, fmt.Errorf("link certificates: %w", err)
		}
	}

	s.cache.invalidate()
	return s.sponsorRepo.GetDetail(ctx, sp.ID)
}

// ListSponsors serves the shuffled public listing from the cache while fresh,
// reloading and reshuffling otherwise.
func (s *sponsorService) ListSponsors(ctx context.Context) ([]*domain.SponsorListing, error) {
	now := s.now()
	if cached, ok := s.cache.get(now); ok {
		return cached, nil
	}
	sponsors, err := s.sponsorRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	rand.Shuffle(len(sponsors), func(i, j int) {
		sponsors[i], sponsors[j] = sponsors[j], sponsors[i]
	})
	s.cache.set(sponsors, now)
	return sponsors, nil
}

// GetSponsor returns the full sponsor projection after lazily expiring its
// posts and offers whose validity window has passed.
func (s *sponsorService) GetSponsor(ctx context.Context, id string) (*domain.SponsorDetail, error) {
	detail, err := s.sponsorRepo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor: %w", err)
	}
	now := s.now()
	sweepExpired(ctx, s.logger, detail.Posts, now,
		s.postRepo.BulkSetStatus,
		func(p *domain.SponsorPost) { p.Status = domain.StatusInactive },
	)
	sweepExpired(ctx, s.logger, detail.Offers, now,
		s.offerRepo.BulkSetStatus,
		func(o *domain.SponsorOffer) { o.Status = domain.StatusInactive },
	)
	return detail, nil
}

func (s *sponsorService) GetSponsorByUser(ctx context.Context, userID string) (*domain.SponsorDetail, error) {
	detail, err := s.sponsorRepo.GetDetailByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor by user: %w", err)
	}
	return detail, nil
}

func (s *sponsorService) UpdateSponsor(ctx context.Context, id string, upd domain.SponsorUpdate) (*domain.SponsorDetail, error) {
	sponsor, err := s.sponsorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor: %w", err)
	}

	// Country lives on the owning user, not the sponsor row.
	if upd.Country != nil {
		if _, err := s.userRepo.Update(ctx, sponsor.UserID, domain.UserUpdate{Country: upd.Country}); err != nil {
			return nil, fmt.Errorf("update sponsor user country: %w", err)
		}
	}

	if err := s.sponsorRepo.Update(ctx, id, upd); err != nil {
		return nil, fmt.Errorf("update sponsor: %w", err)
	}

	if upd.Descriptions != nil {
		if err := s.sponsorRepo.ReplaceDescriptions(ctx, id, upd.Descriptions); err != nil {
			return nil, fmt.Errorf("replace descriptions: %w", err)
		}
	}

	if upd.Certificates != nil {
		if err := s.sponsorRepo.ClearCertificates(ctx, id); err != nil {
			return nil, fmt.Errorf("clear certificates: %w", err)
		}
		certIDs := make([]string, 0, len(upd.Certificates))
		for _, c := range upd.Certificates {
			cert, err := s.sponsorRepo.FindOrCreateCertificate(ctx, c.Title, c.URL)
			if err != nil {
				return nil, fmt.Errorf("find or create certificate: %w", err)
			}
			certIDs = append(certIDs, cert.ID)
		}
		if err := s.sponsorRepo.LinkCertificates(ctx, id, certIDs); err != nil {
			return nil, fmt.Errorf("link certificates: %w", err)
		}
	}

	s.cache.invalidate()
	return s.sponsorRepo.GetDetail(ctx, id)
}

func (s *sponsorService) ToggleSponsorStatus(ctx context.Context, id string) (*domain.Sponsor, error) {
	sp, err := s.sponsorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor: %w", err)
	}
	next, ok := sp.Status.Toggled()
	if !ok {
		return sp, nil
	}
	updated, err := s.sponsorRepo.SetStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("set sponsor status: %w", err)
	}
	s.cache.invalidate()
	return updated, nil
}

func (s *sponsorService) CreatePost(ctx context.Context, p *domain.SponsorPost) (*domain.SponsorPost, error) {
	if _, err := s.sponsorRepo.GetByID(ctx, p.SponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: sponsor not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get sponsor: %w", err)
	}
	now := s.now()
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create sponsor post: %w", err)
	}
	s.cache.invalidate()
	return p, nil
}

func (s *sponsorService) ListPosts(ctx context.Context) ([]*domain.SponsorPost, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sponsor posts: %w", err)
	}
	return posts, nil
}

func (s *sponsorService) GetPost(ctx context.Context, id string) (*domain.SponsorPost, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor post: %w", err)
	}
	return p, nil
}

func (s *sponsorService) TogglePostStatus(ctx context.Context, id string) (*domain.SponsorPost, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor post: %w", err)
	}
	next, ok := p.Status.Toggled()
	if !ok {
		return p, nil
	}
	updated, err := s.postRepo.SetStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("set sponsor post status: %w", err)
	}
	s.cache.invalidate()
	return updated, nil
}

func (s *sponsorService) CreateOffer(ctx context.Context, o *domain.SponsorOffer) (*domain.SponsorOffer, error) {
	if _, err := s.sponsorRepo.GetByID(ctx, o.SponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: sponsor not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get sponsor: %w", err)
	}
	now := s.now()
	if o.Status == "" {
		o.Status = domain.StatusActive
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	if err := s.offerRepo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create sponsor offer: %w", err)
	}
	s.cache.invalidate()
	return o, nil
}

func (s *sponsorService) ListOffers(ctx context.Context) ([]*domain.SponsorOffer, error) {
	offers, err := s.offerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sponsor offers: %w", err)
	}
	return offers, nil
}

func (s *sponsorService) GetOffer(ctx context.Context, id string) (*domain.SponsorOffer, error) {
	o, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor offer: %w", err)
	}
	return o, nil
}

func (s *sponsorService) ToggleOfferStatus(ctx context.Context, id string) (*domain.SponsorOffer, error) {
	o, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor offer: %w", err)
	}
	next, ok := o.Status.Toggled()
	if !ok {
		return o, nil
	}
	updated, err := s.offerRepo.SetStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("set sponsor offer status: %w", err)
	}
	s.cache.invalidate()
	return updated, nil
}

func (s *sponsorService) ListCertificates(ctx context.Context) ([]*domain.Certificate, error) {
	certs, err := s.sponsorRepo.ListCertificates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

func (s *sponsorService) RemoveCertificates(ctx context.Context, sponsorID string, certIDs []string) error {
	if _, err := s.sponsorRepo.GetByID(ctx, sponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: sponsor not found", domain.ErrNotFound)
		}
		return fmt.Errorf("get sponsor: %w", err)
	}
	if err := s.sponsorRepo.UnlinkCertificates(ctx, sponsorID, certIDs); err != nil {
		return fmt.Errorf("unlink certificates: %w", err)
	}
	s.cache.invalidate()
	return nil
}
