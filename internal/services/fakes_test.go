package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"communityhub/internal/domain"
)

// fakeActivityRepo implements domain.ActivityRepository for tests.
type fakeActivityRepo struct {
	byID        map[string]*domain.Activity
	bulkErr     error
	bulkCalls   [][]string
	statusCalls []domain.Status
}

func newFakeActivityRepo(activities ...*domain.Activity) *fakeActivityRepo {
	f := &fakeActivityRepo{byID: make(map[string]*domain.Activity)}
	for _, a := range activities {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = fmt.Sprintf("activity-%d", len(f.byID)+1)
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeActivityRepo) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	var out []*domain.Activity
	for _, a := range f.byID {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeActivityRepo) ListUpcoming(ctx context.Context, from time.Time) ([]*domain.Activity, error) {
	var out []*domain.Activity
	for _, a := range f.byID {
		if !a.Date.Before(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) Update(ctx context.Context, id string, upd domain.ActivityUpdate) (*domain.Activity, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.Date != nil {
		a.Date = *upd.Date
	}
	return a, nil
}

func (f *fakeActivityRepo) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Activity, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Status = status
	f.statusCalls = append(f.statusCalls, status)
	return a, nil
}

func (f *fakeActivityRepo) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	f.bulkCalls = append(f.bulkCalls, ids)
	if f.bulkErr != nil {
		return f.bulkErr
	}
	for _, id := range ids {
		if a, ok := f.byID[id]; ok {
			a.Status = status
		}
	}
	return nil
}

func (f *fakeActivityRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeRegistrationRepo implements domain.RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	pairs     map[string]struct{}
	createErr error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{pairs: make(map[string]struct{})}
}

func regKey(activityID, userID string) string { return activityID + "/" + userID }

func (f *fakeRegistrationRepo) Create(ctx context.Context, activityID, userID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	key := regKey(activityID, userID)
	if _, ok := f.pairs[key]; ok {
		return domain.ErrConflict
	}
	f.pairs[key] = struct{}{}
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, activityID, userID string) error {
	delete(f.pairs, regKey(activityID, userID))
	return nil
}

func (f *fakeRegistrationRepo) Exists(ctx context.Context, activityID, userID string) (bool, error) {
	_, ok := f.pairs[regKey(activityID, userID)]
	return ok, nil
}

func (f *fakeRegistrationRepo) ListUsersByActivity(ctx context.Context, activityID string) ([]*domain.UserSummary, error) {
	var out []*domain.UserSummary
	prefix := activityID + "/"
	for key := range f.pairs {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, &domain.UserSummary{ID: key[len(prefix):]})
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListActivitiesByUser(ctx context.Context, userID string) ([]*domain.Activity, error) {
	return nil, nil
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	createErr error
	updates   []domain.UserUpdate
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
	for _, u := range users {
		f.byID[u.ID] = u
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byID {
		if filter.Country != nil && u.Country != *filter.Country {
			continue
		}
		if filter.Membership != nil && u.Membership != *filter.Membership {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.updates = append(f.updates, upd)
	if upd.Country != nil {
		u.Country = *upd.Country
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	return u, nil
}

func (f *fakeUserRepo) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Role = role
	return u, nil
}

func (f *fakeUserRepo) SetProfilePicture(ctx context.Context, id string, url string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.ProfilePictureURL = url
	return u, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int, error) { return len(f.byID), nil }

func (f *fakeUserRepo) CountByCountry(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int)
	for _, u := range f.byID {
		out[u.Country]++
	}
	return out, nil
}

func (f *fakeUserRepo) CountByMembership(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int)
	for _, u := range f.byID {
		out[string(u.Membership)]++
	}
	return out, nil
}

// fakeEmailService records sent emails and can be told to fail.
type fakeEmailService struct {
	mu            sync.Mutex
	welcomeErr    error
	welcomes      []*domain.WelcomeEmailData
	registrations []*domain.ActivityRegistrationEmailData
	regSent       chan struct{}
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{regSent: make(chan struct{}, 8)}
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.welcomeErr != nil {
		return f.welcomeErr
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

func (f *fakeEmailService) SendActivityRegistration(ctx context.Context, data *domain.ActivityRegistrationEmailData) error {
	f.mu.Lock()
	f.registrations = append(f.registrations, data)
	f.mu.Unlock()
	f.regSent <- struct{}{}
	return nil
}

func (f *fakeEmailService) sentRegistrations() []*domain.ActivityRegistrationEmailData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.ActivityRegistrationEmailData(nil), f.registrations...)
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) { return "hash-" + password, nil }

func (fakePasswordHasher) Compare(hash, password string) error {
	if hash != "hash-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	roles []string
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	f.roles = roles
	return "token-" + userID, nil
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	byID    map[string]*domain.Event
	bulkErr error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = fmt.Sprintf("event-%d", len(f.byID)+1)
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string, typ domain.EventType) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok && e.Type == typ {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if filter.Type != nil && e.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, typ domain.EventType, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok || e.Type != typ {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	return e, nil
}

func (f *fakeEventRepo) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	return e, nil
}

func (f *fakeEventRepo) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			e.Status = status
		}
	}
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeNewsRepo implements domain.NewsRepository for tests.
type fakeNewsRepo struct {
	byID map[string]*domain.News
}

func newFakeNewsRepo(entries ...*domain.News) *fakeNewsRepo {
	f := &fakeNewsRepo{byID: make(map[string]*domain.News)}
	for _, n := range entries {
		f.byID[n.ID] = n
	}
	return f
}

func (f *fakeNewsRepo) Create(ctx context.Context, n *domain.News) error {
	if n.ID == "" {
		n.ID = fmt.Sprintf("news-%d", len(f.byID)+1)
	}
	f.byID[n.ID] = n
	return nil
}

func (f *fakeNewsRepo) GetByID(ctx context.Context, id string) (*domain.News, error) {
	if n, ok := f.byID[id]; ok {
		return n, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNewsRepo) ListByType(ctx context.Context, typ domain.NewsType, status domain.Status) ([]*domain.News, error) {
	var out []*domain.News
	for _, n := range f.byID {
		if n.Type == typ && n.Status == status {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNewsRepo) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.News, error) {
	var out []*domain.News
	for _, n := range f.byID {
		if n.Status == status {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNewsRepo) Update(ctx context.Context, id string, upd domain.NewsUpdate) (*domain.News, error) {
	n, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	return n, nil
}

func (f *fakeNewsRepo) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.News, error) {
	n, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	n.Status = status
	return n, nil
}

// fakeSponsorRepo implements domain.SponsorRepository for tests.
type fakeSponsorRepo struct {
	byID      map[string]*domain.Sponsor
	details   map[string]*domain.SponsorDetail
	listings  []*domain.SponsorListing
	listCalls int
	certs     map[string]*domain.Certificate
	links     map[string][]string
	descs     map[string][]*domain.SponsorDescription
}

func newFakeSponsorRepo(sponsors ...*domain.Sponsor) *fakeSponsorRepo {
	f := &fakeSponsorRepo{
		byID:    make(map[string]*domain.Sponsor),
		details: make(map[string]*domain.SponsorDetail),
		certs:   make(map[string]*domain.Certificate),
		links:   make(map[string][]string),
		descs:   make(map[string][]*domain.SponsorDescription),
	}
	for _, s := range sponsors {
		f.byID[s.ID] = s
		f.details[s.ID] = &domain.SponsorDetail{Sponsor: s}
	}
	return f
}

func (f *fakeSponsorRepo) Create(ctx context.Context, s *domain.Sponsor) error {
	for _, existing := range f.byID {
		if existing.UserID == s.UserID {
			return domain.ErrConflict
		}
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("sponsor-%d", len(f.byID)+1)
	}
	f.byID[s.ID] = s
	f.details[s.ID] = &domain.SponsorDetail{Sponsor: s}
	return nil
}

func (f *fakeSponsorRepo) GetByID(ctx context.Context, id string) (*domain.Sponsor, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorRepo) GetByUserID(ctx context.Context, userID string) (*domain.Sponsor, error) {
	for _, s := range f.byID {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorRepo) ListAll(ctx context.Context) ([]*domain.SponsorListing, error) {
	f.listCalls++
	return append([]*domain.SponsorListing(nil), f.listings...), nil
}

func (f *fakeSponsorRepo) GetDetail(ctx context.Context, id string) (*domain.SponsorDetail, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorRepo) GetDetailByUserID(ctx context.Context, userID string) (*domain.SponsorDetail, error) {
	for _, d := range f.details {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorRepo) Update(ctx context.Context, id string, upd domain.SponsorUpdate) error {
	s, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if upd.CompanyName != nil {
		s.CompanyName = *upd.CompanyName
	}
	return nil
}

func (f *fakeSponsorRepo) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Sponsor, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Status = status
	return s, nil
}

func (f *fakeSponsorRepo) ReplaceDescriptions(ctx context.Context, sponsorID string, descs []*domain.SponsorDescription) error {
	f.descs[sponsorID] = descs
	return nil
}

func (f *fakeSponsorRepo) FindOrCreateCertificate(ctx context.Context, title, url string) (*domain.Certificate, error) {
	key := title + "/" + url
	if c, ok := f.certs[key]; ok {
		return c, nil
	}
	c := &domain.Certificate{ID: fmt.Sprintf("cert-%d", len(f.certs)+1), Title: title, URL: url}
	f.certs[key] = c
	return c, nil
}

func (f *fakeSponsorRepo) LinkCertificates(ctx context.Context, sponsorID string, certIDs []string) error {
	f.links[sponsorID] = append(f.links[sponsorID], certIDs...)
	return nil
}

func (f *fakeSponsorRepo) UnlinkCertificates(ctx context.Context, sponsorID string, certIDs []string) error {
	remove := make(map[string]struct{}, len(certIDs))
	for _, id := range certIDs {
		remove[id] = struct{}{}
	}
	var kept []string
	for _, id := range f.links[sponsorID] {
		if _, ok := remove[id]; !ok {
			kept = append(kept, id)
		}
	}
	f.links[sponsorID] = kept
	return nil
}

func (f *fakeSponsorRepo) ClearCertificates(ctx context.Context, sponsorID string) error {
	f.links[sponsorID] = nil
	return nil
}

func (f *fakeSponsorRepo) ListCertificates(ctx context.Context) ([]*domain.Certificate, error) {
	var out []*domain.Certificate
	for _, c := range f.certs {
		out = append(out, c)
	}
	return out, nil
}

// fakeSponsorPostRepo implements domain.SponsorPostRepository for tests.
type fakeSponsorPostRepo struct {
	byID map[string]*domain.SponsorPost
}

func newFakeSponsorPostRepo(posts ...*domain.SponsorPost) *fakeSponsorPostRepo {
	f := &fakeSponsorPostRepo{byID: make(map[string]*domain.SponsorPost)}
	for _, p := range posts {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeSponsorPostRepo) Create(ctx context.Context, p *domain.SponsorPost) error {
	if p.ID == "" {
		p.ID = fmt.Sprintf("post-%d", len(f.byID)+1)
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeSponsorPostRepo) GetByID(ctx context.Context, id string) (*domain.SponsorPost, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorPostRepo) ListAll(ctx context.Context) ([]*domain.SponsorPost, error) {
	var out []*domain.SponsorPost
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeSponsorPostRepo) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.SponsorPost, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Status = status
	return p, nil
}

func (f *fakeSponsorPostRepo) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			p.Status = status
		}
	}
	return nil
}

// fakeSponsorOfferRepo implements domain.SponsorOfferRepository for tests.
type fakeSponsorOfferRepo struct {
	byID map[string]*domain.SponsorOffer
}

func newFakeSponsorOfferRepo(offers ...*domain.SponsorOffer) *fakeSponsorOfferRepo {
	f := &fakeSponsorOfferRepo{byID: make(map[string]*domain.SponsorOffer)}
	for _, o := range offers {
		f.byID[o.ID] = o
	}
	return f
}

func (f *fakeSponsorOfferRepo) Create(ctx context.Context, o *domain.SponsorOffer) error {
	if o.ID == "" {
		o.ID = fmt.Sprintf("offer-%d", len(f.byID)+1)
	}
	f.byID[o.ID] = o
	return nil
}

func (f *fakeSponsorOfferRepo) GetByID(ctx context.Context, id string) (*domain.SponsorOffer, error) {
	if o, ok := f.byID[id]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorOfferRepo) ListAll(ctx context.Context) ([]*domain.SponsorOffer, error) {
	var out []*domain.SponsorOffer
	for _, o := range f.byID {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeSponsorOfferRepo) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.SponsorOffer, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	return o, nil
}

func (f *fakeSponsorOfferRepo) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	for _, id := range ids {
		if o, ok := f.byID[id]; ok {
			o.Status = status
		}
	}
	return nil
}
