package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"communityhub/internal/domain"
)

const sponsorColumns = `id, user_id, company_name, website_url, logo_url, status, created_at, updated_at`

type sponsorRepository struct {
	DB *sql.DB
}

func NewSponsorRepository(db *sql.DB) domain.SponsorRepository {
	return &sponsorRepository{
		DB: db,
	}
}

func scanSponsor(row interface{ Scan(...any) error }) (*domain.Sponsor, error) {
	s := &domain.Sponsor{}
	var websiteNull, logoNull sql.NullString
	err := row.Scan(
		&s.ID, &s.UserID, &s.CompanyName, &websiteNull, &logoNull, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if websiteNull.Valid {
		s.WebsiteURL = websiteNull.String
	}
	if logoNull.Valid {
		s.LogoURL = logoNull.String
	}
	return s, nil
}

func (r *sponsorRepository) Create(ctx context.Context, s *domain.Sponsor) error {
	query := `
		INSERT INTO sponsors (user_id, company_name, website_url, logo_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		s.UserID, s.CompanyName, nullString(s.WebsiteURL), nullString(s.LogoURL), s.Status, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return mapUserConstraint(err)
	}
	return nil
}

func (r *sponsorRepository) GetByID(ctx context.Context, id string) (*domain.Sponsor, error) {
	query := `SELECT ` + sponsorColumns + ` FROM sponsors WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *sponsorRepository) GetByUserID(ctx context.Context, userID string) (*domain.Sponsor, error) {
	query := `SELECT ` + sponsorColumns + ` FROM sponsors WHERE user_id = $1`
	return r.getOne(ctx, query, userID)
}

func (r *sponsorRepository) getOne(ctx context.Context, query string, arg any) (*domain.Sponsor, error) {
	s, err := scanSponsor(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sponsorRepository) ListAll(ctx context.Context) ([]*domain.SponsorListing, error) {
	query := `
		SELECT s.id, s.user_id, s.company_name, s.website_url, s.logo_url, s.status, s.created_at, s.updated_at,
		       u.country, u.email
		FROM sponsors s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	listings := make([]*domain.SponsorListing, 0)
	for rows.Next() {
		s := &domain.Sponsor{}
		contact := &domain.SponsorContact{}
		var websiteNull, logoNull sql.NullString
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.CompanyName, &websiteNull, &logoNull, &s.Status, &s.CreatedAt, &s.UpdatedAt,
			&contact.Country, &contact.Email,
		); err != nil {
			return nil, err
		}
		if websiteNull.Valid {
			s.WebsiteURL = websiteNull.String
		}
		if logoNull.Valid {
			s.LogoURL = logoNull.String
		}
		listings = append(listings, &domain.SponsorListing{Sponsor: s, User: contact})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, l := range listings {
		if l.Descriptions, err = r.listDescriptions(ctx, l.ID); err != nil {
			return nil, err
		}
		if l.Certificates, err = r.listSponsorCertificates(ctx, l.ID); err != nil {
			return nil, err
		}
	}
	return listings, nil
}

func (r *sponsorRepository) GetDetail(ctx context.Context, id string) (*domain.SponsorDetail, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.buildDetail(ctx, s)
}

func (r *sponsorRepository) GetDetailByUserID(ctx context.Context, userID string) (*domain.SponsorDetail, error) {
	s, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.buildDetail(ctx, s)
}

func (r *sponsorRepository) buildDetail(ctx context.Context, s *domain.Sponsor) (*domain.SponsorDetail, error) {
	detail := &domain.SponsorDetail{Sponsor: s}

	userQuery := `
		SELECT id, first_name, last_name, username, email, COALESCE(profile_picture_url, '')
		FROM users WHERE id = $1
	`
	u := &domain.UserSummary{}
	err := r.DB.QueryRowContext(ctx, userQuery, s.UserID).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.ProfilePictureURL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		detail.User = u
	}

	if detail.Posts, err = r.listChildPosts(ctx, s.ID); err != nil {
		return nil, err
	}
	if detail.Offers, err = r.listChildOffers(ctx, s.ID); err != nil {
		return nil, err
	}
	if detail.Descriptions, err = r.listDescriptions(ctx, s.ID); err != nil {
		return nil, err
	}
	if detail.Certificates, err = r.listSponsorCertificates(ctx, s.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *sponsorRepository) listChildPosts(ctx context.Context, sponsorID string) ([]*domain.SponsorPost, error) {
	query := `SELECT ` + sponsorPostColumns + ` FROM sponsor_posts WHERE sponsor_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, sponsorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := make([]*domain.SponsorPost, 0)
	for rows.Next() {
		p, err := scanSponsorPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *sponsorRepository) listChildOffers(ctx context.Context, sponsorID string) ([]*domain.SponsorOffer, error) {
	query := `SELECT ` + sponsorOfferColumns + ` FROM sponsor_offers WHERE sponsor_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, sponsorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	offers := make([]*domain.SponsorOffer, 0)
	for rows.Next() {
		o, err := scanSponsorOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *sponsorRepository) listDescriptions(ctx context.Context, sponsorID string) ([]*domain.SponsorDescription, error) {
	query := `SELECT id, sponsor_id, title, description FROM sponsor_descriptions WHERE sponsor_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, sponsorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	descs := make([]*domain.SponsorDescription, 0)
	for rows.Next() {
		d := &domain.SponsorDescription{}
		if err := rows.Scan(&d.ID, &d.SponsorID, &d.Title, &d.Description); err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, rows.Err()
}

func (r *sponsorRepository) listSponsorCertificates(ctx context.Context, sponsorID string) ([]*domain.Certificate, error) {
	query := `
		SELECT c.id, c.title, c.url
		FROM certificates c
		JOIN sponsor_certificates sc ON sc.certificate_id = c.id
		WHERE sc.sponsor_id = $1
		ORDER BY c.title
	`
	rows, err := r.DB.QueryContext(ctx, query, sponsorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	certs := make([]*domain.Certificate, 0)
	for rows.Next() {
		c := &domain.Certificate{}
		if err := rows.Scan(&c.ID, &c.Title, &c.URL); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

func (r *sponsorRepository) Update(ctx context.Context, id string, upd domain.SponsorUpdate) error {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.CompanyName != nil {
		setClauses = append(setClauses, fmt.Sprintf("company_name = $%d", n))
		args = append(args, *upd.CompanyName)
		n++
	}
	if upd.WebsiteURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("website_url = $%d", n))
		args = append(args, *upd.WebsiteURL)
		n++
	}
	if upd.LogoURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("logo_url = $%d", n))
		args = append(args, *upd.LogoURL)
		n++
	}
	if n == 1 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE sponsors SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), n)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sponsorRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Sponsor, error) {
	query := `
		UPDATE sponsors SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + sponsorColumns
	s, err := scanSponsor(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sponsorRepository) ReplaceDescriptions(ctx context.Context, sponsorID string, descs []*domain.SponsorDescription) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sponsor_descriptions WHERE sponsor_id = $1`, sponsorID); err != nil {
		return err
	}
	for _, d := range descs {
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO sponsor_descriptions (sponsor_id, title, description) VALUES ($1, $2, $3)`,
			sponsorID, d.Title, d.Description,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindOrCreateCertificate reuses an existing certificate with the same title
// and url, creating it otherwise. Certificates are shared across sponsors.
func (r *sponsorRepository) FindOrCreateCertificate(ctx context.Context, title, url string) (*domain.Certificate, error) {
	c := &domain.Certificate{Title: title, URL: url}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM certificates WHERE title = $1 AND url = $2`, title, url,
	).Scan(&c.ID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	err = r.DB.QueryRowContext(ctx,
		`INSERT INTO certificates (title, url) VALUES ($1, $2) RETURNING id`, title, url,
	).Scan(&c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *sponsorRepository) LinkCertificates(ctx context.Context, sponsorID string, certIDs []string) error {
	for _, certID := range certIDs {
		_, err := r.DB.ExecContext(ctx, `
			INSERT INTO sponsor_certificates (sponsor_id, certificate_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, sponsorID, certID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *sponsorRepository) UnlinkCertificates(ctx context.Context, sponsorID string, certIDs []string) error {
	for _, certID := range certIDs {
		_, err := r.DB.ExecContext(ctx,
			`DELETE FROM sponsor_certificates WHERE sponsor_id = $1 AND certificate_id = $2`,
			sponsorID, certID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *sponsorRepository) ClearCertificates(ctx context.Context, sponsorID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sponsor_certificates WHERE sponsor_id = $1`, sponsorID)
	return err
}

func (r *sponsorRepository) ListCertificates(ctx context.Context) ([]*domain.Certificate, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, title, url FROM certificates ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	certs := make([]*domain.Certificate, 0)
	for rows.Next() {
		c := &domain.Certificate{}
		if err := rows.Scan(&c.ID, &c.Title, &c.URL); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}
