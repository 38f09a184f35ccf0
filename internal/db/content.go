package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/portfolio/internal/types"
)

const projectColumns = `id, title, category, description, long_description, image, video_url,
	technologies, features, github_url, live_url, duration, team_size, role, status`

const certificateColumns = `id, title, issuer, issued, image, credential_id, credential_url,
	skills, description, verified`

// -----------------------------------------------------------------------------
// Personal info
// -----------------------------------------------------------------------------

// GetPersonalInfo returns the owner profile, or nil if none has been stored.
func (db *DB) GetPersonalInfo(ctx context.Context) (*types.PersonalInfo, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx, `SELECT content FROM personal_info WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get personal info: %w", err)
	}

	var info types.PersonalInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to decode personal info: %w", err)
	}
	return &info, nil
}

// SavePersonalInfo replaces the owner profile.
func (db *DB) SavePersonalInfo(ctx context.Context, info *types.PersonalInfo) error {
	return savePersonalInfo(ctx, db.pool, info)
}

func savePersonalInfo(ctx context.Context, q querier, info *types.PersonalInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal personal info: %w", err)
	}
	_, err = q.Exec(ctx,
		`INSERT INTO personal_info (id, content) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET content = $1, updated_at = NOW()`,
		raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save personal info: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Projects
// -----------------------------------------------------------------------------

func scanProject(row pgx.Row) (types.Project, error) {
	var p types.Project
	err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Description, &p.LongDescription, &p.Image, &p.VideoURL,
		&p.Technologies, &p.Features, &p.GitHubURL, &p.LiveURL, &p.Duration, &p.TeamSize, &p.Role, &p.Status)
	return p, err
}

// ListProjects returns projects in display order, optionally restricted to one category.
func (db *DB) ListProjects(ctx context.Context, category string) ([]types.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY sort_order, id`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []types.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project by id, or nil if it does not exist.
func (db *DB) GetProject(ctx context.Context, id int) (*types.Project, error) {
	p, err := scanProject(db.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// -----------------------------------------------------------------------------
// Skills
// -----------------------------------------------------------------------------

// ListSkills returns every skill in display order.
func (db *DB) ListSkills(ctx context.Context) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name, category, proficiency, icon FROM skills ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	skills := []types.Skill{}
	for rows.Next() {
		var s types.Skill
		if err := rows.Scan(&s.Name, &s.Category, &s.Proficiency, &s.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate skills: %w", err)
	}
	return skills, nil
}

// -----------------------------------------------------------------------------
// Certificates
// -----------------------------------------------------------------------------

func scanCertificate(row pgx.Row) (types.Certificate, error) {
	var c types.Certificate
	err := row.Scan(&c.ID, &c.Title, &c.Issuer, &c.Date, &c.Image, &c.CredentialID, &c.CredentialURL,
		&c.Skills, &c.Description, &c.Verified)
	return c, err
}

// ListCertificates returns every certificate in display order.
func (db *DB) ListCertificates(ctx context.Context) ([]types.Certificate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+certificateColumns+` FROM certificates ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer rows.Close()

	certs := []types.Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate certificates: %w", err)
	}
	return certs, nil
}

// GetCertificate returns a certificate by id, or nil if it does not exist.
func (db *DB) GetCertificate(ctx context.Context, id int) (*types.Certificate, error) {
	c, err := scanCertificate(db.pool.QueryRow(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return &c, nil
}
