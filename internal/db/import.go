package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/portfolio/internal/seed"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ImportCounts reports how many rows ImportDataset wrote per table.
type ImportCounts struct {
	Projects     int
	Skills       int
	Certificates int
}

// ImportDataset replaces all content tables with d inside a single transaction.
// Contact messages are left untouched.
func (db *DB) ImportDataset(ctx context.Context, d *seed.Dataset) (ImportCounts, error) {
	var counts ImportCounts
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		for _, table := range []string{"projects", "skills", "certificates"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if err := savePersonalInfo(ctx, tx, &d.PersonalInfo); err != nil {
			return err
		}

		for i, p := range d.Projects {
			_, err := tx.Exec(ctx,
				`INSERT INTO projects (id, title, category, description, long_description, image, video_url,
				   technologies, features, github_url, live_url, duration, team_size, role, status, sort_order)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
				p.ID, p.Title, p.Category, p.Description, p.LongDescription, p.Image, p.VideoURL,
				nonNil(p.Technologies), nonNil(p.Features), p.GitHubURL, p.LiveURL,
				p.Duration, p.TeamSize, p.Role, p.Status, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert project %d: %w", p.ID, err)
			}
			counts.Projects++
		}

		for i, s := range d.Skills {
			_, err := tx.Exec(ctx,
				`INSERT INTO skills (name, category, proficiency, icon, sort_order) VALUES ($1, $2, $3, $4, $5)`,
				s.Name, s.Category, s.Proficiency, s.Icon, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert skill %s: %w", s.Name, err)
			}
			counts.Skills++
		}

		for i, c := range d.Certificates {
			_, err := tx.Exec(ctx,
				`INSERT INTO certificates (id, title, issuer, issued, image, credential_id, credential_url,
				   skills, description, verified, sort_order)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				c.ID, c.Title, c.Issuer, c.Date, c.Image, c.CredentialID, c.CredentialURL,
				nonNil(c.Skills), c.Description, c.Verified, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert certificate %d: %w", c.ID, err)
			}
			counts.Certificates++
		}
		return nil
	})
	if err != nil {
		return ImportCounts{}, err
	}
	return counts, nil
}

// nonNil keeps NOT NULL array columns from receiving a NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
