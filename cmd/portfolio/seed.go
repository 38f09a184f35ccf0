package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/seed"
)

func newSeedCmd(load configLoader) *cobra.Command {
	var (
		dir     string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the content dataset into PostgreSQL",
		Long: `Replaces the personal info, projects, skills and certificates tables with a dataset.
Without --dir the bundled dataset is imported. With --dir, the directory must contain
data/personal_info.json, data/projects.json, data/skills.json and data/certificates.json.
Contact messages are never touched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cfg.Database.URL == "" {
				return fmt.Errorf("database.url (or DATABASE_URL) is required")
			}

			dataset, err := loadDataset(dir)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			database, err := db.Connect(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer database.Close()

			if migrate {
				if err := database.Migrate(ctx); err != nil {
					return err
				}
			}

			counts, err := database.ImportDataset(ctx, dataset)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintImportCounts(counts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory holding a data/ folder of JSON documents")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply database migrations before importing")
	return cmd
}

// loadDataset reads and validates a dataset from dir, or returns the bundled one.
func loadDataset(dir string) (*seed.Dataset, error) {
	if dir == "" {
		return seed.Default()
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("dataset directory not found: %s", dir)
	}
	return seed.Parse(dirSource{os.DirFS(dir)})
}

type dirSource struct{ fs.FS }

func (d dirSource) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(d.FS, name)
}
