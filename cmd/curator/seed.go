package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zatekoja/learnplan/internal/adapters/catalogfile"
	"github.com/zatekoja/learnplan/internal/adapters/database"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	"github.com/zatekoja/learnplan/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/learnplan/pkg/config"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

// SeedCmd loads a YAML catalog into PostgreSQL
func SeedCmd() *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the curated catalog into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := catalogfile.Load(catalogPath)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client, err := postgres.NewClient(&cfg.Database)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			if err := database.EnsureSchema(ctx, client); err != nil {
				return err
			}

			created, skipped, err := seedResources(ctx, database.NewResourceAdapter(client), resources)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d resources, %d already present\n", created, skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "data/catalog.yaml", "Path to the catalog YAML file")
	return cmd
}

// seedResources inserts every resource, counting URL conflicts as skipped
func seedResources(ctx context.Context, repo repositories.ResourceRepository, resources []*entities.Resource) (created, skipped int, err error) {
	for _, r := range resources {
		if err := repo.Create(ctx, r); err != nil {
			if apperrors.IsConflict(err) {
				skipped++
				log.Debug().Str("url", r.URL).Msg("resource already seeded")
				continue
			}
			return created, skipped, fmt.Errorf("seed %q: %w", r.Title, err)
		}
		created++
	}
	return created, skipped, nil
}

// loadInto copies a catalog file into repo and reports how many entries it held
func loadInto(ctx context.Context, repo repositories.ResourceRepository, path string, out io.Writer) (int, error) {
	resources, err := catalogfile.Load(path)
	if err != nil {
		return 0, err
	}
	created, skipped, err := seedResources(ctx, repo, resources)
	if err != nil {
		return 0, err
	}
	if skipped > 0 {
		fmt.Fprintf(out, "skipped %d duplicate catalog entries\n", skipped)
	}
	return created, nil
}
