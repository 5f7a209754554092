// cmd/seed/main.go loads a demo table of recommendations.
// Usage: go run ./cmd/seed [--reset]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"recommendations/internal/config"
	"recommendations/internal/infra"
	"recommendations/internal/model"
	"recommendations/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type demoRow struct {
	productID     int64
	recommendedID int64
	typ           model.RecommendationType
	status        model.Status
	like          int
	dislike       int
}

var demoRows = []demoRow{
	{1, 2, model.TypeCrossSell, model.StatusActive, 3, 0},
	{1, 3, model.TypeUpSell, model.StatusActive, 1, 1},
	{2, 4, model.TypeAccessory, model.StatusDraft, 0, 0},
	{3, 1, model.TypeCrossSell, model.StatusExpired, 7, 2},
	{4, 5, model.TypeUpSell, model.StatusActive, 0, 4},
	{5, 6, model.TypeAccessory, model.StatusActive, 2, 0},
}

// seed inserts demoRows, first deleting every stored recommendation when reset is set.
func seed(ctx context.Context, repo repository.RecommendationRepository, reset bool) (int, error) {
	if reset {
		existing, err := repo.FindByFilters(ctx, model.RecommendationFilter{})
		if err != nil {
			return 0, fmt.Errorf("list existing: %w", err)
		}
		for _, r := range existing {
			if err := repo.Delete(ctx, r.ID); err != nil {
				return 0, fmt.Errorf("delete %d: %w", r.ID, err)
			}
		}
		log.Info().Int("deleted", len(existing)).Msg("existing recommendations removed")
	}

	for i, row := range demoRows {
		rec, err := model.NewRecommendation(row.productID, row.recommendedID, row.typ, row.status)
		if err != nil {
			return i, err
		}
		if err := rec.SetLike(row.like); err != nil {
			return i, err
		}
		if err := rec.SetDislike(row.dislike); err != nil {
			return i, err
		}
		if err := repo.Create(ctx, rec); err != nil {
			return i, fmt.Errorf("create %s: %w", rec, err)
		}
	}
	return len(demoRows), nil
}

func newCommand() *cobra.Command {
	var (
		reset       bool
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo recommendations into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if databaseURL == "" {
				databaseURL = cfg.DatabaseURL
			}

			db, err := infra.NewDatabase(databaseURL, infra.PoolConfig{MaxOpenConns: 1})
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}

			n, err := seed(cmd.Context(), repository.NewRecommendationRepository(db), reset)
			if err != nil {
				return err
			}
			log.Info().Int("created", n).Msg("demo recommendations loaded")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "delete every recommendation before loading")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "override DATABASE_URL")
	return cmd
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}
