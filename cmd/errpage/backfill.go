package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-errpage-embed/internal/repo"
	"github.com/tbourn/go-errpage-embed/internal/services"
)

func (a *app) backfillCmd() *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Link stored reports to their groups once and exit",
		Long: `Run a single backfill pass: reports stored before their event was
ingested are linked to the event's group. Reports older than
BACKFILL_MAX_AGE are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := repo.Open(a.cfg)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer func() { _ = closeDB(db) }()

			bcfg := a.cfg.Backfill
			if batch > 0 {
				bcfg.BatchSize = batch
			}
			ctx := a.logger.WithContext(cmd.Context())
			n, err := services.NewGroupBackfiller(db, bcfg).RunOnce(ctx)
			a.logger.Info().Int("linked", n).Msg("backfill done")
			fmt.Fprintf(cmd.OutOrStdout(), "linked %d reports\n", n)
			return err
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 0, "override BACKFILL_BATCH for this run")
	return cmd
}
