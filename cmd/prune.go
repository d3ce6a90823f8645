package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"event-catalog/feature/events/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for prune command
	pruneProvider  string
	pruneOlderThan time.Duration
	pruneDryRun    bool
	yesConfirm     bool
)

// pruneCmd deletes long-retired events.
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete events a provider stopped publishing long ago",
	Long: `Deletes the events of a provider that have been missing from every sync for longer
than the given age, together with their plans and zones. Sync never deletes; this is the only destructive path.

Examples:
  # Show what would be removed
  prune --provider fever_first_provider --dry-run

  # Remove events unseen for 90 days (non-interactive)
  prune --provider fever_first_provider --older-than 2160h --yes`,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVar(&pruneProvider, "provider", "", "Provider whose events are pruned (required)")
	pruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 30*24*time.Hour, "Minimum time an event has been missing from the feed")
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Only count the events that would be removed")
	pruneCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	_ = pruneCmd.MarkFlagRequired("provider")
	RootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if pruneOlderThan <= 0 {
		return errors.New("--older-than must be positive")
	}

	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := connectStore(cfg)
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-pruneOlderThan)

	var candidates int64
	if err := db.Model(&models.Event{}).
		Where("provider_name = ? AND stale_since IS NOT NULL AND stale_since < ?", pruneProvider, cutoff).
		Count(&candidates).Error; err != nil {
		return fmt.Errorf("failed to count candidates: %w", err)
	}

	l.Info("Prune report",
		zap.String("provider", pruneProvider),
		zap.Time("cutoff", cutoff),
		zap.Int64("events", candidates),
	)

	if candidates == 0 {
		l.Info("Nothing to prune.")
		return nil
	}
	if pruneDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	removed, err := newRepository(cfg, db, l).PruneStale(ctx, pruneProvider, cutoff)
	if err != nil {
		return err
	}
	l.Info("Successfully pruned events", zap.Int64("count", removed))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
