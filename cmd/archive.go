package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var archiveProvider string

// archiveCmd is the parent command for feed archive operations.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the raw feed archive",
}

// archiveListCmd lists archived feeds.
var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived provider feeds, newest first",
	RunE:  runArchiveList,
}

func init() {
	archiveListCmd.Flags().StringVar(&archiveProvider, "provider", "", "Only list feeds of this provider")
	archiveCmd.AddCommand(archiveListCmd)
	RootCmd.AddCommand(archiveCmd)
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	archive, err := openArchive(ctx, cfg, l)
	if err != nil {
		return err
	}
	if archive == nil {
		return errors.New("feed archive is disabled (set STORAGE_ENABLED=true)")
	}

	feeds, err := archive.List(ctx, archiveProvider)
	if err != nil {
		return err
	}

	for _, f := range feeds {
		l.Info("Archived feed",
			zap.String("key", f.Key),
			zap.Int64("size", f.Size),
			zap.Time("last_modified", f.LastModified),
		)
	}
	l.Info("Archive listing complete", zap.Int("feeds", len(feeds)))
	return nil
}
