package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovsx/storage/internal/logger"
	"github.com/ovsx/storage/internal/storage"
	"github.com/ovsx/storage/internal/storage/cos"
)

var janitorMaxAge time.Duration

var janitorCmd = &cobra.Command{
	Use:   "janitor",
	Short: "Abort stale multipart uploads once and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store := cos.NewService(logger.L, cfg.Storage)
		defer store.Close()
		if !store.IsEnabled() {
			return storage.ErrDisabled
		}

		maxAge := cfg.Storage.JanitorMaxAge
		if cmd.Flags().Changed("max-age") {
			maxAge = janitorMaxAge
		}
		n, err := cos.NewJanitor(logger.L, store, "", maxAge).RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "aborted %d stale uploads\n", n)
		return nil
	},
}

func init() {
	janitorCmd.Flags().DurationVar(&janitorMaxAge, "max-age", 0, "Override COS_JANITOR_MAX_AGE")
}
