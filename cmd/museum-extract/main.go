// Package main is the entry point for the museum-extract CLI, the extract
// step of the museum kiosk pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/config"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// Set by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "museum-extract",
	Short: "Download and merge the museum's kiosk data files",
	Long: `museum-extract pulls the exhibition descriptors (lmnh_exhibition_*.json)
and numbered history files (lmnh_hist_data_<n>.csv) from the museum's bucket
into a local folder, then merges every CSV in that folder into one
combined_file.csv for the transform step.

Configuration comes from defaults, then a YAML file (--config, or
museum-extract/config.yaml under the XDG config directories), then
MUSEUM_EXTRACT_* environment variables. The storage key pair is read from
AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY unless credentials.source is
secretsmanager.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("log-format") {
			loaded.Log.Format, _ = cmd.Flags().GetString("log-format")
		}
		if err := loaded.Validate(); err != nil {
			return err
		}

		l, err := logging.New(logging.Config{Level: loaded.Log.Level, Format: loaded.Log.Format})
		if err != nil {
			return errors.Wrap(err, errors.CodeInvalidConfig, "invalid logging configuration")
		}

		cfg = loaded
		logger = l.With(zap.String("command", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: $XDG_CONFIG_HOME/museum-extract/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or console")
}

// bucketAndFolder applies the --bucket and --folder overrides of cmd.
func bucketAndFolder(cmd *cobra.Command) (string, string) {
	bucket, folder := cfg.Storage.Bucket, cfg.Local.Folder
	if f := cmd.Flags().Lookup("bucket"); f != nil && f.Changed {
		bucket = f.Value.String()
	}
	if f := cmd.Flags().Lookup("folder"); f != nil && f.Changed {
		folder = f.Value.String()
	}
	return bucket, folder
}

func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "museum-extract: %v\n", err)
		os.Exit(errors.CodeOf(err).ExitCode())
	}
}
