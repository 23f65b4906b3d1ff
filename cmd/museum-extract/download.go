package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/pipeline"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the matching files without merging",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		bucket, folder := bucketAndFolder(cmd)

		storage, filesystem, err := pipeline.OpenStorage(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		report, err := pipeline.New(storage, filesystem, pipeline.WithLogger(logger)).
			Download(cmd.Context(), bucket, folder, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, file := range report.Files {
			fmt.Fprintln(out, file)
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().String("bucket", "", "bucket to read (default from storage.bucket)")
	downloadCmd.Flags().String("folder", "", "local folder (default from local.folder)")

	rootCmd.AddCommand(downloadCmd)
}
