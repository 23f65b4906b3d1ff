package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Download the matching files, then merge the CSV files",
	Long: `Run checks that the bucket exists, downloads every exhibition descriptor
and numbered history file into the folder, then merges all CSV files in the
folder into the output file and deletes them. Metrics are written to
metrics.textfile when it is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		bucket, folder := bucketAndFolder(cmd)
		cfg.Storage.Bucket = bucket
		cfg.Local.Folder = folder

		result, err := pipeline.Run(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run %s: downloaded %d of %d objects (%d bytes)\n",
			result.RunID, len(result.Download.Files), result.Download.Listed, result.Download.Bytes)
		fmt.Fprintf(out, "merged %d files (%d skipped) into %s: %d rows, %d columns\n",
			len(result.Merge.Merged), len(result.Merge.Skipped), result.Merge.Output,
			result.Merge.Rows, result.Merge.Columns)
		return nil
	},
}

func init() {
	runCmd.Flags().String("bucket", "", "bucket to read (default from storage.bucket)")
	runCmd.Flags().String("folder", "", "local folder (default from local.folder)")

	rootCmd.AddCommand(runCmd)
}
