package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs/billy"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/pipeline"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the CSV files of the local folder",
	Long: `Merge concatenates every CSV file in the folder into the output file and
deletes the sources. Files that cannot be parsed are skipped with a warning
but still deleted. No storage credentials are needed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, folder := bucketAndFolder(cmd)

		p := pipeline.New(nil, billy.NewOSFS("."), pipeline.WithLogger(logger))
		report, err := p.Merge(cmd.Context(), folder, cfg.Merge.Output, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, skipped := range report.Skipped {
			fmt.Fprintf(out, "skipped %s: %s\n", skipped.Name, skipped.Reason)
		}
		fmt.Fprintf(out, "%s: %d rows, %d columns from %d files\n",
			report.Output, report.Rows, report.Columns, len(report.Merged))
		return nil
	},
}

func init() {
	mergeCmd.Flags().String("folder", "", "local folder (default from local.folder)")

	rootCmd.AddCommand(mergeCmd)
}
