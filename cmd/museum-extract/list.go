package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/extract"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/pipeline"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List buckets or bucket objects",
}

var listBucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Print the name of every visible bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		storage, _, err := pipeline.OpenStorage(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		names, err := extract.GetBucketNames(cmd.Context(), storage)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var listObjectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "Print the keys the extract step would download",
	Long: `Objects prints the keys of the bucket that match the exhibition or history
patterns, in listing order. With --all every key is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		bucket, _ := bucketAndFolder(cmd)
		all, _ := cmd.Flags().GetBool("all")

		storage, _, err := pipeline.OpenStorage(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		keys, err := extract.GetBucketObjects(cmd.Context(), storage, bucket)
		if err != nil {
			return err
		}
		if !all {
			keys = extract.FilterKeys(keys)
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

func init() {
	listObjectsCmd.Flags().String("bucket", "", "bucket to list (default from storage.bucket)")
	listObjectsCmd.Flags().Bool("all", false, "print every key, not only matching ones")

	listCmd.AddCommand(listBucketsCmd, listObjectsCmd)
	rootCmd.AddCommand(listCmd)
}
