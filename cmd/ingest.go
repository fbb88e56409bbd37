package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"memeforge/internal/ingest"
)

var (
	ingestSource     string
	ingestCategory   string
	ingestBackground bool
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Load a scraped CSV dataset into the content store",
	Long: `Reads a CSV dataset, cleans and deduplicates its rows, and loads them
into the content store. With --background the work is enqueued onto the
job queue instead of running inline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		path := args[0]

		if ingestBackground {
			taskID, err := appInstance.JobClient.EnqueueDatasetIngest(cmd.Context(), path, ingestSource, ingestCategory)
			if err != nil {
				return fmt.Errorf("failed to enqueue ingest: %w", err)
			}
			fmt.Printf("%s: task %s queued for %s\n", color.GreenString("ENQUEUED"), taskID, path)
			return nil
		}

		stats, err := appInstance.Ingestor.Run(cmd.Context(), ingest.Params{
			Path:            path,
			Source:          ingestSource,
			DefaultCategory: ingestCategory,
		})
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		fmt.Printf("%s: %d rows read, %d inserted, %d skipped\n",
			color.GreenString("DONE"), stats.Rows, stats.Inserted, stats.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestSource, "source", "s", "", "Source name for the dataset (required)")
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", "", "Default category for rows without one")
	ingestCmd.Flags().BoolVar(&ingestBackground, "background", false, "Enqueue the ingest as a background job")
	ingestCmd.MarkFlagRequired("source")
}
