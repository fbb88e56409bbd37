package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"memeforge/internal/models"
)

var (
	generateGenerator string
	generateMinScore  float64
	generateCount     int
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <category>",
	Short: "Select content for a category",
	Long: `Picks a generator for the category, scores its candidates and prints
the highest-quality item that has not been served recently.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		category := args[0]
		for i := 0; i < generateCount; i++ {
			sel, err := appInstance.Orchestrator.Select(cmd.Context(), models.SelectionRequest{
				Category: category,
				Hint:     generateGenerator,
				MinScore: generateMinScore,
			})
			if err != nil {
				if i > 0 {
					fmt.Printf("%s: stopped after %d selections: %v\n", color.YellowString("NOTE"), i, err)
					return nil
				}
				return fmt.Errorf("selection failed: %w", err)
			}

			fmt.Printf("%s  generator=%s  score=%.1f  id=%d\n",
				color.GreenString("SELECTED"), sel.Generator, sel.Score.Value, sel.Item.ID)
			fmt.Println(sel.Item.Body)
			if i < generateCount-1 {
				fmt.Println("---")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateGenerator, "generator", "g", "", "Prefer this generator if it is eligible")
	generateCmd.Flags().Float64Var(&generateMinScore, "min-score", 0, "Minimum acceptable raw score (0 uses the configured default)")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "Number of items to select")
}
