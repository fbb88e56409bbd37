package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// categoriesCmd lists the categories present in the content store.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List content categories and their candidate counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		categories, err := appInstance.ContentStore.Categories(ctx)
		if err != nil {
			return fmt.Errorf("error listing categories: %w", err)
		}
		if len(categories) == 0 {
			fmt.Println("No content loaded yet.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Category", "Items"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, cat := range categories {
			n, err := appInstance.ContentStore.CountByCategory(ctx, cat)
			if err != nil {
				return fmt.Errorf("error counting category %q: %w", cat, err)
			}
			table.Append([]string{cat, strconv.Itoa(n)})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
