package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// generatorsCmd represents the base command for generator inspection
var generatorsCmd = &cobra.Command{
	Use:   "generators",
	Short: "Inspect the generator registry",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var listGeneratorsCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered generators",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		specs := appInstance.Registry.All()
		if len(specs) == 0 {
			fmt.Println("No generators registered.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Source", "Weight", "Categories", "Enabled"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, g := range specs {
			table.Append([]string{
				g.Name,
				g.Source,
				strconv.FormatFloat(g.Weight, 'f', 1, 64),
				strings.Join(g.Categories, ", "),
				strconv.FormatBool(g.Enabled),
			})
		}
		table.Render()
		return nil
	},
}

var reloadGeneratorsCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload generator specs from configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if err := appInstance.ReloadGenerators(); err != nil {
			return fmt.Errorf("reload rejected: %w", err)
		}
		fmt.Printf("Reloaded %d generators.\n", len(appInstance.Registry.All()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generatorsCmd)
	generatorsCmd.AddCommand(listGeneratorsCmd)
	generatorsCmd.AddCommand(reloadGeneratorsCmd)
}
