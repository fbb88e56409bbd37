package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"memeforge/internal/app"
	"memeforge/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "memeforge",
	Short: "Memeforge content selection service",
	Long: `Memeforge selects ready-to-post text from pre-scraped datasets,
scoring candidates for quality and suppressing recent repeats.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Custom context key type to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and selection core health",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Println("Checking content store connectivity...")
		if err := appInstance.ContentStore.Ping(ctx); err != nil {
			return fmt.Errorf("content store ping failed: %w", err)
		}
		fmt.Println("Content store connection successful.")

		stats := appInstance.Tracker.Stats()
		fmt.Printf("Repetition tracker: %d/%d entries, window %s\n",
			stats.Size, stats.Capacity, stats.Window)

		fmt.Printf("Generators loaded: %d\n", len(appInstance.Registry.All()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
