package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"memeforge/internal/apihandlers"
)

var (
	serveAddr string
	servePort string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run memeforge as an HTTP API server",
	Long: `Starts an HTTP server exposing generation, generator management and
dataset ingestion via a RESTful API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		router := gin.Default() // Includes logger and recovery middleware

		apiHandler := &apihandlers.APIHandler{
			Selector: appInstance.Orchestrator,
			Registry: appInstance.Registry,
			Tracker:  appInstance.Tracker,
			Store:    appInstance.ContentStore,
			Jobs:     appInstance.JobClient,
			Reload:   appInstance.ReloadGenerators,
		}

		v1 := router.Group("/api/v1")
		{
			v1.POST("/generate", apiHandler.GenerateHandler)

			generatorGroup := v1.Group("/generators")
			{
				generatorGroup.GET("", apiHandler.ListGeneratorsHandler)
				generatorGroup.POST("/reload", apiHandler.ReloadGeneratorsHandler)
			}

			v1.GET("/tracker", apiHandler.TrackerStatsHandler)
			v1.GET("/categories", apiHandler.ListCategoriesHandler)
			v1.POST("/datasets", apiHandler.IngestDatasetHandler)
		}

		router.GET("/health", func(c *gin.Context) {
			if err := appInstance.ContentStore.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		listenAddr := fmt.Sprintf("%s:%s", serveAddr, servePort)
		log.Printf("Starting memeforge API server on http://%s", listenAddr)

		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
}
