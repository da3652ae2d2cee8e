// @title Dream Homes
// @version 0.1
// @description Real-estate listings: browse, filter, save and message owners.

// @host localhost:8080
// @BasePath /
// @query.collection.format multi
// @schemes http

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	_ "tush00nka/dream_homes/docs"
	"tush00nka/dream_homes/internal/app"
	"tush00nka/dream_homes/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dream-homes",
		Short: "Dream Homes listing server",
		RunE:  serve,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("config error: %w", err)
				}
				if err := app.Migrate(cfg); err != nil {
					return err
				}
				log.Println("Migrations applied")
				return nil
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	return app.Run(cfg)
}
