package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title countries-informer API
// @version 1.0
// @description Weather, exchange rates, headlines and country data behind a per-domain cache.
// @BasePath /api
func main() {
	rootCmd := &cobra.Command{
		Use:           "countries-informer",
		Short:         "Countries, weather, currency and news aggregator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCommand(), newImportWorkerCommand(), newCacheCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
