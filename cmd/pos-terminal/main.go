// Command pos-terminal runs the point-of-sale terminal: it loads the catalog
// from the backend, serves the kiosk API and submits orders after their
// grace period.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "pos-terminal"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Point-of-sale terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), f)
		},
	}
	cmd.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "Config file path (env vars take precedence)")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the terminal API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), f)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "fetch",
		Short: "Fetch the catalog once and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd.Context(), f, cmd.OutOrStdout())
		},
	})
	var group string
	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow published order events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tail(cmd.Context(), f, group, cmd.OutOrStdout())
		},
	}
	tailCmd.Flags().StringVar(&group, "group", appName+"-tail", "Kafka consumer group")
	cmd.AddCommand(tailCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}
