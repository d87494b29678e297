package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storefront/internal/config"
)

var flagConfig string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Yaşar Granit storefront and admin panel",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")

	root.AddCommand(
		newServeCmd(),
		newCreateAdminCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
