// Command prooflayer runs the ProofLayer API and its operator tooling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prooflayer/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "prooflayer",
		Short:         "ProofLayer testimonial collection and widget API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file to load before reading the environment (default .env)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newPlansCmd(),
		newEmbedCmd(opts),
		newSubmitCmd(opts),
	)
	return root
}

func (o *rootOptions) load() (config.Config, error) {
	var files []string
	if o.envFile != "" {
		files = append(files, o.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
