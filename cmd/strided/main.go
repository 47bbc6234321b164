// Package main provides the strided kernel core CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/born-ml/strided/internal/config"
	"github.com/born-ml/strided/internal/logx"
)

const version = "v0.1.0-dev"

type options struct {
	configPath string
	verbose    bool
	debug      bool
	quiet      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "strided",
		Short:        "Strided Gather, Tile and Cast kernels",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML settings file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log launches and device selection")
	root.PersistentFlags().BoolVar(&opts.debug, "vv", false, "log every kernel selection")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only")

	root.AddCommand(
		newVersionCmd(),
		newInfoCmd(opts),
		newSelftestCmd(opts),
		newBenchCmd(opts),
	)
	return root
}

// load reads the settings and applies the log level. Flags win over the
// file.
func (o *options) load() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	level, err := logx.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, err
	}
	if o.debug || o.verbose || o.quiet {
		level = logx.LevelFromFlags(o.debug, o.verbose, o.quiet)
	}
	logx.UserLevel.Set(level)
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "strided %s\n", version)
		},
	}
}
