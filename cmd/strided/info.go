package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/born-ml/strided/internal/device"
	"github.com/born-ml/strided/internal/dispatch"
)

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the device and the registered kernels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			exec, release, err := openExecutor(cfg)
			if err != nil {
				return err
			}
			defer release()

			p := device.HostProperties(cfg.Parallel())
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "executor:   %s\n", exec.Name())
			fmt.Fprintf(w, "host:       %s/%s, %d workers\n", p.Name, p.Arch, p.Workers)
			fmt.Fprintf(w, "block:      %v (max %d threads)\n", cfg.Block(), p.MaxThreadsPerBlock)
			fmt.Fprintf(w, "features:   %s\n", lo.Ternary(len(p.Features) == 0, "-", strings.Join(p.Features, " ")))
			fmt.Fprintln(w, "kernels:")
			for _, k := range dispatch.Keys() {
				fmt.Fprintf(w, "  %-28s %s\n", k.String(), lo.Ternary(k.Wide, "4 elements/unit", "1 element/unit"))
			}
			return nil
		},
	}
}
