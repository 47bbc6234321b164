package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/strided/internal/device"
	"github.com/born-ml/strided/internal/selftest"
)

func newSelftestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run the kernel property checks on the configured device",
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

			s := device.NewStream(exec, cfg.Stream.QueueDepth)
			defer s.Close()

			results := selftest.Run(cmd.Context(), s, cfg.Block())
			w := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(w, "FAIL  %s: %v\n", r.Name, r.Err)
					continue
				}
				fmt.Fprintf(w, "ok    %s\n", r.Name)
			}
			if n := selftest.Failed(results); n > 0 {
				return fmt.Errorf("%d of %d checks failed on %s", n, len(results), exec.Name())
			}
			return nil
		},
	}
}
