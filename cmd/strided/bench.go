package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/strided/internal/dispatch"
	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/tensor"
)

func newBenchCmd(opts *options) *cobra.Command {
	var (
		elements int
		iters    int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the scalar and wide float32 -> int32 casts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if elements <= 0 || elements%4 != 0 || iters <= 0 {
				return fmt.Errorf("bench: elements must be a positive multiple of 4 and iterations positive")
			}
			exec, release, err := openExecutor(cfg)
			if err != nil {
				return err
			}
			defer release()

			in, err := tensor.NewBuffer(tensor.Contiguous(tensor.Shape{elements}, tensor.Float32))
			if err != nil {
				return err
			}
			out, err := tensor.NewBuffer(tensor.Contiguous(tensor.Shape{elements}, tensor.Int32))
			if err != nil {
				return err
			}
			for i := range in.Float32s() {
				in.Float32s()[i] = float32(i) * 0.37
			}
			args := kernel.Args{In: in, InStride: tensor.Vec4{X: 4}, Out: out, OutStride: tensor.Vec4{X: 4}}

			//nolint:gosec // G115: elements is positive.
			global := grid.Dim3{X: uint(elements), Y: 1, Z: 1}
			block := cfg.Block()
			block.Y, block.Z = 1, 1
			wideExtent, wideBlock := dispatch.WideGeometry(global, block)

			w := cmd.OutOrStdout()
			for _, v := range []struct {
				wide          bool
				extent, block grid.Dim3
			}{{false, global, block}, {true, wideExtent, wideBlock}} {
				k, ok := dispatch.Lookup(dispatch.Key{Op: dispatch.OpCast, In: tensor.Float32, Out: tensor.Int32, Wide: v.wide})
				if !ok {
					return fmt.Errorf("bench: kernel missing")
				}
				l := launch.New(k, args, v.extent, v.block)
				start := time.Now()
				for range iters {
					if err := exec.Run(l); err != nil {
						return err
					}
				}
				per := time.Since(start) / time.Duration(iters)
				fmt.Fprintf(w, "%-24s %10v/launch  %8.1f Melem/s\n", k.Name, per, float64(elements)/per.Seconds()/1e6)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&elements, "elements", "n", 1<<20, "elements per launch (multiple of 4)")
	cmd.Flags().IntVarP(&iters, "iterations", "i", 20, "launches per variant")
	return cmd
}
