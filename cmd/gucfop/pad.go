package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gucfop/internal/format"
)

func newPadCommand(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "pad N",
		Short: "Left-pad a non-negative integer with zeros",
		Example: `  gucfop pad 42            # 00042
  gucfop pad 7 --width 3   # 007`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing %q: %w", args[0], err)
			}
			s, err := format.PadLeftZero(n, width)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, s)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", format.DefaultWidth, "padded width in digits")
	return cmd
}
