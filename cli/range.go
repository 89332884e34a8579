package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/amp-labs/amp-snippets/envutil"
	"github.com/amp-labs/amp-snippets/ranges"
	"github.com/amp-labs/amp-snippets/xform"
	"github.com/spf13/cobra"
)

const (
	defaultPasses = 2
	passesEnv     = "SNIPPETS_RANGE_PASSES"
)

var errNegativePasses = errors.New("passes must not be negative")

func newRangeCommand() *cobra.Command {
	var passes int

	cmd := &cobra.Command{
		Use:   "range START END",
		Short: "Print the integers in [START, END), once per pass",
		Long: `Print the integers from START up to but excluding END. The same iterator is
walked once per pass; every pass starts again from START.`,
		Args: cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseBound("START", args[0])
			if err != nil {
				return err
			}

			end, err := parseBound("END", args[1])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("passes") {
				passes, err = envutil.Int(cmd.Context(), passesEnv,
					envutil.Default(defaultPasses), envutil.Validate(checkPasses)).Value()
				if err != nil {
					return err
				}
			}

			if err := checkPasses(passes); err != nil {
				return err
			}

			it := ranges.New(start, end)

			for range passes {
				if err := printPass(cmd.Context(), cmd.OutOrStdout(), it); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&passes, "passes", "n", defaultPasses,
		"how many times to walk the range; $"+passesEnv+" sets the default")

	return cmd
}

func checkPasses(passes int) error {
	if passes < 0 {
		return fmt.Errorf("%w: %d", errNegativePasses, passes)
	}

	return nil
}

// printPass writes one walk of it as "[v1 v2 ...]", streaming so the span's width
// never decides how much memory is held.
func printPass(ctx context.Context, w io.Writer, it *ranges.Iterator) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	_ = out.WriteByte('[')

	first := true

	for v := range it.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !first {
			_ = out.WriteByte(' ')
		}

		first = false

		_, _ = out.WriteString(strconv.Itoa(v))
	}

	_, _ = out.WriteString("]\n")

	return out.Flush()
}

func parseBound(name, s string) (int, error) {
	v, err := xform.Int64(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}

	return xform.CastNumeric[int64, int](v)
}
