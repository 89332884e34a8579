package cli

import (
	"fmt"
	"io"

	"github.com/amp-labs/amp-snippets/errors"
	"github.com/amp-labs/amp-snippets/sortable"
	"github.com/amp-labs/amp-snippets/xform"
	"github.com/spf13/cobra"
)

func newCompareCommand() *cobra.Command {
	var asFloat bool

	cmd := &cobra.Command{
		Use:   "compare A B",
		Short: "Print how two numbers order against each other",
		Long: `Print the results of <=, < and > between A and B in both directions.

Integers and decimals are different kinds of value and do not compare with each other;
pass --float to read both operands as decimals.`,
		Args: cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := parseOperand(args[0], asFloat)
			if err != nil {
				return err
			}

			right, err := parseOperand(args[1], asFloat)
			if err != nil {
				return err
			}

			switch l := left.(type) {
			case sortable.Number[int64]:
				return printRelations(cmd.OutOrStdout(), l, right)
			case sortable.Number[float64]:
				return printRelations(cmd.OutOrStdout(), l, right)
			default:
				return errors.NewTypeMismatch("compare", left, right)
			}
		},
	}

	cmd.Flags().BoolVar(&asFloat, "float", false, "read both operands as decimals")

	return cmd
}

// parseOperand reads s as an integer Number when it can, otherwise as a decimal one.
func parseOperand(s string, asFloat bool) (any, error) {
	if !asFloat {
		if i, err := xform.Int64(s); err == nil {
			return sortable.NewNumber(i), nil
		}
	}

	f, err := xform.Float64(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}

	return sortable.NewNumber(f), nil
}

type relation[T sortable.Sortable[T]] struct {
	op string
	fn func(T, any) (bool, error)
}

func printRelations[T sortable.Sortable[T]](w io.Writer, left T, right any) error {
	relations := []relation[T]{
		{op: "<=", fn: sortable.LessOrEqual[T]},
		{op: "<", fn: sortable.LessThan[T]},
		{op: ">", fn: sortable.GreaterThan[T]},
	}

	for _, rel := range relations {
		forward, err := rel.fn(left, right)
		if err != nil {
			return err
		}

		// The forward call has established that right is a T.
		backward, err := rel.fn(right.(T), left) //nolint:forcetypeassert
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "%v %s %v: %t\n%v %s %v: %t\n",
			left, rel.op, right, forward, right, rel.op, left, backward); err != nil {
			return err
		}
	}

	return nil
}
