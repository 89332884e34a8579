package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/amp-labs/amp-snippets/optional"
	"github.com/manifoldco/promptui"
)

// Prompter asks the user for optional values. An empty answer means "no value".
type Prompter interface {
	OptionalInt(label string) (optional.Value[int], error)
	OptionalString(label string) (optional.Value[string], error)
}

// TerminalPrompter prompts on a terminal using promptui.
type TerminalPrompter struct {
	in  io.ReadCloser
	out io.WriteCloser
}

var _ Prompter = (*TerminalPrompter)(nil)

func NewTerminalPrompter(in io.ReadCloser, out io.WriteCloser) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

func (p *TerminalPrompter) OptionalInt(label string) (optional.Value[int], error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}

			if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}

			return nil
		},
		Stdin:  p.in,
		Stdout: p.out,
	}

	txt, err := prompt.Run()
	if err != nil {
		return optional.None[int](), promptError(err)
	}

	return parseOptionalInt(txt)
}

func (p *TerminalPrompter) OptionalString(label string) (optional.Value[string], error) {
	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  p.in,
		Stdout: p.out,
	}

	txt, err := prompt.Run()
	if err != nil {
		return optional.None[string](), promptError(err)
	}

	txt = strings.TrimSpace(txt)

	return optional.SomeIf(txt != "", txt), nil
}

func parseOptionalInt(txt string) (optional.Value[int], error) {
	txt = strings.TrimSpace(txt)
	if txt == "" {
		return optional.None[int](), nil
	}

	val, err := strconv.Atoi(txt)
	if err != nil {
		return optional.None[int](), fmt.Errorf("invalid integer: %w", err)
	}

	return optional.Some(val), nil
}

var errPromptAborted = errors.New("prompt aborted")

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return fmt.Errorf("%w: %w", errPromptAborted, err)
	}

	return err
}
