package cli

import (
	"fmt"
	"io"

	"github.com/amp-labs/amp-snippets/envutil"
	"github.com/amp-labs/amp-snippets/logger"
	"github.com/amp-labs/amp-snippets/optional"
	"github.com/amp-labs/amp-snippets/users"
	"github.com/amp-labs/amp-snippets/xform"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"

	defaultUsersFile = "users.json"
	usersFileEnv     = "SNIPPETS_USERS_FILE"
)

type usersFlags struct {
	file        string
	minAge      int
	maxAge      int
	city        string
	output      string
	interactive bool
}

func newUsersCommand(s *settings) *cobra.Command {
	flags := &usersFlags{}

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Load a users file and print the records matching the filters",
		Long: `Load a JSON or YAML users file (optionally gzip, zstd, brotli or lz4 compressed)
and print every record matching all the given filters. Age bounds are inclusive and the
city match ignores case.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUsers(cmd, s, flags)
		},
	}

	flags.bind(cmd.Flags())

	return cmd
}

func (f *usersFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.file, "file", "f", "", "users file (default $"+usersFileEnv+" or "+defaultUsersFile+")")
	fs.IntVar(&f.minAge, "min-age", 0, "keep users at least this old")
	fs.IntVar(&f.maxAge, "max-age", 0, "keep users at most this old")
	fs.StringVar(&f.city, "city", "", "keep users living in this city")
	fs.StringVarP(&f.output, "output", "o", outputJSON, "output format: json or yaml")
	fs.BoolVarP(&f.interactive, "interactive", "i", false, "prompt for filters not given as flags")
}

// criteria returns the bounds given on the command line.
func (f *usersFlags) criteria(fs *pflag.FlagSet) users.Criteria {
	return users.Criteria{
		MinAge: optional.SomeIf(fs.Changed("min-age"), f.minAge),
		MaxAge: optional.SomeIf(fs.Changed("max-age"), f.maxAge),
		City:   optional.SomeIf(fs.Changed("city"), f.city),
	}
}

func runUsers(cmd *cobra.Command, s *settings, flags *usersFlags) error {
	ctx := cmd.Context()

	output, err := xform.OneOf(outputJSON, outputYAML)(flags.output)
	if err != nil {
		return err
	}

	path := flags.file
	if !cmd.Flags().Changed("file") {
		path = envutil.String(ctx, usersFileEnv, envutil.Default(defaultUsersFile)).ValueOrElse(defaultUsersFile)
	}

	criteria := flags.criteria(cmd.Flags())

	if flags.interactive {
		if criteria, err = promptCriteria(s.prompter, criteria); err != nil {
			return err
		}
	}

	all, err := users.Load(ctx, path)
	if err != nil {
		return err
	}

	kept := users.Filter(all, users.WithCriteria(criteria))

	logger.Get(ctx).Debug("filtered users",
		"path", path, "criteria", criteria.String(), "loaded", len(all), "kept", len(kept))

	return printUsers(cmd.OutOrStdout(), output, kept)
}

// promptCriteria asks for every bound the flags left unset.
func promptCriteria(p Prompter, criteria users.Criteria) (users.Criteria, error) {
	var err error

	if criteria.MinAge.Empty() {
		if criteria.MinAge, err = p.OptionalInt("Minimum age (empty for none)"); err != nil {
			return criteria, err
		}
	}

	if criteria.MaxAge.Empty() {
		if criteria.MaxAge, err = p.OptionalInt("Maximum age (empty for none)"); err != nil {
			return criteria, err
		}
	}

	if criteria.City.Empty() {
		if criteria.City, err = p.OptionalString("City (empty for any)"); err != nil {
			return criteria, err
		}
	}

	return criteria, nil
}

func printUsers(w io.Writer, output string, kept []users.User) error {
	if output == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2) //nolint:mnd

		if err := enc.Encode(kept); err != nil {
			return err
		}

		return enc.Close()
	}

	for _, u := range kept {
		if _, err := fmt.Fprintln(w, u.String()); err != nil {
			return err
		}
	}

	return nil
}
