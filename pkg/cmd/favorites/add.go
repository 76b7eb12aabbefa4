package favorites

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/favorites"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg"
)

type addInput struct {
	title string
}

func newCmdAdd(config *pkg.Config) *cobra.Command {
	opts := addInput{}
	cmd := &cobra.Command{
		Use:     "add <magna-url>",
		Example: "rpjump favorites add http://magna.example.com/logs/ocs_must_gather/quay-io-ocs-must-gather/namespaces/openshift-storage/pods/",
		Short:   "Save the sub-path of a must-gather URL as a favorite.",
		Long: `Saves the part of the URL following its quay*/registry* directory. The name
is asked interactively, defaulting to the last path segment, unless --name is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prompter favorites.Prompter = &readlinePrompter{stdin: cmd.InOrStdin(), stdout: cmd.OutOrStdout()}
			if cmd.Flags().Changed("name") {
				prompter = staticPrompter(opts.title)
			}
			title, err := config.FavoritesStore().AddFromURL(args[0], prompter)
			if err != nil {
				return err
			}
			if title != "" {
				fmt.Fprintln(cmd.OutOrStdout(), title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.title, "name", "", "Favorite name, skips the interactive prompt.")
	return cmd
}

// staticPrompter answers every prompt with the same value.
type staticPrompter string

func (s staticPrompter) Prompt(string, string) (string, error) {
	return string(s), nil
}

// readlinePrompter asks on the terminal with the default value pre-filled.
// Ctrl-C and Ctrl-D cancel.
type readlinePrompter struct {
	stdin  io.Reader
	stdout io.Writer
}

func (p *readlinePrompter) Prompt(label, defaultValue string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: label,
		Stdin:  io.NopCloser(p.stdin),
		Stdout: p.stdout,
	})
	if err != nil {
		return "", errors.Wrap(err, "open prompt")
	}
	defer rl.Close()

	line, err := rl.ReadlineWithDefault(defaultValue)
	if err == readline.ErrInterrupt || err == io.EOF {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read favorite name")
	}
	return line, nil
}
