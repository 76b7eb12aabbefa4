package favorites

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/magna"
	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg"
)

func newCmdOpen(config *pkg.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "open <name> <url>",
		Short: "Print the favorite's sub-path on top of another must-gather.",
		Long: `The URL is either a Magna must-gather URL, whose quay*/registry* directory is
used as base, or a ReportPortal failed test page, resolved first.`,
		Example: "rpjump favorites open pods 'https://reportportal.example.com/ui/#ocs/launches/all/33195/111/987654/log'",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, ok, err := config.FavoritesStore().Path(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return rperror.Usagef("No favorite named %q.", args[0])
			}

			target := args[1]
			if strings.Contains(target, "launches/") {
				if target, err = config.Resolver().Resolve(cmd.Context(), target); err != nil {
					return err
				}
			}
			root, err := magna.MustGatherRootURL(target)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(root, "/")+"/"+strings.TrimLeft(path, "/"))
			return nil
		},
	}
}
