package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/magna"
)

func NewCmdRoot() *cobra.Command {
	return &cobra.Command{
		Use:     "root <magna-url>",
		Example: "rpjump root http://magna.example.com/logs/ocs_must_gather/quay-io-ocs-must-gather/namespaces/openshift-storage/",
		Short:   "Print the must-gather root of a Magna sub-path.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := magna.MustGatherRootURL(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), root+"/")
			return nil
		},
	}
}
