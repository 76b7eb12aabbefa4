// Package version contains all identifiable versioning info for
// describing the rp-jump project.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/rp-jump/pkg"
)

var (
	version = "unknown"
	commit  = "unknown"
)

var Version = VersionContext{
	Name:    pkg.ProjectName,
	Version: version,
	Commit:  commit,
}

type VersionContext struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (vc *VersionContext) String() string {
	return fmt.Sprintf("%s: %s+%s", vc.Name, vc.Version, vc.Commit)
}

func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print rp-jump version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version.String())
		},
	}
}
