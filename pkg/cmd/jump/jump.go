package jump

import (
	"fmt"

	table "github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/resolver"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg"
)

type jumpInput struct {
	details bool
}

func NewCmdJump(config *pkg.Config) *cobra.Command {
	opts := jumpInput{}
	cmd := &cobra.Command{
		Use:     "jump <reportportal-url>",
		Aliases: []string{"resolve"},
		Example: "rpjump jump 'https://reportportal.example.com/ui/#ocs/launches/all/33195/111/987654/log'",
		Short:   "Print the must-gather URL of a failed ReportPortal test.",
		Long: `Looks up the launch and test item behind a ReportPortal failed test page,
then walks the Magna log listings down to the must-gather directory of the test.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := config.Resolver().ResolveDetailed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			log.Debugf("resolved %s", res.URL)
			if opts.details {
				printDetails(cmd, res)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.details, "details", false, "Show every intermediate location instead of the URL only.")
	return cmd
}

func printDetails(cmd *cobra.Command, res *resolver.Result) {
	tb := table.NewWriter()
	tb.SetOutputMirror(cmd.OutOrStdout())
	tb.AppendRows([]table.Row{
		{"Test", res.TestName},
		{"Cluster", res.ClusterName},
		{"Logs root", res.LogsURLRoot},
		{"Failed testcase dir", res.FailedTestcaseDir},
		{"Must-gather dir", res.TargetDir},
		{"Registry dir", res.RegistryPrefix},
		{"URL", res.URL},
	})
	tb.Render()
}
