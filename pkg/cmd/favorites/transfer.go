package favorites

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/favorites"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg"
)

type importInput struct {
	replace bool
}

type remoteInput struct {
	bucket  string
	key     string
	region  string
	replace bool
}

func importMode(replace bool) favorites.ImportMode {
	if replace {
		return favorites.ModeReplace
	}
	return favorites.ModeMerge
}

func logImport(res *favorites.ImportResult) {
	log.Infof("Favorites imported: %d added, %d updated, %d skipped", res.Added, res.Updated, res.Skipped)
}

func newCmdExport(config *pkg.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "export <file>",
		Example: "rpjump favorites export favorites.yaml.xz",
		Short:   "Export favorites to a file. The extension selects JSON or YAML and optional xz compression.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.FavoritesStore().Export()
			if err != nil {
				return err
			}
			if err := favorites.WriteFile(config.FS(), args[0], p); err != nil {
				return err
			}
			log.Infof("%d favorites exported to %s", len(p.Favorites), args[0])
			return nil
		},
	}
}

func newCmdImport(config *pkg.Config) *cobra.Command {
	opts := importInput{}
	cmd := &cobra.Command{
		Use:     "import <file>",
		Example: "rpjump favorites import --replace favorites.json",
		Short:   "Import favorites from a file written by 'favorites export'.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := favorites.ReadFile(config.FS(), args[0])
			if err != nil {
				return err
			}
			res, err := config.FavoritesStore().Import(p, importMode(opts.replace))
			if err != nil {
				return err
			}
			logImport(res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.replace, "replace", false, "Replace the saved favorites instead of merging into them.")
	return cmd
}

func addRemoteFlags(cmd *cobra.Command, opts *remoteInput) {
	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "S3 bucket holding the shared favorites.")
	cmd.Flags().StringVarP(&opts.key, "key", "k", "rp-jump/favorites.json", "Object key, its extension selects the format.")
	cmd.Flags().StringVar(&opts.region, "region", "us-east-1", "S3 bucket region.")
	_ = cmd.MarkFlagRequired("bucket")
}

func newCmdPush(config *pkg.Config) *cobra.Command {
	opts := remoteInput{}
	cmd := &cobra.Command{
		Use:     "push",
		Example: "rpjump favorites push --bucket my-team-bucket",
		Short:   "Upload favorites to an S3 bucket to share them.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := favorites.NewS3Remote(opts.region, opts.bucket, opts.key)
			if err != nil {
				return err
			}
			p, err := config.FavoritesStore().Export()
			if err != nil {
				return err
			}
			return remote.Push(cmd.Context(), p)
		},
	}
	addRemoteFlags(cmd, &opts)
	return cmd
}

func newCmdPull(config *pkg.Config) *cobra.Command {
	opts := remoteInput{}
	cmd := &cobra.Command{
		Use:     "pull",
		Example: "rpjump favorites pull --bucket my-team-bucket --replace",
		Short:   "Download shared favorites from an S3 bucket.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := favorites.NewS3Remote(opts.region, opts.bucket, opts.key)
			if err != nil {
				return err
			}
			p, err := remote.Pull(cmd.Context())
			if err != nil {
				return err
			}
			res, err := config.FavoritesStore().Import(p, importMode(opts.replace))
			if err != nil {
				return err
			}
			logImport(res)
			return nil
		},
	}
	addRemoteFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.replace, "replace", false, "Replace the saved favorites instead of merging into them.")
	return cmd
}
