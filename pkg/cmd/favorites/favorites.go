package favorites

import (
	"fmt"
	"strconv"

	table "github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg"
)

func NewCmdFavorites(config *pkg.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite must-gather sub-paths.",
		Long: `Favorites are paths relative to a must-gather image directory (quay*/registry*).
Once saved, a favorite can be opened on top of any other must-gather.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				if err := cmd.Help(); err != nil {
					log.Errorf("error loading help(): %v", err)
				}
			}
		},
	}

	cmd.AddCommand(newCmdList(config))
	cmd.AddCommand(newCmdAdd(config))
	cmd.AddCommand(newCmdRename(config))
	cmd.AddCommand(newCmdDelete(config))
	cmd.AddCommand(newCmdMove(config))
	cmd.AddCommand(newCmdOpen(config))
	cmd.AddCommand(newCmdExport(config))
	cmd.AddCommand(newCmdImport(config))
	cmd.AddCommand(newCmdPush(config))
	cmd.AddCommand(newCmdPull(config))
	return cmd
}

func newCmdList(config *pkg.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Example: "rpjump favorites list",
		Short:   "List favorites in display order.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := config.FavoritesStore()
			titles, err := store.OrderedTitles()
			if err != nil {
				return err
			}
			if len(titles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorites saved yet.")
				return nil
			}
			favs, err := store.Favorites()
			if err != nil {
				return err
			}

			tb := table.NewWriter()
			tb.SetOutputMirror(cmd.OutOrStdout())
			tb.AppendHeader(table.Row{"#", "Name", "Path"})
			for i, title := range titles {
				tb.AppendRow(table.Row{i + 1, title, favs[title]})
			}
			tb.Render()
			return nil
		},
	}
}

func newCmdRename(config *pkg.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "rename <name> <new-name>",
		Example: "rpjump favorites rename pods 'storage pods'",
		Short:   "Rename a favorite, keeping its position.",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := config.FavoritesStore().Rename(args[0], args[1])
			if err != nil {
				return err
			}
			log.Infof("Favorite %q renamed to %q", args[0], title)
			return nil
		},
	}
}

func newCmdDelete(config *pkg.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a favorite.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := config.FavoritesStore().Delete(args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return rperror.Usagef("No favorite named %q.", args[0])
			}
			log.Infof("Favorite %q deleted", args[0])
			return nil
		},
	}
}

func newCmdMove(config *pkg.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "move <from> <to>",
		Aliases: []string{"mv"},
		Example: "rpjump favorites move 3 1",
		Short:   "Move a favorite to another position, as numbered by 'favorites list'.",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := position(args[0])
			if err != nil {
				return err
			}
			dst, err := position(args[1])
			if err != nil {
				return err
			}
			moved, err := config.FavoritesStore().Reorder(src, dst)
			if err != nil {
				return err
			}
			if moved {
				log.Infof("Favorite moved from %s to %s", args[0], args[1])
			}
			return nil
		},
	}
}

// position converts a 1-based list position to an index.
func position(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, rperror.Usagef("Invalid position %q.", arg)
	}
	return n - 1, nil
}
