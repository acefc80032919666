package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/turbo/internal/db"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var heightsCmd = &cobra.Command{
	Use:   "heights",
	Short: "Inspect or clear stored item heights",
	Long: heredoc.Doc(`
		Turbo keeps the heights it measured in the data directory, one cache per
		list and terminal width. Stale caches only cost a relayout on the next
		run, so clearing them is always safe.
	`),
	Example: heredoc.Doc(`
		# List the stored caches
		turbo heights

		# Clear the feed cache measured at 80 columns
		turbo heights clear feed@80

		# Clear everything
		turbo heights clear
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listHeights(cmd)
	},
}

var heightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored height caches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listHeights(cmd)
	},
}

var heightsClearCmd = &cobra.Command{
	Use:   "clear [cache-key]",
	Short: "Clear one or every height cache",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openHeightStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		var (
			n    int64
			what = "every cache"
		)
		if len(args) == 1 {
			what = strconv.Quote(args[0])
			n, err = store.Clear(cmd.Context(), args[0])
		} else {
			n, err = store.ClearAll(cmd.Context())
		}
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("Cleared %d heights from %s.", n, what)
		if !isTerminal(cmd.OutOrStdout()) {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		}
		headerStyle := lipgloss.NewStyle().
			Foreground(charmtone.Butter).
			Background(charmtone.Guac).
			Bold(true).
			Padding(0, 1).
			Margin(1).
			MarginLeft(2).
			SetString("CLEARED")
		textStyle := lipgloss.NewStyle().
			MarginLeft(2).
			SetString(msg)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n", headerStyle.Render(), textStyle.Render())
		return err
	},
}

func init() {
	heightsCmd.PersistentFlags().Bool("json", false, "Print caches as JSON")
	heightsCmd.AddCommand(heightsListCmd, heightsClearCmd)
}

func listHeights(cmd *cobra.Command) error {
	store, closeStore, err := openHeightStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	caches, err := store.Caches(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if caches == nil {
			caches = []db.CacheInfo{}
		}
		return writeJSON(w, caches)
	}

	if !isTerminal(w) {
		for _, c := range caches {
			if _, err := fmt.Fprintf(w, "%s\t%d\t%s\n", c.Key, c.Entries, c.UpdatedAt.Format(time.RFC3339)); err != nil {
				return err
			}
		}
		return nil
	}

	if len(caches) == 0 {
		_, err = fmt.Fprintln(w, "No heights stored yet.")
		return err
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("cache", "items", "updated").
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 2)
		})
	for _, c := range caches {
		t.Row(c.Key, strconv.Itoa(c.Entries), c.UpdatedAt.Format(time.DateTime))
	}
	_, err = lipgloss.Fprintln(w, t)
	return err
}

// openHeightStore opens the height store of the configured data directory.
func openHeightStore(cmd *cobra.Command) (*db.HeightStore, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Connect(cmd.Context(), cfg.Options.DataDirectory)
	if err != nil {
		return nil, nil, err
	}
	store, err := db.NewHeightStore(cmd.Context(), conn)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return store, func() {
		store.Close()
		conn.Close()
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
