package cmd

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/turbo/internal/sim"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Scroll through a simulated list",
	Long: heredoc.Doc(`
		Run the windowing engine without a terminal. A fake viewport scrolls
		through items with seeded heights, bouncing off both ends, while a manual
		clock drives frames, timers and idle periods. Runs are deterministic: the
		same flags always give the same output.
	`),
	Example: heredoc.Doc(`
		# One run with the defaults
		turbo simulate

		# Eight runs in parallel, seeded 42 to 49
		turbo simulate --runs 8 --seed 42

		# Fast flicks with no idle time, as JSON with every step
		turbo simulate --step 60 --idle-every 0 --json --snapshots
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		runs, _ := flags.GetInt("runs")
		asJSON, _ := flags.GetBool("json")
		snapshots, _ := flags.GetBool("snapshots")

		o := sim.DefaultOptions()
		o.Items, _ = flags.GetInt("items")
		o.Viewport, _ = flags.GetFloat64("viewport")
		o.AssumedHeight, _ = flags.GetFloat64("assumed-height")
		o.MinHeight, _ = flags.GetInt("min-height")
		o.MaxHeight, _ = flags.GetInt("max-height")
		o.Overscan, _ = flags.GetFloat64("overscan")
		o.Steps, _ = flags.GetInt("steps")
		o.Step, _ = flags.GetFloat64("step")
		o.Interval, _ = flags.GetDuration("interval")
		o.IdleEvery, _ = flags.GetInt("idle-every")
		o.Seed, _ = flags.GetInt64("seed")

		results, err := sim.RunMany(cmd.Context(), o, runs)
		if err != nil {
			return err
		}
		if !snapshots {
			for i := range results {
				results[i].Snapshots = nil
			}
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), struct {
				Options sim.Options  `json:"options"`
				Results []sim.Result `json:"results"`
			}{o, results})
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), simulationTable(o, results))
		return err
	},
}

func init() {
	d := sim.DefaultOptions()
	flags := simulateCmd.Flags()
	flags.Int("items", d.Items, "Number of items in the list")
	flags.Float64("viewport", d.Viewport, "Viewport height in lines")
	flags.Float64("assumed-height", d.AssumedHeight, "Height assumed for unmeasured items")
	flags.Int("min-height", d.MinHeight, "Smallest item height")
	flags.Int("max-height", d.MaxHeight, "Largest item height")
	flags.Float64("overscan", d.Overscan, "Viewport heights rendered beyond each edge")
	flags.Int("steps", d.Steps, "Number of scroll events")
	flags.Float64("step", d.Step, "Lines scrolled per event")
	flags.Duration("interval", d.Interval, "Time between scroll events")
	flags.Int("idle-every", d.IdleEvery, "Go idle after every n-th event, 0 to never go idle while scrolling")
	flags.Int64("seed", d.Seed, "Seed of the first run")
	flags.IntP("runs", "n", 1, "Number of runs, each with the next seed")
	flags.Bool("json", false, "Print the results as JSON")
	flags.Bool("snapshots", false, "Include the state after every step in the JSON output")
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func simulationTable(o sim.Options, results []sim.Result) string {
	header := lipgloss.NewStyle().Foreground(charmtone.Charple).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)
	bad := cell.Foreground(charmtone.Coral)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("seed", "window", "height", "blank steps", "commits", "frames", "idle", "reports").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header.Padding(0, 1)
			case col == 3 && results[row].BlankSteps > 0:
				return bad
			default:
				return cell
			}
		})
	for _, r := range results {
		t.Row(
			strconv.FormatInt(r.Seed, 10),
			r.Final.Slice.String(),
			strconv.FormatFloat(r.Final.Height, 'f', 0, 64),
			fmt.Sprintf("%d/%d", r.BlankSteps, o.Steps),
			fmt.Sprint(r.Metrics["commits"]),
			fmt.Sprint(r.Metrics["frame_updates"]),
			fmt.Sprint(r.Metrics["idle_updates"]),
			strconv.Itoa(r.Positionings),
		)
	}
	return t.String()
}
