package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `Display the most recent runs recorded with --record.

Examples:
  flappy runs
  flappy runs --limit 50
  flappy runs delete 3`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	Run:   runRunsDelete,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.AddCommand(runsDeleteCmd)
}

var titleStyle = lipgloss.NewStyle().Bold(true)

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening runs database: %v", err)
	}

	runs, err := store.Runs(flagRunsLimit)
	store.Close()
	if err != nil {
		fail("retrieving runs: %v", err)
	}

	printRuns(os.Stdout, runs)
}

// printRuns writes runs as a table.
func printRuns(w io.Writer, runs []storage.Run) {
	fmt.Fprintln(w, titleStyle.Render("Recorded Runs"))
	fmt.Fprintln(w)

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'flappy play --record' to record one!")
		return
	}

	fmt.Fprintln(w, runsTable(runs).View())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'flappy replay <id>' to replay a run.")
}

// runsTable builds a non-interactive table of runs.
func runsTable(runs []storage.Run) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Date", Width: 16},
		{Title: "Seed", Width: 20},
		{Title: "Size", Width: 9},
		{Title: "Frames", Width: 7},
		{Title: "Time", Width: 7},
		{Title: "Pairs", Width: 5},
		{Title: "Status", Width: 8},
	}

	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		status := "done"
		if !r.Finished {
			status = "partial"
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Format("2006-01-02 15:04"),
			strconv.FormatInt(r.Seed, 10),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			strconv.Itoa(r.Frames),
			fmt.Sprintf("%.1fs", r.Duration),
			strconv.Itoa(r.PairsSpawned),
			status,
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	// Nothing is selected in a printed table
	styles.Selected = lipgloss.NewStyle()

	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
}

func runRunsDelete(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("invalid run id %q", args[0])
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening runs database: %v", err)
	}
	err = store.DeleteRun(id)
	store.Close()

	if errors.Is(err, storage.ErrRunNotFound) {
		fail("run %d not found", id)
	}
	if err != nil {
		fail("deleting run: %v", err)
	}
	fmt.Printf("Deleted run %d\n", id)
}
