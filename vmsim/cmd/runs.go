package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
	"github.com/sarchlab/vmsim/mem/vm/simulator"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var runsCmd = &cobra.Command{
	Use:   "runs <database>",
	Short: "List the runs recorded in a database.",
	Long: "`runs results.sqlite3` prints the runs recorded with --record, " +
		"ordered by algorithm and frame count.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]
		if !strings.HasSuffix(filename, ".sqlite3") {
			if _, err := os.Stat(filename); err != nil {
				filename += ".sqlite3"
			}
		}

		reader, err := datarecording.NewReader(filename)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}
		defer reader.Close()

		reader.MapTable(simulator.RunTableName, simulator.RunEntry{})

		params := datarecording.QueryParams{
			OrderBy: "Algorithm, NumFrames",
		}
		params.Limit, _ = cmd.Flags().GetInt("limit")

		algName, _ := cmd.Flags().GetString("algorithm")
		if algName != "" {
			alg, err := replacement.ParseAlgorithm(algName)
			if err != nil {
				atexit.Fatalf("Error: %v", err)
			}

			params.Where = "Algorithm = ?"
			params.Args = []any{alg.String()}
		}

		rows, total, err := reader.Query(context.Background(),
			simulator.RunTableName, params)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tALGORITHM\tFRAMES\tACCESSES\tFAULTS\tWRITES\tRATE")

		for _, row := range rows {
			r := row.(*simulator.RunEntry)
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.4f\n",
				r.RunID, r.Algorithm, r.NumFrames, r.Accesses, r.Faults,
				r.WriteBacks, r.FaultRate)
		}

		w.Flush()

		if len(rows) < total {
			fmt.Printf("(%d of %d runs)\n", len(rows), total)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringP("algorithm", "a", "", "Only list this algorithm.")
	runsCmd.Flags().Int("limit", 0, "Maximum number of runs to list.")
}
