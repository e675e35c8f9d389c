package cmd

import (
	"log"
	"os"

	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/mem/vm/simulator"
	"github.com/sarchlab/vmsim/sim"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var runCmd = &cobra.Command{
	Use:   "run <tracefile>",
	Short: "Simulate a trace with one frame count and one algorithm.",
	Long: "`run -n 8 -a aging -r 100 trace.txt` replays trace.txt with 8 " +
		"frames and prints the number of page faults and writes to disk. " +
		"Traces ending in .lz4, .sz or .snappy are decompressed on the fly.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := baseSpec(cmd)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		spec.NumFrames, _ = cmd.Flags().GetInt("frames")

		err = spec.Validate()
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		accesses, err := trace.Load(args[0])
		if err != nil {
			atexit.Fatalf("Error reading trace: %v", err)
		}

		c := simulator.MakeBuilder().
			WithSpec(spec).
			WithAccesses(accesses).
			Build(args[0])

		logEvents, _ := cmd.Flags().GetBool("log")
		if logEvents {
			c.AcceptHook(simulator.NewEventLogger(log.New(os.Stderr, "", 0)))
		}

		recorder, execRecorder, err := openRecorder(cmd)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		runID := sim.NewUniqueIDGenerator().Generate()
		if recorder != nil {
			c.AcceptHook(trace.NewDBTracer(recorder, runID))
		}

		stats := c.Run()

		if recorder != nil {
			simulator.NewRunRecorder(recorder).Record(runID, c)
			execRecorder.End()
		}

		err = stats.Report(os.Stdout)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("frames", "n", 0, "Number of physical frames.")
	runCmd.Flags().Bool("log", false, "Print every hit, fault and eviction.")
	addSpecFlags(runCmd)

	_ = runCmd.MarkFlagRequired("frames")
}
