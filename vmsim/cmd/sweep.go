package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/monitoring"
	"github.com/sarchlab/vmsim/sweep"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <tracefile>",
	Short: "Simulate a trace with many frame counts in parallel.",
	Long: "`sweep -a opt --min 1 --max 64 trace.txt` replays trace.txt with " +
		"1, 2, 4, ..., 64 frames and prints one line per frame count. " +
		"`--frames 3,5,7` lists the frame counts explicitly.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		base, err := baseSpec(cmd)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		frames, err := frameCounts(cmd)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		accesses, err := trace.Load(args[0])
		if err != nil {
			atexit.Fatalf("Error reading trace: %v", err)
		}

		opts := sweep.Options{}
		opts.Parallelism, _ = cmd.Flags().GetInt("parallel")
		opts.RecordFaults, _ = cmd.Flags().GetBool("record-faults")

		recorder, execRecorder, err := openRecorder(cmd)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		opts.Recorder = recorder
		if recorder == nil {
			opts.RecordFaults = false
		}

		opts.Monitor = startMonitor(cmd)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results, err := sweep.Run(ctx, accesses,
			sweep.Specs(base, frames), opts)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		if execRecorder != nil {
			execRecorder.End()
		}

		for _, r := range results {
			fmt.Printf("%-6s frames=%-6d accesses=%d faults=%d "+
				"writes=%d fault_rate=%.4f\n",
				r.Stats.Algorithm, r.Stats.NumFrames, r.Stats.Accesses,
				r.Stats.Faults, r.Stats.WriteBacks, r.Stats.FaultRate())
		}
	},
}

func frameCounts(cmd *cobra.Command) ([]int, error) {
	frames, _ := cmd.Flags().GetIntSlice("frames")
	if cmd.Flags().Changed("frames") {
		return frames, nil
	}

	minFrames, _ := cmd.Flags().GetInt("min")
	maxFrames, _ := cmd.Flags().GetInt("max")

	frames = sweep.FrameRange(minFrames, maxFrames)
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frame count between %d and %d",
			minFrames, maxFrames)
	}

	return frames, nil
}

func startMonitor(cmd *cobra.Command) *monitoring.Monitor {
	enabled, _ := cmd.Flags().GetBool("monitor")
	if !enabled {
		return nil
	}

	port, _ := cmd.Flags().GetInt("monitor-port")

	m := monitoring.NewMonitor().WithPortNumber(port)
	m.StartServer()

	openBrowser, _ := cmd.Flags().GetBool("open-browser")
	if openBrowser {
		err := m.OpenInBrowser()
		if err != nil {
			log.Printf("Cannot open browser: %v", err)
		}
	}

	return m
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().IntSlice("frames", nil,
		"Frame counts to simulate, for example 1,2,4,8.")
	sweepCmd.Flags().Int("min", 1, "Smallest frame count when --frames "+
		"is not given.")
	sweepCmd.Flags().Int("max", 64, "Largest frame count when --frames "+
		"is not given. Frame counts double from --min.")
	sweepCmd.Flags().Int("parallel", 0,
		"Number of runs in flight. Defaults to the number of CPUs.")
	sweepCmd.Flags().Bool("record-faults", false,
		"Also record every page fault when --record is set.")
	sweepCmd.Flags().Bool("monitor", false,
		"Serve the progress of the sweep over HTTP.")
	sweepCmd.Flags().Int("monitor-port", 0,
		"Port of the monitoring server. Random if not set.")
	sweepCmd.Flags().Bool("open-browser", false,
		"Open the monitoring page in a browser.")
	addSpecFlags(sweepCmd)
}
