package cmd

import (
	"fmt"

	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Validate a trace and rewrite it, compressed or not.",
	Long: "`convert trace.txt trace.txt.lz4` parses trace.txt and writes " +
		"it in the normalized text format, compressed according to the " +
		"extension of the output (.lz4, .sz or .snappy).",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		n, err := convertTrace(args[0], args[1])
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		fmt.Printf("Wrote %d accesses to %s (%s)\n",
			n, args[1], trace.CompressionOf(args[1]))
	},
}

func convertTrace(input, output string) (int, error) {
	accesses, err := trace.Load(input)
	if err != nil {
		return 0, err
	}

	err = trace.Save(output, accesses)
	if err != nil {
		return 0, err
	}

	return len(accesses), nil
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
