// Package cmd provides the command-line interface for vmsim.
package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vmsim",
	Short: "vmsim simulates virtual memory page replacement policies.",
	Long: `vmsim replays a memory trace against a fixed pool of physical ` +
		`frames and counts page faults and writes to disk under the FIFO, ` +
		`OPT and AGING replacement policies. Defaults for the algorithm, ` +
		`the refresh interval and the recording database can be set with ` +
		`VMSIM_ALGORITHM, VMSIM_REFRESH and VMSIM_RECORD, also from a .env ` +
		`file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnv(".env")
	},
}

func loadEnv(filename string) {
	err := godotenv.Load(filename)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Ignoring %s: %v", filename, err)
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
