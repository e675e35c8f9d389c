package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
	"github.com/sarchlab/vmsim/mem/vm/simulator"
	"github.com/spf13/cobra"
)

const (
	envAlgorithm = "VMSIM_ALGORITHM"
	envRefresh   = "VMSIM_REFRESH"
	envRecord    = "VMSIM_RECORD"
)

func addSpecFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("algorithm", "a", "fifo",
		"Replacement algorithm: fifo, opt or aging. Env: "+envAlgorithm+".")
	cmd.Flags().Uint64P("refresh", "r", 0,
		"Cycles between two aging shifts, required by aging. Env: "+
			envRefresh+".")
	cmd.Flags().Uint64("log2-page-size", 12, "Log2 of the page size in bytes.")
	cmd.Flags().String("record", "",
		"Record the runs into the given SQLite database (without the "+
			".sqlite3 suffix). Env: "+envRecord+".")
}

// stringFlag returns the flag value, falling back to the environment variable
// when the flag is not given on the command line.
func stringFlag(cmd *cobra.Command, name, env string) string {
	value, _ := cmd.Flags().GetString(name)
	if cmd.Flags().Changed(name) {
		return value
	}

	if v, ok := os.LookupEnv(env); ok {
		return v
	}

	return value
}

func refreshFlag(cmd *cobra.Command) (uint64, error) {
	value, _ := cmd.Flags().GetUint64("refresh")
	if cmd.Flags().Changed("refresh") {
		return value, nil
	}

	v, ok := os.LookupEnv(envRefresh)
	if !ok {
		return value, nil
	}

	refresh, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envRefresh, err)
	}

	return refresh, nil
}

// baseSpec builds the spec shared by all the runs of a command. The number of
// frames is left to the caller.
func baseSpec(cmd *cobra.Command) (simulator.Spec, error) {
	spec := simulator.DefaultSpec()

	alg, err := replacement.ParseAlgorithm(
		stringFlag(cmd, "algorithm", envAlgorithm))
	if err != nil {
		return spec, err
	}

	refresh, err := refreshFlag(cmd)
	if err != nil {
		return spec, err
	}

	if alg == replacement.Aging && refresh == 0 {
		return spec, simulator.ErrMissingRefresh
	}

	spec.Algorithm = alg
	spec.RefreshInterval = refresh
	spec.Log2PageSize, _ = cmd.Flags().GetUint64("log2-page-size")

	return spec, nil
}

// openRecorder opens the recording database if one is requested. The
// returned ExecRecorder is already started.
func openRecorder(
	cmd *cobra.Command,
) (datarecording.DataRecorder, *datarecording.ExecRecorder, error) {
	path := stringFlag(cmd, "record", envRecord)
	if path == "" {
		return nil, nil, nil
	}

	recorder, err := datarecording.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open recorder: %w", err)
	}

	execRecorder := datarecording.NewExecRecorder(recorder)
	execRecorder.Start()

	return recorder, execRecorder, nil
}
