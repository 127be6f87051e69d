package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dataset-logger/controller"
	"dataset-logger/utils"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "dataset-logger",
		Short: "Record IMU samples and left image stream metadata to a dataset directory",
		Long: `dataset-logger records a motion channel (motion.txt) and the metadata of the
left image stream (left/stream.txt) into one directory per run. Each file starts
with a header line followed by one comma separated line per sample.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRecordCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status:
// 2 for configuration problems, 3 for dataset I/O failures, 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.Is(err, utils.ErrInvalidConfig):
		return 2
	case errors.Is(err, controller.ErrOpen), errors.Is(err, controller.ErrWrite):
		return 3
	default:
		return 1
	}
}
