package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/internal/orchestrator"
)

// report is the printed result of one run with the thread's ledger state.
type report struct {
	Result  *orchestrator.Result `json:"result"`
	Logs    []ledger.Entry       `json:"logs"`
	Context map[string]any       `json:"context"`
}

func newProcessCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "process <input>",
		Short: "Classify and process one input",
		Long: `Classify one input, route it to its handler, and print the thread's
ledger entries and context.

The input is a file path, or raw content with --raw. A path of "-" reads
raw content from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, isPath := args[0], !raw
			if input == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input, isPath = string(data), false
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			orch, err := a.domain.Orchestrator(cmd.Context())
			if err != nil {
				return err
			}

			res, err := orch.Run(cmd.Context(), input, isPath)
			if err != nil {
				return err
			}

			return printReport(cmd, a.domain.Ledger, res)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "treat the argument as raw content instead of a path")
	return cmd
}

func printReport(cmd *cobra.Command, l ledger.System, res *orchestrator.Result) error {
	logs, err := l.LogsForThread(cmd.Context(), res.ThreadID)
	if err != nil {
		return err
	}
	cx, err := l.Context(cmd.Context(), res.ThreadID)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), report{Result: res, Logs: logs, Context: cx})
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <path>...",
		Short: "Process many files concurrently",
		Long: `Process every given file, or every regular file in a given directory,
each as its own thread. Concurrency is bounded by pipeline.workers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandInputs(args)
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			orch, err := a.domain.Orchestrator(cmd.Context())
			if err != nil {
				return err
			}

			items, err := orch.RunBatch(cmd.Context(), paths)
			if werr := writeJSON(cmd.OutOrStdout(), items); werr != nil {
				return werr
			}
			return err
		},
	}
}

// expandInputs replaces each directory argument with the regular files it
// contains, sorted by name. File arguments pass through unchanged.
func expandInputs(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", arg, err)
		}

		var files []string
		for _, e := range entries {
			if e.Type().IsRegular() {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
		slices.Sort(files)
		paths = append(paths, files...)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	return paths, nil
}
