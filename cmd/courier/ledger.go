package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/pkg/pagination"
)

func newLogsCmd() *cobra.Command {
	var (
		thread   string
		agent    string
		source   string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print ledger entries",
		Long: `Print every entry of one thread in order with --thread, or a page of
the whole ledger, newest first, optionally filtered by agent or source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if thread != "" {
				logs, err := a.domain.Ledger.LogsForThread(cmd.Context(), thread)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), logs)
			}

			var filters ledger.Filters
			if agent != "" {
				filters.AgentName = &agent
			}
			if source != "" {
				filters.Source = &source
			}

			req := pagination.PageRequest{Page: page, PageSize: pageSize}
			req.Normalize(a.cfg.API.Pagination)

			result, err := a.domain.Ledger.List(cmd.Context(), req, filters)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "print the entries of one thread")
	cmd.Flags().StringVar(&agent, "agent", "", "filter by agent name")
	cmd.Flags().StringVar(&source, "source", "", "filter by source filename (contains)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "entries per page (default from config)")
	return cmd
}

func newContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context <thread>",
		Short: "Print a thread's context",
		Args:  exactThread,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			rec, err := a.domain.Ledger.ContextRecord(cmd.Context(), args[0])
			if errors.Is(err, ledger.ErrNotFound) {
				return fmt.Errorf("no context for thread %s", args[0])
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
}
