package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/subcommands"
)

type snapshotCmd struct {
	date string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record the metrics snapshot of every active fund" }
func (*snapshotCmd) Usage() string {
	return `fundctl snapshot [-date <YYYY-MM-DD>]

  Computes and stores one metrics snapshot per active fund for the given
  day. Funds that already have a snapshot for that day are skipped, so
  the command can be re-run after a partial failure.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Snapshot day (defaults to today, UTC).")
}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date := time.Now().UTC()
	if c.date != "" {
		d, err := time.Parse(time.DateOnly, c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		date = d
	}

	e, err := openEnv(ctx, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	summary, err := e.metricsService().SnapshotAll(ctx, date)
	fmt.Printf("%s: %d recorded, %d skipped, %d failed\n",
		summary.Date.Format(time.DateOnly), summary.Recorded, summary.Skipped, len(summary.Failed))

	ids := make([]int64, 0, len(summary.Failed))
	for id := range summary.Failed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Printf("  fund %d: %s\n", id, summary.Failed[id])
	}

	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
