package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/updawg/Fund-Manager-Backend/internal/fetch"
	"github.com/updawg/Fund-Manager-Backend/internal/logging"
)

type dashboardCmd struct {
	fundID  int64
	addr    string
	token   string
	timeout time.Duration
	verbose bool
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "fetch the dashboard summary of a fund from a running server" }
func (*dashboardCmd) Usage() string {
	return `fundctl dashboard -fund <id> [-addr <url>] [-token <token>]

  Loads the dashboard summary through the API, retrying transient
  failures, and prints it as JSON.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.fundID, "fund", 0, "Fund id.")
	f.StringVar(&c.addr, "addr", "http://localhost:5001", "Base URL of the API.")
	f.StringVar(&c.token, "token", os.Getenv("FUND_MANAGER_TOKEN"), "Bearer token (defaults to $FUND_MANAGER_TOKEN).")
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "Overall deadline including retries.")
	f.BoolVar(&c.verbose, "v", false, "Log retries to stderr.")
}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.fundID <= 0 {
		fmt.Fprintln(os.Stderr, "-fund is required")
		return subcommands.ExitUsageError
	}

	logger := zerolog.Nop()
	if c.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	loader := fetch.NewHTTPLoader(c.addr, nil).WithToken(c.token)
	query := fetch.NewQuery(loader.Dashboard, fetch.DefaultOptions(), logging.Component(logger, "fundctl"))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	state := query.Fetch(ctx, fetch.FundKey(c.fundID))
	if state.Status != fetch.StatusSuccess {
		if state.Degraded {
			fmt.Fprintf(os.Stderr, "server unavailable after %d attempts: %v\n", state.Attempts, state.Err)
		} else {
			fmt.Fprintln(os.Stderr, state.Err)
		}
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state.Data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
