package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

type reportCmd struct {
	fundID   int64
	template string
	period   string
	format   string
	notes    string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "generate a fund report and write it to stdout" }
func (*reportCmd) Usage() string {
	return `fundctl report -fund <id> -template <template> -period <period> [-format <format>] [-notes <text>]

  Generates a report from the database and writes the rendered document
  to standard output. Templates: quarterly, annual, monthly, portfolio,
  compliance. Periods: q1-2024, fy-2024, ytd-2024, 2024-04, 2024-06-30.
  Formats: json, csv, markdown, html.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.fundID, "fund", 0, "Fund id.")
	f.StringVar(&c.template, "template", "quarterly", "Report template.")
	f.StringVar(&c.period, "period", "", "Reporting period.")
	f.StringVar(&c.format, "format", "markdown", "Output format.")
	f.StringVar(&c.notes, "notes", "", "Free text added to the report.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.fundID <= 0 {
		fmt.Fprintln(os.Stderr, "-fund is required")
		return subcommands.ExitUsageError
	}
	req, err := validation.ValidateGenerateReport(request.GenerateReportRequest{
		Template: c.template,
		Period:   c.period,
		Format:   c.format,
		Notes:    c.notes,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	e, err := openEnv(ctx, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	report, err := e.reportService().Generate(ctx, c.fundID, service.ReportOptions{
		Template: req.Template,
		Period:   req.Period,
		Notes:    req.Notes,
	})
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	body, _, err := report.Render(req.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if _, err := os.Stdout.Write(body); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
