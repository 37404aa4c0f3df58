package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/updawg/Fund-Manager-Backend/internal/metrics"
)

// Report output formats.
const (
	ReportFormatJSON     = "json"
	ReportFormatCSV      = "csv"
	ReportFormatMarkdown = "markdown"
	ReportFormatHTML     = "html"
)

var hundred = decimal.NewFromInt(100)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// Render encodes the report and returns the body with its content type.
func (r *Report) Render(format string) ([]byte, string, error) {
	switch format {
	case ReportFormatJSON, "":
		body, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode report: %w", err)
		}
		return body, "application/json", nil
	case ReportFormatCSV:
		body, err := r.renderCSV()
		return body, "text/csv; charset=utf-8", err
	case ReportFormatMarkdown:
		return r.renderMarkdown(), "text/markdown; charset=utf-8", nil
	case ReportFormatHTML:
		body, err := r.renderHTML()
		return body, "text/html; charset=utf-8", err
	default:
		return nil, "", fmt.Errorf("unsupported report format %q", format)
	}
}

// Filename suggests a download name for the rendered report.
func (r *Report) Filename(format string) string {
	ext := format
	switch format {
	case ReportFormatMarkdown:
		ext = "md"
	case "":
		ext = "json"
	}
	return fmt.Sprintf("%s-%s.%s", r.Template.ID, r.Period.Key, ext)
}

func (r *Report) displayMoney(d decimal.Decimal) string {
	cur := money.GetCurrency(r.Currency)
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

func (r *Report) displayMoneyPtr(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return r.displayMoney(*d)
}

func displayPercent(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.Mul(hundred).StringFixed(2) + "%"
}

func displayMultiple(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.StringFixed(2) + "x"
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

func (r *Report) performanceRows() [][2]string {
	p := r.Performance
	irr := displayPercent(p.IRR)
	if p.IRRUnavailable {
		irr = "unavailable"
	}
	return [][2]string{
		{"Paid-in capital", r.displayMoney(p.PaidIn)},
		{"Distributions", r.displayMoney(p.Distributions)},
		{"Unrealized value", r.displayMoney(p.UnrealizedValue)},
		{"Total value", r.displayMoney(p.TotalValue)},
		{"Multiple", displayMultiple(p.Multiple)},
		{"DPI", displayMultiple(p.DPI)},
		{"TVPI", displayMultiple(p.TVPI)},
		{"IRR", irr},
	}
}

func (r *Report) renderMarkdown() []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s: %s\n\n", r.Template.Name, cell(r.Fund.Name))
	fmt.Fprintf(&b, "Period: %s", r.Period.Label)
	if !r.Period.Start.IsZero() {
		fmt.Fprintf(&b, " (%s to %s)", r.Period.Start.Format("2006-01-02"), r.Period.End.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "  \nGenerated: %s  \nReport ID: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"), r.ID)
	if r.Notes != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(r.Notes, "\n", "\n> "))
	}

	if r.Performance != nil {
		b.WriteString("## Performance\n\n| Metric | Value |\n|---|---:|\n")
		for _, row := range r.performanceRows() {
			fmt.Fprintf(&b, "| %s | %s |\n", row[0], row[1])
		}
		b.WriteString("\n")
	}

	for _, by := range []string{metrics.AllocationBySector, metrics.AllocationByStage} {
		slices, ok := r.Allocation[by]
		if !ok {
			continue
		}
		title := strings.ToUpper(by[:1]) + by[1:]
		fmt.Fprintf(&b, "## Allocation by %s\n\n", by)
		if len(slices) == 0 {
			b.WriteString("No investments.\n\n")
			continue
		}
		fmt.Fprintf(&b, "| %s | Invested | Share | Companies |\n|---|---:|---:|---:|\n", title)
		for _, s := range slices {
			fmt.Fprintf(&b, "| %s | %s | %s%% | %d |\n", cell(s.Category), r.displayMoney(s.Amount), s.Percentage.StringFixed(2), s.Companies)
		}
		b.WriteString("\n")
	}

	if len(r.Cohorts) > 0 {
		b.WriteString("## Cohorts by investment year\n\n| Cohort | Companies | Paid-in | Total value | TVPI | IRR |\n|---|---:|---:|---:|---:|---:|\n")
		for _, c := range r.Cohorts {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
				c.Key, c.Companies, r.displayMoney(c.PaidIn), r.displayMoney(c.TotalValue), displayMultiple(c.TVPI), displayPercent(c.IRR))
		}
		b.WriteString("\n")
	}

	if r.Companies != nil {
		b.WriteString("## Portfolio companies\n\n")
		if len(r.Companies) == 0 {
			b.WriteString("No portfolio companies.\n\n")
		} else {
			b.WriteString("| Company | Sector | Stage | Invested | Valuation | Status |\n|---|---|---|---:|---:|---|\n")
			for _, c := range r.Companies {
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
					cell(c.Name), cell(c.Sector), cell(c.Stage), r.displayMoney(c.InvestmentAmount), r.displayMoneyPtr(c.CurrentValuation), c.Status)
			}
			b.WriteString("\n")
		}
	}

	if r.Activities != nil {
		b.WriteString("## Activity\n\n")
		if len(r.Activities) == 0 {
			b.WriteString("No activity in this period.\n\n")
		} else {
			b.WriteString("| Date | Type | Title | Amount |\n|---|---|---|---:|\n")
			for _, a := range r.Activities {
				amount := ""
				if a.Amount != nil {
					amount = r.displayMoney(*a.Amount)
				}
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", a.ActivityDate.Format("2006-01-02"), a.Type, cell(a.Title), amount)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Snapshots) > 0 {
		b.WriteString("## Metric history\n\n| Date | Total value | Multiple | DPI | TVPI | IRR |\n|---|---:|---:|---:|---:|---:|\n")
		for _, m := range r.Snapshots {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				m.MetricDate.Format("2006-01-02"), r.displayMoney(m.TotalValue),
				displayMultiple(m.Multiple), displayMultiple(m.DPI), displayMultiple(m.TVPI), displayPercent(m.IRR))
		}
		b.WriteString("\n")
	}

	if c := r.Compliance; c != nil {
		inSync := "yes"
		if !c.LedgerInSync {
			inSync = "no, reconcile deployed capital"
		}
		b.WriteString("## Compliance\n\n| Item | Value |\n|---|---:|\n")
		fmt.Fprintf(&b, "| Fund size | %s |\n", r.displayMoney(c.Size))
		fmt.Fprintf(&b, "| Deployed capital | %s |\n", r.displayMoney(c.DeployedCapital))
		fmt.Fprintf(&b, "| Remaining capacity | %s |\n", r.displayMoney(c.RemainingCapacity))
		fmt.Fprintf(&b, "| Utilization | %s |\n", displayPercent(&c.Utilization))
		fmt.Fprintf(&b, "| Management fee | %s |\n", displayPercent(&c.ManagementFee))
		fmt.Fprintf(&b, "| Annual management fee | %s |\n", r.displayMoney(c.AnnualManagementFee))
		fmt.Fprintf(&b, "| Carry | %s |\n", displayPercent(&c.CarryPercentage))
		fmt.Fprintf(&b, "| Ledger in sync | %s |\n\n", inSync)
	}

	return b.Bytes()
}

func (r *Report) renderHTML() ([]byte, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert(r.renderMarkdown(), &body); err != nil {
		return nil, fmt.Errorf("failed to render report html: %w", err)
	}

	var b bytes.Buffer
	title := html.EscapeString(r.Template.Name + ": " + r.Fund.Name)
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", title)
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}

// renderCSV writes a spreadsheet-friendly export: one block per section separated
// by blank rows. Amounts are plain decimals so spreadsheets can sum them.
func (r *Report) renderCSV() ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	rows := [][]string{
		{"Report", r.Template.Name},
		{"Fund", r.Fund.Name},
		{"Period", r.Period.Label},
		{"Generated", r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")},
		{"Currency", r.Currency},
	}

	if p := r.Performance; p != nil {
		rows = append(rows, nil, []string{"Metric", "Value"},
			[]string{"Paid-in capital", p.PaidIn.StringFixed(2)},
			[]string{"Distributions", p.Distributions.StringFixed(2)},
			[]string{"Unrealized value", p.UnrealizedValue.StringFixed(2)},
			[]string{"Total value", p.TotalValue.StringFixed(2)},
			[]string{"Multiple", plain(p.Multiple)},
			[]string{"DPI", plain(p.DPI)},
			[]string{"TVPI", plain(p.TVPI)},
			[]string{"IRR", plain(p.IRR)},
		)
	}

	for _, by := range []string{metrics.AllocationBySector, metrics.AllocationByStage} {
		if slices, ok := r.Allocation[by]; ok {
			rows = append(rows, nil, []string{by, "Invested", "Percentage", "Companies"})
			for _, s := range slices {
				rows = append(rows, []string{s.Category, s.Amount.StringFixed(2), s.Percentage.StringFixed(2), strconv.Itoa(s.Companies)})
			}
		}
	}

	if len(r.Cohorts) > 0 {
		rows = append(rows, nil, []string{"Cohort", "Companies", "Paid-in", "Distributions", "Unrealized", "TVPI", "IRR"})
		for _, c := range r.Cohorts {
			rows = append(rows, []string{c.Key, strconv.Itoa(c.Companies), c.PaidIn.StringFixed(2), c.Distributions.StringFixed(2),
				c.UnrealizedValue.StringFixed(2), plain(c.TVPI), plain(c.IRR)})
		}
	}

	if len(r.Companies) > 0 {
		rows = append(rows, nil, []string{"Company", "Sector", "Stage", "Invested", "Valuation", "Status"})
		for _, c := range r.Companies {
			rows = append(rows, []string{c.Name, c.Sector, c.Stage, c.InvestmentAmount.StringFixed(2), plain(c.CurrentValuation), c.Status})
		}
	}

	if len(r.Activities) > 0 {
		rows = append(rows, nil, []string{"Date", "Type", "Title", "Amount"})
		for _, a := range r.Activities {
			rows = append(rows, []string{a.ActivityDate.Format("2006-01-02"), a.Type, a.Title, plain(a.Amount)})
		}
	}

	if len(r.Snapshots) > 0 {
		rows = append(rows, nil, []string{"Metric date", "Total value", "Multiple", "DPI", "TVPI", "IRR"})
		for _, m := range r.Snapshots {
			rows = append(rows, []string{m.MetricDate.Format("2006-01-02"), m.TotalValue.StringFixed(2),
				plain(m.Multiple), plain(m.DPI), plain(m.TVPI), plain(m.IRR)})
		}
	}

	if c := r.Compliance; c != nil {
		rows = append(rows, nil, []string{"Item", "Value"},
			[]string{"Fund size", c.Size.StringFixed(2)},
			[]string{"Deployed capital", c.DeployedCapital.StringFixed(2)},
			[]string{"Ledger deployed", c.LedgerDeployed.StringFixed(2)},
			[]string{"Remaining capacity", c.RemainingCapacity.StringFixed(2)},
			[]string{"Utilization", c.Utilization.String()},
			[]string{"Management fee", c.ManagementFee.String()},
			[]string{"Annual management fee", c.AnnualManagementFee.StringFixed(2)},
			[]string{"Carry", c.CarryPercentage.String()},
			[]string{"Ledger in sync", strconv.FormatBool(c.LedgerInSync)},
		)
	}

	for _, row := range rows {
		if row == nil {
			row = []string{""}
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write report csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write report csv: %w", err)
	}
	return b.Bytes(), nil
}

func plain(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
