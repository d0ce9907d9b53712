package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/aristath/advisor/internal/modules/correlation"
	"github.com/aristath/advisor/internal/modules/portfolio"
)

// Writer produces the Markdown body of a report.
type Writer interface {
	Name() string
	Write(ctx context.Context, result *portfolio.PortfolioResult, insights Insights) (string, error)
}

const markdownTemplate = `# Investment Portfolio Analysis

Risk profile: **{{ title .Result.RiskProfile }}**

## Asset allocation

| Asset class | Share |{{ if .Result.Amounts }} Amount |{{ end }}
|---|---|{{ if .Result.Amounts }}---|{{ end }}
| Stocks | {{ .Result.Allocation.Stocks }}% |{{ with .Result.Amounts }} {{ .Stocks.StringFixed 2 }} |{{ end }}
| Bonds | {{ .Result.Allocation.Bonds }}% |{{ with .Result.Amounts }} {{ .Bonds.StringFixed 2 }} |{{ end }}
| Cash | {{ .Result.Allocation.Cash }}% |{{ with .Result.Amounts }} {{ .Cash.StringFixed 2 }} |{{ end }}

## Recommended instruments
{{ range $i, $rec := .Result.Recommendations }}{{ $in := index $.Insights.Instruments $i }}
### {{ $rec.Symbol }}{{ if ne $rec.Name $rec.Symbol }} ({{ $rec.Name }}){{ end }}

- Sector: {{ $rec.Sector }}
- Current price: {{ fixed $rec.CurrentPrice }}
- Beta: {{ fixed $rec.Beta }} ({{ $in.VolatilityBand }} volatility)
- Dividend yield: {{ fixed $rec.DividendYield }}% ({{ $in.DividendBand }})
- 5 year price change: {{ fixed $rec.PriceChange5Y }}% ({{ $in.GrowthBand }} growth)
{{- if $rec.Volatility }}
- Annualised volatility: {{ percent $rec.Volatility }}%
{{- end }}
- Trend: {{ trend $in }}
{{- if $rec.Synthetic }}
- Market data unavailable, figures are placeholders.
{{- end }}
{{ if $in.Note }}
{{ $in.Note }}
{{ end }}{{ end }}
## Correlation
{{ if .Result.CorrelationSymbols }}
| |{{ range .Result.CorrelationSymbols }} {{ . }} |{{ end }}
|---|{{ range .Result.CorrelationSymbols }}---|{{ end }}
{{ range $i, $row := .Result.CorrelationMatrix }}| {{ index $.Result.CorrelationSymbols $i }} |{{ range $row }} {{ fixed . }} |{{ end }}
{{ end }}{{ end }}
{{ range .Insights.HighCorrelations }}- {{ .Symbol1 }} and {{ .Symbol2 }}: {{ fixed .Correlation }} ({{ strength .Strength }})
{{ end }}
{{ .Insights.Diversification }} Average beta: {{ fixed .Insights.AverageBeta }}.
{{ if .Result.DataQuality.UsingSyntheticData }}
## Data quality

Some market data could not be retrieved and was replaced with placeholder values.
{{ range .Result.DataQuality.Warnings }}
- {{ . }}{{ end }}
{{ end }}
---

This report is informational and is not investment advice.
`

// TemplateWriter renders the report from a fixed Markdown template.
// It never depends on external services.
type TemplateWriter struct {
	tmpl *template.Template
}

// NewTemplateWriter creates a new template writer
func NewTemplateWriter() *TemplateWriter {
	funcs := template.FuncMap{
		"title":    titleCase,
		"fixed":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"percent":  func(v float64) string { return fmt.Sprintf("%.2f", v*100) },
		"trend":    describeTrend,
		"strength": describeStrength,
	}
	return &TemplateWriter{
		tmpl: template.Must(template.New("report").Funcs(funcs).Parse(markdownTemplate)),
	}
}

// Name identifies the writer in report metadata.
func (w *TemplateWriter) Name() string {
	return "template"
}

// Write renders the report.
func (w *TemplateWriter) Write(_ context.Context, result *portfolio.PortfolioResult, insights Insights) (string, error) {
	if len(insights.Instruments) != len(result.Recommendations) {
		return "", fmt.Errorf("insights cover %d instruments, result has %d",
			len(insights.Instruments), len(result.Recommendations))
	}

	data := struct {
		Result   *portfolio.PortfolioResult
		Insights Insights
	}{result, insights}

	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.String(), nil
}

func titleCase(v any) string {
	str := fmt.Sprint(v)
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

func describeTrend(in InstrumentInsight) string {
	switch in.Trend {
	case TrendAbove:
		return fmt.Sprintf("above its %d-day average (%.2f)", TrendLength, *in.SMA)
	case TrendBelow:
		return fmt.Sprintf("below its %d-day average (%.2f)", TrendLength, *in.SMA)
	default:
		return "not enough data"
	}
}

func describeStrength(s correlation.Strength) string {
	return strings.ReplaceAll(string(s), "_", " ")
}
