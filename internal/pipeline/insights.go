package pipeline

import (
	"fmt"
	"strings"

	"github.com/wash-insights/sanireport/internal/model"
)

// FormatInsights generates the markdown insight summary that accompanies
// the rendered charts.
func FormatInsights(run model.Run, out *Outcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Insight Summary: %s\n\n", run.Indicator)

	// Headline figures come from the latest-per-country view.
	latest := out.ResultByView("latest")

	b.WriteString("## Coverage\n")
	if latest == nil || len(latest.Rows) == 0 {
		b.WriteString("No countries reported a value for this indicator.\n\n")
	} else {
		best, worst := latest.Rows[0], latest.Rows[0]
		sum := 0.0
		minYear, maxYear := latest.Rows[0].Year, latest.Rows[0].Year
		for _, r := range latest.Rows {
			if r.Value > best.Value {
				best = r
			}
			if r.Value < worst.Value {
				worst = r
			}
			if r.Year < minYear {
				minYear = r.Year
			}
			if r.Year > maxYear {
				maxYear = r.Year
			}
			sum += r.Value
		}
		fmt.Fprintf(&b, "- Countries with a latest value: %d\n", len(latest.Rows))
		fmt.Fprintf(&b, "- Latest observations span %d-%d\n", minYear, maxYear)
		fmt.Fprintf(&b, "- Highest coverage: %s at %.1f%% (%d)\n", best.Country, best.Value, best.Year)
		fmt.Fprintf(&b, "- Lowest coverage: %s at %.1f%% (%d)\n", worst.Country, worst.Value, worst.Year)
		fmt.Fprintf(&b, "- Mean latest coverage: %.1f%%\n\n", sum/float64(len(latest.Rows)))
	}

	b.WriteString("## GDP relationship\n")
	if out.Regression == nil {
		b.WriteString("Too few complete (coverage, GDP) pairs to fit a regression.\n\n")
	} else {
		reg := out.Regression
		fmt.Fprintf(&b, "- OLS fit over %d countries: coverage = %.4f + %.6f x GDP per capita\n",
			reg.N, reg.Intercept, reg.Slope)
		fmt.Fprintf(&b, "- R-squared: %.3f\n", reg.R2)
		direction := "rises"
		if reg.Slope < 0 {
			direction = "falls"
		}
		fmt.Fprintf(&b, "- Coverage %s by about %.2f points per $1,000 of GDP per capita\n\n",
			direction, reg.Slope*1000)
	}

	// Data quality: every filtering decision the run made.
	b.WriteString("## Data quality\n")
	fmt.Fprintf(&b, "- Indicator rows loaded: %d, matching %q: %d\n",
		run.IndicatorRows, run.Indicator, run.FilteredRows)
	fmt.Fprintf(&b, "- Metadata rows loaded: %d\n", run.MetadataRows)
	unmatched := run.FilteredRows - run.MatchedRows
	fmt.Fprintf(&b, "- Observations joined to metadata: %d (%d without a country match)\n",
		run.MatchedRows, unmatched)
	for _, res := range out.Results {
		fmt.Fprintf(&b, "- View %s: %d of %d rows kept", res.View, res.Stat.RowsOut, res.Stat.RowsIn)
		var reasons []string
		if n := res.Stat.DroppedMissingValue; n > 0 {
			reasons = append(reasons, fmt.Sprintf("%d missing value", n))
		}
		if n := res.Stat.DroppedMissingMeta; n > 0 {
			reasons = append(reasons, fmt.Sprintf("%d missing metadata", n))
		}
		if n := res.Stat.DroppedExcluded; n > 0 {
			reasons = append(reasons, fmt.Sprintf("%d excluded", n))
		}
		if n := res.Stat.DroppedSuperseded; n > 0 {
			reasons = append(reasons, fmt.Sprintf("%d superseded by later years", n))
		}
		if len(reasons) > 0 {
			fmt.Fprintf(&b, " (dropped: %s)", strings.Join(reasons, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}
