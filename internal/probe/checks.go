package probe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/medalboard/internal/domain/types"
)

var errViolation = errors.New("property violated")

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errViolation, fmt.Sprintf(format, args...))
}

// labels returns the figure's categories, or the first series' labels
// for single-series figures that leave categories unset.
func labels(f types.Figure) []string {
	if len(f.Categories) > 0 {
		return f.Categories
	}
	if len(f.Series) > 0 {
		return f.Series[0].Labels
	}
	return nil
}

// totals sums every series per label.
func totals(f types.Figure) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range f.Series {
		for i, l := range s.Labels {
			if i < len(s.Values) {
				out[l] += s.Values[i]
			}
		}
	}
	return out
}

// checkTopN verifies a top-N figure holds at most n groups ordered by
// descending total. n <= 0 skips the bound.
func checkTopN(f types.Figure, n int) error {
	ls := labels(f)
	if n > 0 && len(ls) > n {
		return violation("%d groups exceed the limit of %d", len(ls), n)
	}
	sum := totals(f)
	for i := 1; i < len(ls); i++ {
		if sum[ls[i]] > sum[ls[i-1]] {
			return violation("%q (%g) ranks below %q (%g)", ls[i], sum[ls[i]], ls[i-1], sum[ls[i-1]])
		}
	}
	return nil
}

// checkMedalSum verifies the per-medal counts add up to the total.
func checkMedalSum(k types.KPIs) error {
	if got := k.Gold + k.Silver + k.Bronze; got != k.Total {
		return violation("gold+silver+bronze = %d, total = %d", got, k.Total)
	}
	return nil
}

// checkCountryFilter verifies a view filtered to noc only shows noc.
func checkCountryFilter(v types.GlobalView, noc string) error {
	for _, l := range v.Map.Locations {
		if !strings.EqualFold(l.Code, noc) {
			return violation("map shows %s under filter %s", l.Code, noc)
		}
	}
	if len(v.TopCountries.Categories) > 1 {
		return violation("top countries lists %d countries under filter %s", len(v.TopCountries.Categories), noc)
	}
	return nil
}

// checkRanking verifies ranking rows are bounded, ordered and numbered.
func checkRanking(v types.RankingView, n int) error {
	if n > 0 && len(v.Rows) > n {
		return violation("%d rows exceed the limit of %d", len(v.Rows), n)
	}
	for i, r := range v.Rows {
		if r.Rank != i+1 {
			return violation("row %d has rank %d", i, r.Rank)
		}
		if i > 0 && metricOf(r, v.Metric) > metricOf(v.Rows[i-1], v.Metric) {
			return violation("%s ranks below %s", r.NOC, v.Rows[i-1].NOC)
		}
	}
	return nil
}

func metricOf(r types.RankRow, metric string) int {
	switch strings.ToLower(strings.Fields(metric + " total")[0]) {
	case "gold":
		return r.Gold
	case "silver":
		return r.Silver
	case "bronze":
		return r.Bronze
	default:
		return r.Total
	}
}
