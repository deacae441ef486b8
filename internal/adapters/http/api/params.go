package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/medalboard/internal/domain/analytics"
	"github.com/okian/medalboard/internal/domain/filter"
	"github.com/okian/medalboard/internal/domain/model"
)

// list reads a multi-valued parameter. Repeated keys and comma separated
// values are both accepted; blanks are dropped.
func list(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// intParam reads a non-negative integer, def when absent.
func intParam(q url.Values, key string, def int) (int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, Wrap(fmt.Sprintf("%s must be a non-negative integer", key), err)
	}
	return n, nil
}

// selection reads the noc, sport and medal filters.
func selection(q url.Values) (filter.Selection, error) {
	sel := filter.Selection{NOCs: list(q, "noc"), Sports: list(q, "sport")}
	for _, m := range list(q, "medal") {
		t, ok := model.ParseMedalType(m)
		if !ok {
			return sel, Wrap(fmt.Sprintf("unknown medal %q", m), nil)
		}
		sel.Medals = append(sel.Medals, t)
	}
	return sel, nil
}

func metricParam(q url.Values) (analytics.Metric, error) {
	m, err := analytics.ParseMetric(q.Get("metric"))
	if err != nil {
		return m, Wrap("bad metric", err)
	}
	return m, nil
}

// dateParam reads a YYYY-MM-DD date; the zero time when absent.
func dateParam(q url.Values, key string) (time.Time, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, Wrap(key+" must be YYYY-MM-DD", err)
	}
	return t, nil
}
