package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
)

// Olympic ring colors, used for non-medal categories.
var palette = []string{"#1A73E8", "#F4C300", "#4E342E", "#009F4D", "#D32F2F"} //nolint:gochecknoglobals // fixed palette

// Count is one group of a group-by.
type Count struct {
	Key   string
	Value int
}

// counter groups by key and remembers first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// ranked returns groups sorted by descending count, ties by key ascending.
func (c *counter) ranked() []Count {
	out := make([]Count, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Count{Key: k, Value: c.counts[k]})
	}
	SortCounts(out)
	return out
}

// SortCounts orders groups by descending value, ties by key ascending.
func SortCounts(cs []Count) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Value != cs[j].Value {
			return cs[i].Value > cs[j].Value
		}
		return cs[i].Key < cs[j].Key
	})
}

// TopN returns at most n groups sorted by descending count. n <= 0 keeps all.
func TopN(cs []Count, n int) []Count {
	out := append([]Count(nil), cs...)
	SortCounts(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// medalTable groups per-type medal counts by key.
type medalTable struct {
	order []string
	rows  map[string]*model.MedalCount
}

func newMedalTable() *medalTable {
	return &medalTable{rows: make(map[string]*model.MedalCount)}
}

func (t *medalTable) add(key string, m model.MedalType, n int) {
	r, ok := t.rows[key]
	if !ok {
		r = &model.MedalCount{}
		t.rows[key] = r
		t.order = append(t.order, key)
	}
	r.Add(m, n)
}

func (t *medalTable) get(key string) model.MedalCount {
	if r, ok := t.rows[key]; ok {
		return *r
	}
	return model.MedalCount{}
}

// ranked orders keys by metric(count) descending, ties by key ascending.
func (t *medalTable) ranked(metric func(model.MedalCount) int) []string {
	keys := append([]string(nil), t.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := metric(*t.rows[keys[i]]), metric(*t.rows[keys[j]])
		if a != b {
			return a > b
		}
		return keys[i] < keys[j]
	})
	return keys
}

// MedalCounts tallies medal rows by type.
func MedalCounts(rows []model.Medal) model.MedalCount {
	var c model.MedalCount
	for _, r := range rows {
		c.Add(r.Type, 1)
	}
	return c
}

// medalSeries melts per-key medal counts into one series per allowed medal
// type. Zero counts are dropped.
func medalSeries(keys []string, label func(string) string, get func(string) model.MedalCount, allow func(model.MedalType) bool) []types.Series {
	out := make([]types.Series, 0, len(model.MedalTypes))
	for _, m := range model.MedalTypes {
		if !allow(m) {
			continue
		}
		s := types.Series{Name: m.String(), Color: m.Color(), Labels: []string{}, Values: []float64{}}
		for _, k := range keys {
			if v := get(k).Get(m); v > 0 {
				s.Labels = append(s.Labels, label(k))
				s.Values = append(s.Values, float64(v))
			}
		}
		out = append(out, s)
	}
	return out
}

func allMedals(model.MedalType) bool { return true }

func identity(s string) string { return s }

// hierarchy builds sunburst/treemap nodes from leaf paths. Inner node values
// are the sum of their leaves. Nodes are ordered by id.
type hierarchy struct {
	nodes map[string]*types.Node
}

func newHierarchy() *hierarchy {
	return &hierarchy{nodes: make(map[string]*types.Node)}
}

func (h *hierarchy) add(path []string, value float64, color string) {
	parent := ""
	for i, label := range path {
		id := strings.Join(path[:i+1], "/")
		n, ok := h.nodes[id]
		if !ok {
			n = &types.Node{ID: id, Label: label, Parent: parent}
			h.nodes[id] = n
		}
		n.Value += value
		if i == len(path)-1 && color != "" {
			n.Color = color
		}
		parent = id
	}
}

func (h *hierarchy) leaves() int {
	parents := make(map[string]bool, len(h.nodes))
	for _, n := range h.nodes {
		parents[n.Parent] = true
	}
	leaves := 0
	for id := range h.nodes {
		if !parents[id] {
			leaves++
		}
	}
	return leaves
}

func (h *hierarchy) list() []types.Node {
	out := make([]types.Node, 0, len(h.nodes))
	for _, n := range h.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fiveNumber summarizes values with linearly interpolated quartiles.
func fiveNumber(values []float64) types.FiveNumber {
	if len(values) == 0 {
		return types.FiveNumber{}
	}
	v := append([]float64(nil), values...)
	sort.Float64s(v)
	return types.FiveNumber{
		Min:    v[0],
		Q1:     quantile(v, 0.25),
		Median: quantile(v, 0.5),
		Q3:     quantile(v, 0.75),
		Max:    v[len(v)-1],
	}
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (pos-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// isAll reports whether a widget value means "no restriction".
func isAll(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all", "all sports", "none":
		return true
	}
	return false
}
