package model

import (
	"fmt"
	"strings"
)

// MedalType is an Olympic medal. The zero value is not a medal.
type MedalType int

// Medal types in podium order.
const (
	MedalNone MedalType = iota
	Gold
	Silver
	Bronze
)

// MedalTypes lists the medals in podium order.
var MedalTypes = []MedalType{Gold, Silver, Bronze} //nolint:gochecknoglobals // fixed podium order

// String returns the short name: Gold, Silver or Bronze.
func (m MedalType) String() string {
	switch m {
	case Gold:
		return "Gold"
	case Silver:
		return "Silver"
	case Bronze:
		return "Bronze"
	default:
		return "None"
	}
}

// Label returns the name used by the source files ("Gold Medal").
func (m MedalType) Label() string {
	if !m.Valid() {
		return ""
	}
	return m.String() + " Medal"
}

// Color is the chart color of the medal.
func (m MedalType) Color() string {
	switch m {
	case Gold:
		return "#FFD700"
	case Silver:
		return "#C0C0C0"
	case Bronze:
		return "#CD7F32"
	default:
		return "#27303E"
	}
}

// Valid reports whether m is one of Gold, Silver or Bronze.
func (m MedalType) Valid() bool { return m >= Gold && m <= Bronze }

// ParseMedalType accepts "Gold Medal", "gold", "G" and the podium codes 1..3.
func ParseMedalType(s string) (MedalType, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return MedalNone, false
	}
	if f := strings.Fields(s); len(f) > 0 {
		s = f[0]
	}
	// medal_code columns carry 1.0 style floats
	s = strings.TrimSuffix(s, ".0")
	switch s {
	case "gold", "g", "1":
		return Gold, true
	case "silver", "s", "2":
		return Silver, true
	case "bronze", "b", "3":
		return Bronze, true
	}
	return MedalNone, false
}

// MarshalText encodes the short name.
func (m MedalType) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid medal type %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts everything ParseMedalType does.
func (m *MedalType) UnmarshalText(b []byte) error {
	v, ok := ParseMedalType(string(b))
	if !ok {
		return fmt.Errorf("unknown medal type %q", string(b))
	}
	*m = v
	return nil
}

// MedalCount holds a per-type tally.
type MedalCount struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Add counts one medal of type m.
func (c *MedalCount) Add(m MedalType, n int) {
	switch m {
	case Gold:
		c.Gold += n
	case Silver:
		c.Silver += n
	case Bronze:
		c.Bronze += n
	}
}

// Get returns the count for m.
func (c MedalCount) Get(m MedalType) int {
	switch m {
	case Gold:
		return c.Gold
	case Silver:
		return c.Silver
	case Bronze:
		return c.Bronze
	}
	return 0
}

// Total is the sum over the three medal types.
func (c MedalCount) Total() int { return c.Gold + c.Silver + c.Bronze }
