// Package probe checks a running medalboard server from the outside: it
// fetches views concurrently and verifies the properties every view must
// hold whatever the dataset.
package probe

import "time"

// Config holds the probe settings.
type Config struct {
	BaseURL   string        // server root, without trailing slash
	TopN      int           // limit passed to bounded views
	Countries int           // how many countries get a filter check; 0 means all
	Workers   int           // concurrent requests
	Timeout   time.Duration // per request
	Verbose   bool          // log every passing check
}

// Failure is one violated property.
type Failure struct {
	Check  string `json:"check"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Report summarizes a run.
type Report struct {
	RunID    string        `json:"run_id"`
	Checks   int           `json:"checks"`
	Passed   int           `json:"passed"`
	Failures []Failure     `json:"failures"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return len(r.Failures) == 0 }
