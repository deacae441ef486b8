// Package loader reads the Olympic CSV files of a data directory into a Dataset.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

type source int

const (
	srcAthletes source = iota
	srcEvents
	srcTallies
	srcNOCs
	srcCountries
	srcMedallists
	srcMedals
	srcCoaches
	srcTeams
	srcVenues
	numSources
)

var files = [numSources]struct { //nolint:gochecknoglobals // fixed file list
	name     string
	required bool
}{
	srcAthletes:   {"athletes.csv", true},
	srcEvents:     {"events.csv", true},
	srcTallies:    {"medals_total.csv", true},
	srcNOCs:       {"nocs.csv", false},
	srcCountries:  {"countries.csv", false},
	srcMedallists: {"medallists.csv", false},
	srcMedals:     {"medals.csv", false},
	srcCoaches:    {"coaches.csv", false},
	srcTeams:      {"teams.csv", false},
	srcVenues:     {"venues.csv", false},
}

// Loader reads one data directory.
type Loader struct {
	dir           string
	now           func() time.Time
	builtinVenues bool
}

// New creates a loader for dir.
func New(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:           dir,
		now:           time.Now,
		builtinVenues: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads dir with default options.
func Load(ctx context.Context, dir string) (*model.Dataset, error) {
	return New(dir).Load(ctx)
}

// Dir returns the directory the loader reads.
func (l *Loader) Dir() string { return l.dir }

// Load reads every file in parallel and joins them into a Dataset.
// A missing required file yields ErrMissingFile, bad CSV ErrMalformed.
func (l *Loader) Load(ctx context.Context) (ds *model.Dataset, err error) {
	start := time.Now()
	log := logger.Named("loader")
	defer func() {
		ms := float64(time.Since(start).Milliseconds())
		if err != nil {
			metrics.RecordDatasetLoad("error", ms)
			metrics.RecordErrorByComponent("loader", "load_failed")
			return
		}
		metrics.RecordDatasetLoad("success", ms)
	}()

	var tables [numSources]*table
	g, gctx := errgroup.WithContext(ctx)
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(l.dir, files[i].name)
			t, err := readTable(path)
			switch {
			case err == nil:
				tables[i] = t
			case isNotExist(err) && files[i].required:
				return fmt.Errorf("%s: %w", path, ErrMissingFile)
			case isNotExist(err):
				log.Debug(gctx, "optional data file absent", logger.String("file", files[i].name))
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := model.Dataset{LoadedAt: l.now()}

	if d.NOCs, err = parseNOCs(tables[srcNOCs]); err != nil {
		return nil, err
	}
	d.ContinentFallback = BuiltinContinents()
	for noc, c := range parseCountryContinents(tables[srcCountries]) {
		d.ContinentFallback[noc] = c
	}
	if d.Tallies, err = parseTallies(tables[srcTallies], d.NOCs, d.ContinentFallback); err != nil {
		return nil, err
	}
	if d.Athletes, err = parseAthletes(tables[srcAthletes]); err != nil {
		return nil, err
	}
	if d.Events, err = parseEvents(tables[srcEvents]); err != nil {
		return nil, err
	}

	switch {
	case tables[srcMedallists] != nil:
		d.Medals, err = parseMedals(tables[srcMedallists])
	case tables[srcMedals] != nil:
		d.Medals, err = parseMedals(tables[srcMedals])
	}
	if err != nil {
		return nil, err
	}
	if tables[srcMedals] != nil {
		if d.Awards, err = parseAwards(tables[srcMedals]); err != nil {
			return nil, err
		}
	} else if len(d.Medals) > 0 {
		d.Awards = awardsFromMedals(d.Medals)
		d.SyntheticAwards = true
	}

	for _, src := range []source{srcCoaches, srcTeams} {
		links, ok := parseCoachLinks(tables[src])
		if !ok {
			log.Warn(ctx, "coach file lacks athlete_id/coach_name columns", logger.String("file", files[src].name))
		}
		d.Coaches = append(d.Coaches, links...)
	}

	if tables[srcVenues] != nil {
		if d.Venues, err = parseVenues(tables[srcVenues]); err != nil {
			return nil, err
		}
	} else if l.builtinVenues {
		d.Venues = defaultVenues()
	}

	ds = model.NewDataset(d)
	log.Info(ctx, "dataset loaded",
		logger.String("dir", l.dir),
		logger.Int("athletes", len(ds.Athletes)),
		logger.Int("events", len(ds.Events)),
		logger.Int("tallies", len(ds.Tallies)),
		logger.Int("medals", len(ds.Medals)),
		logger.Bool("synthetic_awards", ds.SyntheticAwards),
		logger.Duration("took", time.Since(start)),
	)
	return ds, nil
}
