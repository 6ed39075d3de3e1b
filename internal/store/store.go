// Package store is the data manager: durable flat-file persistence for
// time entries, the in-memory entry cache, the running-timer lifecycle,
// and report aggregation.
//
// Durable state lives in three places inside one storage directory: a
// YYYY-MM.csv log per month of finalized entries, categories.json for the
// category list and colors, and running-timer.json holding the at most
// one in-progress entry. The cache is rebuilt from those files at open.
package store

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"time"

	"github.com/sadopc/tempo/internal/storage"
)

// maxRunningAge force-stops a timer left running across sessions for
// longer than this, a safeguard against crashed sessions.
const maxRunningAge = 24 * time.Hour

var monthFilePattern = regexp.MustCompile(`^\d{4}-\d{2}\.csv$`)

type Store struct {
	log *slog.Logger

	months     *monthLog
	categories *categoryStore
	running    *runningSlot

	// entries mirrors all loaded entries (historical + running), kept
	// sorted ascending by start time after every mutation.
	entries []TimeEntry
}

// Open builds a store over the given adapter, reconciles a stale running
// timer, and loads every discovered monthly log into the cache. The seed
// config initializes categories.json when it does not exist yet.
func Open(files storage.Adapter, seed CategoryConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		log:        logger,
		months:     &monthLog{files: files, log: logger},
		categories: &categoryStore{files: files, log: logger, seed: seed},
		running:    &runningSlot{files: files, log: logger},
	}
	if err := s.reconcile(time.Now()); err != nil {
		return nil, fmt.Errorf("reconcile running timer: %w", err)
	}
	s.load()
	return s, nil
}

// reconcile force-stops a persisted running timer whose elapsed time
// exceeds maxRunningAge: the finalized entry goes to its monthly log and
// the slot is cleared.
func (s *Store) reconcile(now time.Time) error {
	e := s.running.Read()
	if e == nil {
		return nil
	}
	live := LiveDuration(e.StartTime, e.Duration, now)
	if time.Duration(live)*time.Second <= maxRunningAge {
		return nil
	}
	s.log.Warn("force-stopping stale running timer",
		"id", e.ID, "started", e.Start(), "category", e.Category)

	e.Duration = live
	millis := now.UnixMilli()
	e.EndTime = &millis
	e.Running = false
	if err := s.months.Upsert(e); err != nil {
		return err
	}
	return s.running.Clear()
}

// load rebuilds the cache from every monthly log plus the running slot.
// A file that cannot be listed or read contributes no entries; nothing
// here is fatal.
func (s *Store) load() {
	s.entries = nil

	names, err := s.months.files.List()
	if err != nil {
		s.log.Error("listing storage directory", "err", err)
		names = nil
	}
	for _, name := range names {
		if !monthFilePattern.MatchString(name) {
			continue
		}
		s.entries = append(s.entries, s.months.readFile(name)...)
	}

	if e := s.running.Read(); e != nil {
		s.entries = append(s.entries, *e)
	}
	s.sortEntries()
}

func (s *Store) sortEntries() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].StartTime < s.entries[j].StartTime
	})
}

// Categories returns the category configuration, self-initializing the
// backing file on first use.
func (s *Store) Categories() CategoryConfig {
	return s.categories.Load()
}

// SaveCategories rewrites categories.json. Write failures degrade to an
// in-memory-only change and a log entry.
func (s *Store) SaveCategories(cfg CategoryConfig) {
	if err := s.categories.Save(cfg); err != nil {
		s.log.Error("saving categories", "err", err)
	}
}

// CategoryColor resolves a category's display color, falling back for
// categories unknown to the config.
func (s *Store) CategoryColor(name string) string {
	cfg := s.categories.Load()
	if c, ok := cfg.CategoryColors[name]; ok {
		return c
	}
	return FallbackColor
}
