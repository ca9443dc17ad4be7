// Package tracker is the API the user interface drives: it owns the
// productivity store, the settings and their persistence, and runs imports.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/calvinalkan/pontos/internal/catalog"
	"github.com/calvinalkan/pontos/internal/extract"
	"github.com/calvinalkan/pontos/internal/fs"
	"github.com/calvinalkan/pontos/internal/importer"
	"github.com/calvinalkan/pontos/internal/logger"
	"github.com/calvinalkan/pontos/internal/normalize"
	"github.com/calvinalkan/pontos/internal/period"
	"github.com/calvinalkan/pontos/internal/settings"
	"github.com/calvinalkan/pontos/internal/store"

	"github.com/shopspring/decimal"
)

// LockFileName is the data-directory lock held by [Config.Lock] trackers.
const LockFileName = ".pontos.lock"

var (
	// ErrUnknownTask is returned for task ids outside the catalog.
	ErrUnknownTask = errors.New("unknown task")
	// ErrInvalidRange is returned for a filter whose start is after its end.
	ErrInvalidRange = errors.New("filter start is after filter end")
	// ErrInvalidValue is returned for out-of-range settings.
	ErrInvalidValue = errors.New("invalid value")
	// ErrNoService is returned by imports when no extraction service is configured.
	ErrNoService = errors.New("no extraction service configured")
)

// Config configures [Open].
type Config struct {
	FS      fs.FS
	DataDir string
	// Service is the extraction backend used by MergeImport. May be nil.
	Service extract.Service
	Log     logger.Logger
	// Now defaults to [time.Now].
	Now func() time.Time
	// Lock holds the data-directory lock until Close.
	Lock bool
	// LockOnMerge takes the data-directory lock only while an import merges,
	// reloading the persisted state first so writes made by other processes
	// during the extraction call are kept. Ignored when Lock is set.
	LockOnMerge bool
}

// Tracker is safe for concurrent use. Imports do not block reads.
type Tracker struct {
	mu       sync.Mutex
	store    *store.Store
	settings settings.Settings

	fsys         fs.FS
	lockPath     string
	now          func() time.Time
	storeFile    *store.File
	settingsFile *settings.File
	importer     *importer.Importer
	hasService   bool
	lockOnMerge  bool
	lock         fs.Locker
	log          logger.Logger

	importErr string
	// mergeErr is the persist failure of the last merge.
	mergeErr error
}

// Open loads the persisted state from cfg.DataDir.
func Open(cfg Config) (*Tracker, error) {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	t := &Tracker{
		fsys:         cfg.FS,
		lockPath:     filepath.Join(cfg.DataDir, LockFileName),
		now:          now,
		storeFile:    store.NewFile(cfg.FS, cfg.DataDir, log),
		settingsFile: settings.NewFile(cfg.FS, cfg.DataDir, log),
		hasService:   cfg.Service != nil,
		lockOnMerge:  cfg.LockOnMerge && !cfg.Lock,
		log:          log,
	}

	if cfg.Lock {
		lock, err := cfg.FS.Lock(t.lockPath)
		if err != nil {
			return nil, fmt.Errorf("locking data dir: %w", err)
		}

		t.lock = lock
	}

	s, err := t.storeFile.Load()
	if err != nil {
		t.Close()

		return nil, err
	}

	st, err := t.settingsFile.Load(now())
	if err != nil {
		t.Close()

		return nil, err
	}

	t.store = s
	t.settings = st
	t.importer = importer.New(importer.Config{
		Service: cfg.Service,
		Merger:  importMerger{t},
		Log:     log,
	})

	return t, nil
}

// Close releases the data-directory lock, if held.
func (t *Tracker) Close() error {
	if t.lock == nil {
		return nil
	}

	err := t.lock.Close()
	t.lock = nil

	return err
}

// importMerger applies imported records to the tracker.
type importMerger struct{ t *Tracker }

// PrepareMerge takes the data-directory lock and reloads the persisted
// state when the tracker was opened with [Config.LockOnMerge].
func (m importMerger) PrepareMerge() (func(), error) {
	t := m.t
	if !t.lockOnMerge {
		return func() {}, nil
	}

	lock, err := t.fsys.Lock(t.lockPath)
	if err != nil {
		return nil, fmt.Errorf("locking data dir: %w", err)
	}

	if err := t.reload(); err != nil {
		_ = lock.Close()

		return nil, err
	}

	return func() {
		if err := lock.Close(); err != nil {
			t.log.Warn("releasing data dir lock", "err", err)
		}
	}, nil
}

// Merge overwrites the named counts, applies the server name and year the
// record supplied, and persists both files.
func (m importMerger) Merge(rec normalize.Record) {
	t := m.t

	t.mu.Lock()
	defer t.mu.Unlock()

	t.store.MergeRecord(rec.Period, rec.Entries)

	if rec.ServerName != "" {
		t.settings.ServerName = settings.NormalizeServerName(rec.ServerName)
	}

	if rec.YearSupplied {
		t.settings.ActiveYear = rec.Period.Year
	}

	t.mergeErr = errors.Join(t.saveAfterStoreChange(), t.settingsFile.Save(t.settings))
	if t.mergeErr != nil {
		t.log.Error("persisting import", "err", t.mergeErr)
	}
}

// reload replaces the in-memory state with the persisted one.
func (t *Tracker) reload() error {
	s, err := t.storeFile.Load()
	if err != nil {
		return err
	}

	st, err := t.settingsFile.Load(t.now())
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.store = s
	t.settings = st

	return nil
}

// Settings returns a copy of the settings.
func (t *Tracker) Settings() settings.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.settings
}

// Count returns the stored count for (p, taskID).
func (t *Tracker) Count(p period.Period, taskID int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.Count(p, taskID)
}

// MonthTotal sums the catalog task counts of p.
func (t *Tracker) MonthTotal(p period.Period) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.MonthTotal(p)
}

// Periods returns the periods that have a record.
func (t *Tracker) Periods() []period.Period {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.Periods()
}

// HasData reports whether any count is positive.
func (t *Tracker) HasData() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.HasData()
}

// SetCount stores the coerced raw value and persists the store. The
// in-memory value is kept even when persisting fails.
func (t *Tracker) SetCount(p period.Period, taskID int, raw string) (int, error) {
	if !p.Month.Valid() {
		return 0, fmt.Errorf("%w: %q", period.ErrInvalidMonth, p.Month)
	}

	if !catalog.Has(taskID) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTask, taskID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	value := t.store.SetCount(p, taskID, raw)

	return value, t.saveAfterStoreChange()
}

// saveAfterStoreChange persists the store and clears the server name once
// no data is left. Callers hold t.mu.
func (t *Tracker) saveAfterStoreChange() error {
	err := t.storeFile.Save(t.store)

	if !t.store.HasData() && t.settings.ServerName != "" {
		t.settings.ServerName = ""
		err = errors.Join(err, t.settingsFile.Save(t.settings))
	}

	return err
}

// ImportOutcome reports a finished MergeImport.
type ImportOutcome struct {
	OK     bool
	Result importer.Result
	// Warnings are non-fatal problems: unknown task ids or a failed save.
	Warnings []string
}

// MergeImport imports file. It never fails: a failed import sets the
// [Tracker.ImportError] slot and returns an outcome with OK false. A
// successful import clears the slot.
func (t *Tracker) MergeImport(ctx context.Context, file importer.File) ImportOutcome {
	if !t.hasService {
		t.setImportError(ErrNoService)

		return ImportOutcome{}
	}

	t.mu.Lock()
	t.importErr = ""
	fallback := t.settings.ActiveYear
	t.mu.Unlock()

	res, err := t.importer.Import(ctx, file, importer.Options{FallbackYear: fallback})
	if err != nil {
		t.setImportError(err)

		return ImportOutcome{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.importErr = ""

	out := ImportOutcome{OK: true, Result: res}

	if ids := res.Record.UnknownTaskIDs; len(ids) > 0 {
		out.Warnings = append(out.Warnings, "tarefas fora do catálogo importadas sem pontuação: "+joinInts(ids))
	}

	if t.mergeErr != nil {
		out.Warnings = append(out.Warnings, t.mergeErr.Error())
		t.mergeErr = nil
	}

	return out
}

func (t *Tracker) setImportError(err error) {
	msg := normalize.UserMessage(err)
	if errors.Is(err, importer.ErrImportInProgress) {
		msg = "Já existe uma importação em andamento."
	}

	if errors.Is(err, fs.ErrLockTimeout) {
		msg = "Os dados estão em uso por outro comando. Tente importar novamente."
	}

	if errors.Is(err, ErrNoService) {
		msg = "Serviço de extração não configurado. Defina a chave da API."
	}

	t.log.Warn("import failed", "err", err)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.importErr = msg
}

// ImportError returns the message of the last failed import, empty after a
// successful one.
func (t *Tracker) ImportError() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.importErr
}

// IsImporting reports whether an import is running.
func (t *Tracker) IsImporting() bool {
	return t.importer.IsImporting()
}

// Totals sums counts per task, honouring the period filter.
func (t *Tracker) Totals() map[int]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.totalsLocked()
}

func (t *Tracker) totalsLocked() map[int]int {
	s := t.settings

	return t.store.Totals(s.IsFilterActive, s.FilterStart, s.FilterEnd)
}

// TotalEffort is the unweighted sum of [Tracker.Totals].
func (t *Tracker) TotalEffort() int {
	return store.TotalEffort(t.Totals())
}

// TotalPoints weights [Tracker.Totals] by unit value.
func (t *Tracker) TotalPoints() decimal.Decimal {
	return store.TotalPoints(t.Totals())
}

// TargetPoints is daily goal times days worked.
func (t *Tracker) TargetPoints() decimal.Decimal {
	return t.Settings().TargetPoints()
}

// Percentage is points over target in percent, 0 without a target.
func (t *Tracker) Percentage() decimal.Decimal {
	return Percentage(t.TotalPoints(), t.TargetPoints())
}

// Percentage returns points/target*100, or 0 when target is not positive.
func Percentage(points, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}

	return points.Div(target).Mul(decimal.NewFromInt(100))
}

// Standing grades [Tracker.Percentage].
func (t *Tracker) Standing() Standing {
	return StandingFor(t.Percentage())
}

// Reset clears the store, the server name and the filter flag in one step.
// The persisted store is overwritten with the empty store so the seed
// record is not restored on the next start. Nothing changes in memory
// unless both files were written; when only the store was written it is
// rewritten with the previous data.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	empty := store.New()

	next := t.settings
	next.ServerName = ""
	next.IsFilterActive = false

	if err := t.storeFile.Save(empty); err != nil {
		return err
	}

	if err := t.settingsFile.Save(next); err != nil {
		return errors.Join(err, t.storeFile.Save(t.store))
	}

	t.store = empty
	t.settings = next

	return nil
}

// SetServerName stores name upper-cased.
func (t *Tracker) SetServerName(name string) error {
	return t.updateSettings(func(s *settings.Settings) error {
		s.ServerName = settings.NormalizeServerName(name)

		return nil
	})
}

// SetDailyGoal sets the daily points goal; negative goals are rejected.
func (t *Tracker) SetDailyGoal(goal decimal.Decimal) error {
	return t.updateSettings(func(s *settings.Settings) error {
		if goal.IsNegative() {
			return fmt.Errorf("%w: daily goal %s", ErrInvalidValue, goal)
		}

		s.DailyEffortGoal = goal

		return nil
	})
}

// SetDaysWorked sets the days worked; negative values are rejected.
func (t *Tracker) SetDaysWorked(days int) error {
	return t.updateSettings(func(s *settings.Settings) error {
		if days < 0 {
			return fmt.Errorf("%w: days worked %d", ErrInvalidValue, days)
		}

		s.DaysWorked = days

		return nil
	})
}

// SetFilter sets the inclusive filter range.
func (t *Tracker) SetFilter(start, end period.Period) error {
	return t.updateSettings(func(s *settings.Settings) error {
		if !start.Month.Valid() || !end.Month.Valid() {
			return fmt.Errorf("%w: %v - %v", period.ErrInvalidMonth, start, end)
		}

		if end.Before(start) {
			return fmt.Errorf("%w: %v > %v", ErrInvalidRange, start, end)
		}

		s.FilterStart = start
		s.FilterEnd = end

		return nil
	})
}

// SetFilterActive toggles the period filter.
func (t *Tracker) SetFilterActive(active bool) error {
	return t.updateSettings(func(s *settings.Settings) error {
		s.IsFilterActive = active

		return nil
	})
}

// SetActiveYear selects the year shown in the grid and reports.
func (t *Tracker) SetActiveYear(year int) error {
	return t.updateSettings(func(s *settings.Settings) error {
		if year < 1900 || year > 9999 {
			return fmt.Errorf("%w: year %d", ErrInvalidValue, year)
		}

		s.ActiveYear = year

		return nil
	})
}

func (t *Tracker) updateSettings(fn func(*settings.Settings) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.settings
	if err := fn(&next); err != nil {
		return err
	}

	t.settings = next

	return t.settingsFile.Save(t.settings)
}

// hiddenPeriod predates tracking and is never shown.
var hiddenPeriod = period.New(2026, period.Jan)

// VisibleMonths lists the months of year shown in the grid and reports:
// January 2026 predates tracking, and an active filter hides months
// outside its range.
func (t *Tracker) VisibleMonths(year int) []period.Month {
	s := t.Settings()

	return VisibleMonths(year, s.IsFilterActive, s.FilterStart, s.FilterEnd)
}

// VisibleMonths is the settings-free form of [Tracker.VisibleMonths].
func VisibleMonths(year int, filterActive bool, start, end period.Period) []period.Month {
	months := period.Months()

	return slices.DeleteFunc(months, func(m period.Month) bool {
		p := period.New(year, m)
		if p == hiddenPeriod {
			return true
		}

		return filterActive && !period.InRange(p, start, end)
	})
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}

	return strings.Join(parts, ", ")
}
