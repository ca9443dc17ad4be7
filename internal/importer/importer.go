// Package importer runs the document import pipeline: read the file, ask
// the extraction service for a record, normalize it and merge it.
//
// Stages run strictly in order and nothing is merged unless normalization
// succeeds. A successful import merges exactly once.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/calvinalkan/pontos/internal/extract"
	"github.com/calvinalkan/pontos/internal/fs"
	"github.com/calvinalkan/pontos/internal/logger"
	"github.com/calvinalkan/pontos/internal/normalize"
)

var (
	// ErrImportInProgress is returned when Import is called while another
	// import is running.
	ErrImportInProgress = errors.New("an import is already in progress")
	// ErrService wraps failures of the extraction call itself.
	ErrService = errors.New("extraction service failed")
	// ErrRead wraps failures reading or decoding the file.
	ErrRead = errors.New("cannot read file")
	// ErrMerge wraps failures of [MergePreparer.PrepareMerge].
	ErrMerge = errors.New("cannot merge record")
)

// File is the document being imported.
type File struct {
	Name string
	Data []byte
}

// Open reads path through fsys.
func Open(fsys fs.FS, path string) (File, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	return File{Name: filepath.Base(path), Data: data}, nil
}

// Merger applies a normalized record: its counts, plus the server name and
// year when the record carries them.
type Merger interface {
	Merge(rec normalize.Record)
}

// MergePreparer is implemented by mergers that must acquire something, such
// as a lock shared with other processes, before they merge. PrepareMerge
// runs after normalization succeeds. An error fails the import with nothing
// merged; otherwise release is called once Merge returns.
type MergePreparer interface {
	PrepareMerge() (release func(), err error)
}

// Config configures [New].
type Config struct {
	Service extract.Service
	Merger  Merger
	Log     logger.Logger
	// OnPhase, when set, is called on every phase change.
	OnPhase func(Phase)
}

// Options are per-import parameters.
type Options struct {
	// FallbackYear is used when the document names no year.
	FallbackYear int
}

// Result describes a successful import. Applying SuggestedServerName and
// Year to the settings is left to the caller.
type Result struct {
	Record normalize.Record
	// SuggestedServerName is empty when the document named no server.
	SuggestedServerName string
	// Year is 0 when the document named no year.
	Year int
}

// Importer runs one import at a time.
type Importer struct {
	svc     extract.Service
	merger  Merger
	log     logger.Logger
	onPhase func(Phase)

	inFlight atomic.Bool
	phase    atomic.Int32
}

// New returns an idle importer.
func New(cfg Config) *Importer {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	return &Importer{svc: cfg.Service, merger: cfg.Merger, log: log, onPhase: cfg.OnPhase}
}

// IsImporting reports whether an import is running.
func (im *Importer) IsImporting() bool {
	return im.inFlight.Load()
}

// Phase returns the current phase.
func (im *Importer) Phase() Phase {
	return Phase(im.phase.Load())
}

// Import runs the pipeline for file. It fails fast with
// [ErrImportInProgress] when another import is running. Errors from
// normalization are [*normalize.Error] values.
func (im *Importer) Import(ctx context.Context, file File, opts Options) (Result, error) {
	if !im.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrImportInProgress
	}
	defer im.inFlight.Store(false)

	log := logger.With(im.log, "file", file.Name)

	res, err := im.run(ctx, log, file, opts)
	if err != nil {
		im.enter(log, Failed)
		im.enter(log, Idle)

		return Result{}, err
	}

	im.enter(log, Idle)

	return res, nil
}

func (im *Importer) run(ctx context.Context, log logger.Logger, file File, opts Options) (Result, error) {
	im.enter(log, Reading)

	req, err := BuildRequest(file)
	if err != nil {
		return Result{}, err
	}

	im.enter(log, Extracting)

	raw, err := im.svc.Extract(ctx, req)
	if err != nil {
		log.Error("extraction failed", "err", err)

		return Result{}, fmt.Errorf("%w: %w", ErrService, err)
	}

	im.enter(log, Normalizing)

	rec, err := normalize.Normalize(raw, normalize.Options{FallbackYear: opts.FallbackYear})
	if err != nil {
		if errors.Is(err, normalize.ErrFormat) {
			log.Warn("unparsable extraction response", "raw", raw)
		} else {
			log.Warn("extraction rejected", "err", err)
		}

		return Result{}, err
	}

	release := func() {}

	if p, ok := im.merger.(MergePreparer); ok {
		release, err = p.PrepareMerge()
		if err != nil {
			log.Error("preparing merge", "err", err)

			return Result{}, fmt.Errorf("%w: %w", ErrMerge, err)
		}
	}

	im.enter(log, Merging)

	im.merger.Merge(rec)
	release()

	log.Info("import merged", "period", rec.Period.Key(), "entries", len(rec.Entries))

	res := Result{Record: rec, SuggestedServerName: rec.ServerName}
	if rec.YearSupplied {
		res.Year = rec.Period.Year
	}

	return res, nil
}

// enter moves to the next phase. The pipeline only requests legal
// transitions; an illegal one is a programming error.
func (im *Importer) enter(log logger.Logger, to Phase) {
	from := im.Phase()
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("importer: illegal transition %s -> %s", from, to))
	}

	im.phase.Store(int32(to))

	log.Debug("import phase", "from", from, "to", to)

	if im.onPhase != nil {
		im.onPhase(to)
	}
}

// BuildRequest dispatches file to a text or binary extraction request.
func BuildRequest(file File) (extract.Request, error) {
	if len(file.Data) == 0 {
		return extract.Request{}, fmt.Errorf("%w: %s is empty", ErrRead, file.Name)
	}

	schema, err := extract.OutputSchema()
	if err != nil {
		return extract.Request{}, err
	}

	kind, mime := extract.Classify(file.Name, file.Data)

	if kind == extract.KindText {
		text, err := extract.DecodeText(file.Data, mime)
		if err != nil {
			return extract.Request{}, fmt.Errorf("%w: %s: %w", ErrRead, file.Name, err)
		}

		return extract.Request{
			Text:   extract.TextContent(file.Name, text),
			Prompt: extract.TextPrompt(),
			Schema: schema,
		}, nil
	}

	return extract.Request{
		Data:     file.Data,
		MIMEType: extract.MediaType(mime),
		Prompt:   extract.BinaryPrompt(),
		Schema:   schema,
	}, nil
}
