package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/pontos/internal/fs"
	"github.com/calvinalkan/pontos/internal/logger"
)

// DataFileName is the productivity document inside the data directory.
const DataFileName = "produtividade_data_v1.json"

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// File persists a [Store] as a single JSON document.
type File struct {
	fsys fs.FS
	path string
	log  logger.Logger
}

// NewFile returns a File for dir/[DataFileName].
func NewFile(fsys fs.FS, dir string, log logger.Logger) *File {
	if log == nil {
		log = logger.Nop()
	}

	return &File{fsys: fsys, path: filepath.Join(dir, DataFileName), log: log}
}

// Path returns the document path.
func (f *File) Path() string {
	return f.path
}

// Load reads the document. A missing document yields [Seeded]. A document
// that cannot be decoded is an [ErrCorrupt] error; it is never replaced
// silently.
func (f *File) Load() (*Store, error) {
	data, err := f.fsys.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.log.Debug("no productivity data, seeding", "path", f.path)

			return Seeded(), nil
		}

		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	return s, nil
}

// Save writes s atomically. Failures wrap [ErrPersist].
func (f *File) Save(s *Store) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("%w: encoding: %w", ErrPersist, err)
	}

	if err := f.fsys.MkdirAll(filepath.Dir(f.path), dirPerms); err != nil {
		return fmt.Errorf("%w: creating data dir: %w", ErrPersist, err)
	}

	if err := f.fsys.WriteFileAtomic(f.path, data, filePerms); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrPersist, f.path, err)
	}

	f.log.Debug("saved productivity data", "path", f.path, "periods", len(s.data))

	return nil
}
