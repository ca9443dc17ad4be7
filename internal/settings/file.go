package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/calvinalkan/pontos/internal/fs"
	"github.com/calvinalkan/pontos/internal/logger"

	"github.com/tailscale/hujson"
)

// FileName is the settings document inside the data directory.
const FileName = "produtividade_settings_v1.json"

var (
	// ErrPersist reports that the settings document could not be written or removed.
	ErrPersist = errors.New("persist settings")
	// ErrCorrupt reports a settings document that cannot be decoded.
	ErrCorrupt = errors.New("corrupt settings file")
)

// File persists [Settings] as a JSON document.
type File struct {
	fsys fs.FS
	path string
	log  logger.Logger
}

// NewFile returns a File for dir/[FileName].
func NewFile(fsys fs.FS, dir string, log logger.Logger) *File {
	if log == nil {
		log = logger.Nop()
	}

	return &File{fsys: fsys, path: filepath.Join(dir, FileName), log: log}
}

// Path returns the document path.
func (f *File) Path() string {
	return f.path
}

// Load reads the document and lays it over [Defaults]. Fields missing from
// the document keep their default.
func (f *File) Load(now time.Time) (Settings, error) {
	def := Defaults(now)

	data, err := f.fsys.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}

		return Settings{}, fmt.Errorf("reading %s: %w", f.path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %s: invalid JSONC: %w", ErrCorrupt, f.path, err)
	}

	s := def
	if err := json.Unmarshal(standardized, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, f.path, err)
	}

	s.repair(def)

	return s, nil
}

// Save writes s atomically. Failures wrap [ErrPersist].
func (f *File) Save(s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding: %w", ErrPersist, err)
	}

	if err := f.fsys.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("%w: creating data dir: %w", ErrPersist, err)
	}

	if err := f.fsys.WriteFileAtomic(f.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrPersist, f.path, err)
	}

	f.log.Debug("saved settings", "path", f.path)

	return nil
}
