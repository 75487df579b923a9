// Package snapshot writes the ranking and fixture datasets as JSON files.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KooshaS/top-soccer-matches/internal/model"
)

const (
	DefaultDir          = "public/data"
	DefaultRankingsFile = "top25-clubs.json"
	DefaultFixturesFile = "todays-matches.json"
	filePerm            = 0o644
	dirPerm             = 0o755
)

// ErrPersist wraps every failure to write an artifact.
var ErrPersist = errors.New("persist snapshot")

// Writer replaces the two artifacts under Dir on every call.
type Writer struct {
	Dir          string
	RankingsFile string
	FixturesFile string
}

// NewWriter returns a Writer with default file names under dir.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{Dir: dir, RankingsFile: DefaultRankingsFile, FixturesFile: DefaultFixturesFile}
}

// RankingsPath is the full path of the ranking artifact.
func (w *Writer) RankingsPath() string { return filepath.Join(w.Dir, w.RankingsFile) }

// FixturesPath is the full path of the fixtures artifact.
func (w *Writer) FixturesPath() string { return filepath.Join(w.Dir, w.FixturesFile) }

// Persist writes rankings then fixtures. Each file is written to a temporary
// file in Dir and renamed into place, so readers never see a partial file.
func (w *Writer) Persist(ctx context.Context, ranked []model.RankedEntity, fixtures []model.Fixture) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.MkdirAll(w.Dir, dirPerm); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrPersist, w.Dir, err)
	}
	if ranked == nil {
		ranked = []model.RankedEntity{}
	}
	if fixtures == nil {
		fixtures = []model.Fixture{}
	}
	if err := writeJSON(w.RankingsPath(), ranked); err != nil {
		return err
	}
	return writeJSON(w.FixturesPath(), fixtures)
}

// Encode renders v the way artifacts are stored: 2-space indent, no HTML
// escaping, trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, v any) error {
	b, err := Encode(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersist, path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %w", ErrPersist, path, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: chmod %s: %w", ErrPersist, path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %w", ErrPersist, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: rename %s: %w", ErrPersist, path, err)
	}
	return nil
}
