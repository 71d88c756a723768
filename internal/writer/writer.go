package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/pkg/model"
)

// Atomic persists the catalog document with a temp-file + rename so a
// crashed or aborted run can never leave a truncated catalog behind the
// well-known path.
type Atomic struct {
	logger *zap.Logger
	path   string
}

func NewAtomic(logger *zap.Logger, path string) *Atomic {
	return &Atomic{logger: logger, path: path}
}

// Path returns the destination file path.
func (w *Atomic) Path() string {
	return w.path
}

// Write serializes doc and swaps it into place. The destination is only
// replaced after the full document has been flushed to disk.
func (w *Atomic) Write(doc model.Document) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmp.Name())
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace %s: %w", w.path, err)
	}

	w.logger.Info("writer.catalog_written",
		zap.String("path", w.path),
		zap.Int("items", doc.Count))
	return nil
}
