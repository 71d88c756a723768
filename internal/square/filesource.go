package square

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// FileSource serves catalog objects from a local JSON fixture instead of
// the network, for dry runs against a captured listing. The fixture is
// either a bare object array or a document with an "objects" array.
// Inventory is never available from a fixture.
type FileSource struct {
	logger *zap.Logger
	path   string
}

func NewFileSource(logger *zap.Logger, path string) *FileSource {
	return &FileSource{logger: logger, path: path}
}

func (f *FileSource) ListCatalogObjects(ctx context.Context, types []string) ([]CatalogObject, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read mock catalog: %w", err)
	}

	var wrapper struct {
		Objects []CatalogObject `json:"objects"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Objects != nil {
		f.logger.Info("square.mock_catalog_loaded",
			zap.String("path", f.path),
			zap.Int("objects", len(wrapper.Objects)))
		return wrapper.Objects, nil
	}

	var objects []CatalogObject
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, fmt.Errorf("mock catalog must be an object array or contain an \"objects\" array: %w", err)
	}
	f.logger.Info("square.mock_catalog_loaded",
		zap.String("path", f.path),
		zap.Int("objects", len(objects)))
	return objects, nil
}

// BatchInventoryCounts reports nothing: fixture stock is always unknown.
func (f *FileSource) BatchInventoryCounts(ctx context.Context, variationIDs []string, locationID string) (map[string]int64, error) {
	return map[string]int64{}, nil
}
