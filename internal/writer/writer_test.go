package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/pkg/model"
)

func sampleDoc() model.Document {
	return model.Document{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Count:       1,
		Items: []model.Product{
			{ID: "ITEM1", Title: "Espresso", Currency: "USD", Variations: []model.Variation{
				{ID: "V1", Name: "Double", Currency: "USD"},
			}},
		},
	}
}

func TestAtomic_WriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "products.json")
	w := NewAtomic(zap.NewNop(), path)

	require.NoError(t, w.Write(sampleDoc()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.Document
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Espresso", got.Items[0].Title)
	assert.True(t, got.GeneratedAt.Equal(sampleDoc().GeneratedAt))
}

func TestAtomic_WriteReplacesPreviousCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"count":99}`), 0o644))

	w := NewAtomic(zap.NewNop(), path)
	require.NoError(t, w.Write(sampleDoc()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.Document
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 1, got.Count)
}

func TestAtomic_LeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	w := NewAtomic(zap.NewNop(), filepath.Join(dir, "products.json"))

	require.NoError(t, w.Write(sampleDoc()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "products.json", entries[0].Name())
}

func TestAtomic_NullStockSurvivesSerialization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	w := NewAtomic(zap.NewNop(), path)

	doc := sampleDoc()
	require.NoError(t, w.Write(doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Unknown stock must serialize as null, never 0.
	assert.Contains(t, string(raw), `"stock": null`)
}
