package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"wppddf/adapters/csvfile"
	"wppddf/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ddf--concepts--discrete.csv":     "concept,name,concept_type\n",
		"ddf--concepts--continuous.csv":   "concept,name,concept_type,unit\n",
		"ddf--entities--country_code.csv": "country_code,major_area_region_country_or_area\n",
		"ddf--datapoints--total_population--by--country_code--year.csv": "country_code,reference_date_1_january_31_december,total_population,variant\n",
		"ddf--notes.csv": "country_code,variant,notes\n",
		"ddf--index.csv": "stale\n",
		"readme.md":      "not indexed\n",
	})

	s := storage.NewLocalFileStorageWithPath(dir)
	g := NewGenerator(s, csvfile.NewWriter(s, "utf8"), nil)

	table, err := g.Generate(ctx, "ddf--index.csv")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"concept", "name", "ddf--concepts--continuous.csv"},
		{"concept", "concept_type", "ddf--concepts--continuous.csv"},
		{"concept", "unit", "ddf--concepts--continuous.csv"},
		{"concept", "name", "ddf--concepts--discrete.csv"},
		{"concept", "concept_type", "ddf--concepts--discrete.csv"},
		{"country_code,reference_date_1_january_31_december,variant", "total_population",
			"ddf--datapoints--total_population--by--country_code--year.csv"},
		{"country_code", "major_area_region_country_or_area", "ddf--entities--country_code.csv"},
		{"country_code", "variant", "ddf--notes.csv"},
		{"country_code", "notes", "ddf--notes.csv"},
	}, table.Rows)

	data, err := os.ReadFile(filepath.Join(dir, "ddf--index.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "key,value,file\n")
	assert.NotContains(t, string(data), "stale")
}

func TestBuildRejectsDatapointWithoutIndicatorColumn(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ddf--datapoints--births--by--country_code--year.csv": "country_code,year,deaths\n",
	})
	s := storage.NewLocalFileStorageWithPath(dir)
	g := NewGenerator(s, csvfile.NewWriter(s, "utf8"), nil)

	_, err := g.Build(context.Background(), "ddf--index.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "births")
}
