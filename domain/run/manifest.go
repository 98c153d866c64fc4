package run

import (
	"fmt"
	"sort"
	"strings"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
)

// FileEntry records one written output file
type FileEntry struct {
	Name    string   `json:"name"`
	Kind    ddf.Kind `json:"kind"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// IndicatorSummary describes the values of one indicator table
type IndicatorSummary struct {
	ConceptID string  `json:"concept_id"`
	Rows      int     `json:"rows"`
	Present   int     `json:"present"`
	Missing   int     `json:"missing"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	StdDev    float64 `json:"std_dev"`
	Q25       float64 `json:"q25"`
	Q75       float64 `json:"q75"`
	// Outliers counts values outside 1.5 IQR of the quartiles
	Outliers int `json:"outliers"`
}

// Manifest is the provenance record of one conversion run
type Manifest struct {
	RunID      core.RunID         `json:"run_id"`
	SourcePath string             `json:"source_path"`
	SourceHash core.Hash          `json:"source_hash"`
	OutputDir  string             `json:"output_dir"`
	StartedAt  core.Timestamp     `json:"started_at"`
	FinishedAt core.Timestamp     `json:"finished_at"`
	Files      []FileEntry        `json:"files"`
	Indicators []IndicatorSummary `json:"indicators"`
}

// NewManifest starts the manifest of a run over the given source
func NewManifest(sourcePath string, sourceHash core.Hash, outputDir string) *Manifest {
	return &Manifest{
		RunID:      core.NewRunID(),
		SourcePath: sourcePath,
		SourceHash: sourceHash,
		OutputDir:  outputDir,
		StartedAt:  core.Now(),
	}
}

// AddFile records a written table
func (m *Manifest) AddFile(table *ddf.Table) {
	m.Files = append(m.Files, FileEntry{
		Name:    table.Name,
		Kind:    table.Kind,
		Rows:    table.Len(),
		Columns: append([]string(nil), table.Columns...),
	})
}

// Finish stamps the completion time
func (m *Manifest) Finish() {
	m.FinishedAt = core.Now()
}

// TotalRows sums the rows of every recorded file
func (m *Manifest) TotalRows() int {
	total := 0
	for _, f := range m.Files {
		total += f.Rows
	}
	return total
}

// Fingerprint hashes what the run produced from which source, ignoring run
// ID and timestamps: two runs over the same workbook fingerprint equally.
func (m *Manifest) Fingerprint() core.Hash {
	files := append([]FileEntry(nil), m.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var b strings.Builder
	b.WriteString(m.SourceHash.String())
	for _, f := range files {
		fmt.Fprintf(&b, "|%s:%d:%s", f.Name, f.Rows, strings.Join(f.Columns, ","))
	}
	return core.NewHash([]byte(b.String()))
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if m.SourceHash.IsEmpty() {
		return fmt.Errorf("run manifest: source_hash cannot be empty")
	}
	if m.FinishedAt.IsZero() {
		return fmt.Errorf("run manifest %s: run not finished", m.RunID)
	}
	if len(m.Files) == 0 {
		return fmt.Errorf("run manifest %s: no files recorded", m.RunID)
	}
	return nil
}
