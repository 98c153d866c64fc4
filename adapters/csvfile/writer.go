package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
	"wppddf/internal/storage"
	"wppddf/ports"
)

var _ ports.TableWriter = (*Writer)(nil)

// utf8BOM is prepended when the "utf8-bom" encoding is configured
const utf8BOM = "\ufeff"

// Writer serializes DDF tables as comma separated files with a header row
type Writer struct {
	storage storage.FileStorage
	bom     bool
}

// NewWriter creates a writer into fileStorage. encoding is "utf8" or "utf8-bom".
func NewWriter(fileStorage storage.FileStorage, encoding string) *Writer {
	return &Writer{storage: fileStorage, bom: encoding == "utf8-bom"}
}

// WriteTable writes table to the storage under table.Name
func (w *Writer) WriteTable(ctx context.Context, table *ddf.Table) (err error) {
	if err := table.Validate(); err != nil {
		return err
	}

	out, err := w.storage.Create(ctx, table.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			storage.Abort(out)
			return
		}
		err = out.Close()
	}()

	buf := bufio.NewWriter(out)
	if err := Encode(buf, table, w.bom); err != nil {
		return fmt.Errorf("%w: write %s: %w", core.ErrIO, table.Name, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: write %s: %w", core.ErrIO, table.Name, err)
	}
	return nil
}

// Encode writes the header and rows of table to out
func Encode(out io.Writer, table *ddf.Table, bom bool) error {
	if bom {
		if _, err := io.WriteString(out, utf8BOM); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(out)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ReadHeader returns the header row of a stored file, without any BOM
func ReadHeader(ctx context.Context, fileStorage storage.FileStorage, name string) ([]string, error) {
	in, err := fileStorage.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	br := bufio.NewReader(in)
	if r, _, err := br.ReadRune(); err == nil && r != '\ufeff' {
		br.UnreadRune()
	}
	header, err := csv.NewReader(br).Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %w", core.ErrIO, name, err)
	}
	return header, nil
}
