package tablefile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gndfinder/internal/record"
	"gndfinder/internal/services"
)

// Read parses the CSV file at path. The first row is the header.
func Read(path string) (*record.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "tablefile", "open", path, err)
	}
	defer f.Close()
	table, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Decode parses CSV from r. The first row is the header.
func Decode(r io.Reader) (*record.Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrValidation, "tablefile", "decode", "empty file", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "tablefile", "decode header", "", err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "tablefile", "decode rows", "", err)
	}
	table, err := record.NewTable(header, rows)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "tablefile", "decode", "", err)
	}
	return table, nil
}

// Encode writes the table, header first, to w.
func Encode(w io.Writer, table *record.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(table.Rows()); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// Write replaces path with the encoded table.
func Write(path string, table *record.Table) error {
	var buf bytes.Buffer
	if err := Encode(&buf, table); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure output directory: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes(), 0o644)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".gndfinder-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
