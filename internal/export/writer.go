package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docextract/internal/extract"
)

const sheetName = "Extraction"

// Writer emits extraction results to stdout or a file.
type Writer struct {
	stdout io.Writer
	logger *slog.Logger
}

func NewWriter(stdout io.Writer, logger *slog.Logger) *Writer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{stdout: stdout, logger: logger}
}

// WriteResult renders res as 2-space indented JSON. An empty path writes to
// stdout; a path ending in .xlsx writes a Field/Value workbook instead.
func (w *Writer) WriteResult(res extract.Result, path string) error {
	obj := res.Object()
	if path == "" {
		out, err := obj.Indent("  ")
		if err != nil {
			return fmt.Errorf("render result: %w", err)
		}
		_, err = fmt.Fprintln(w.stdout, out)
		return err
	}

	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		err = writeXLSX(obj, path)
	} else {
		err = writeJSON(obj, path)
	}
	if err != nil {
		return err
	}
	w.logger.Info("results written", "path", path, "failed", res.Failed())
	return nil
}

func writeJSON(obj extract.Object, path string) error {
	out, err := obj.Indent("  ")
	if err != nil {
		return fmt.Errorf("render result: %w", err)
	}
	if err := os.WriteFile(path, []byte(out+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeXLSX(obj extract.Object, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	_ = f.SetCellValue(sheetName, "A1", "Field")
	_ = f.SetCellValue(sheetName, "B1", "Value")

	for i, key := range obj.Keys() {
		row := i + 2
		a, _ := excelize.CoordinatesToCellName(1, row)
		b, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheetName, a, key)
		_ = f.SetCellValue(sheetName, b, cellText(obj, key))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28)
	_ = f.SetColWidth(sheetName, "B", "B", 80)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// cellText shows strings unquoted and any other JSON value compactly.
func cellText(obj extract.Object, key string) string {
	raw, _ := obj.Raw(key)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
