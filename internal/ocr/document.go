package ocr

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
)

// LoadDocument reads the PDF at path. The page count is best-effort: a file
// the PDF reader cannot open is still returned (Pages == 0) because the
// providers, not this reader, decide whether it is usable.
func LoadDocument(path string, logger *slog.Logger) (extract.Document, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ext := filepath.Ext(path)
	if !constants.IsAllowedExt(ext) {
		logger.Warn("document.unexpected_extension", "path", path, "ext", constants.NormalizeExt(ext))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return extract.Document{}, common.NewAppError(common.CodeInput, fmt.Sprintf("read %s", path), err)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(b, "\x00\t\r\n "), []byte(constants.PDFMagic)) {
		logger.Warn("document.missing_pdf_header", "path", path, "bytes", len(b))
	}

	pages, perr := CountPages(b)
	if perr != nil {
		logger.Debug("document.page_count_unavailable", "path", path, "error", perr)
	}
	logger.Info("document.loaded", "path", path, "bytes", len(b), "pages", pages)
	return extract.Document{Path: path, Bytes: b, Pages: pages}, nil
}

// CountPages returns the number of pages the PDF reader finds in b.
func CountPages(b []byte) (n int, err error) {
	// the reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return 0, fmt.Errorf("open PDF: %w", err)
	}
	return r.NumPage(), nil
}
