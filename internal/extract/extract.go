package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/storage/object"
)

const mimePDF = "application/pdf"

var pdfMagic = []byte("%PDF-")

// Extractor turns a stored resume into plain text.
type Extractor interface {
	Extract(ctx context.Context, storageKey, fileName string) (string, error)
}

// PDFExtractor reads PDF resumes from an object store using github.com/ledongthuc/pdf.
type PDFExtractor struct {
	Store object.ObjectStore
}

// NewPDFExtractor returns an extractor backed by store.
func NewPDFExtractor(store object.ObjectStore) *PDFExtractor {
	return &PDFExtractor{Store: store}
}

// Extract loads the object and returns its trimmed text. Every failure,
// including an empty result, is an apperr extraction error.
func (e *PDFExtractor) Extract(ctx context.Context, storageKey, fileName string) (string, error) {
	const op = "extract.Extract"
	if err := ctx.Err(); err != nil {
		return "", apperr.Extraction(op, "extraction cancelled", err)
	}
	if e == nil || e.Store == nil {
		return "", apperr.Extraction(op, "no file store configured", nil)
	}

	body, err := e.Store.Open(ctx, storageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", apperr.Extraction(op, "resume file is missing", err)
		}
		return "", apperr.Extraction(op, "resume file is unreadable", err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", apperr.Extraction(op, "resume file is unreadable", fmt.Errorf("read key=%s: %w", storageKey, err))
	}

	return ExtractTextFromBytes(ctx, raw, fileName)
}

// ExtractTextFromBytes extracts text from an in-memory PDF payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, fileName string) (string, error) {
	const op = "extract.ExtractTextFromBytes"
	if err := ctx.Err(); err != nil {
		return "", apperr.Extraction(op, "extraction cancelled", err)
	}
	if len(data) == 0 {
		return "", apperr.Extraction(op, "resume file is empty", nil)
	}
	if kind := detectFormat(data, fileName); kind != mimePDF {
		return "", apperr.Extraction(op, "unsupported document format, upload a PDF", fmt.Errorf("detected %s", kind))
	}

	text, err := extractPDF(data)
	if err != nil {
		return "", apperr.Extraction(op, "could not read PDF", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.Extraction(op, "empty PDF, could not extract text", nil)
	}
	return text, nil
}

// detectFormat trusts the magic bytes; the file name is only used for the
// error detail when content is not a PDF.
func detectFormat(data []byte, fileName string) string {
	if bytes.HasPrefix(bytes.TrimLeft(data[:min(len(data), 1024)], "\x00\t\r\n "), pdfMagic) {
		return mimePDF
	}
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" {
		return "file with extension " + ext
	}
	return "unknown"
}

func extractPDF(data []byte) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("corrupted pdf: %v", rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
