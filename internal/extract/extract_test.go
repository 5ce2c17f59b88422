package extract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/storage/object"
)

type memStore struct {
	objects map[string][]byte
	openErr error
}

func (m *memStore) Save(ctx context.Context, ownerID, fileName string, r io.Reader) (string, int64, string, error) {
	data, _ := io.ReadAll(r)
	key := ownerID + "/" + fileName
	m.objects[key] = data
	return key, int64(len(data)), "application/pdf", nil
}

func (m *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, object.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func TestExtractTextFromBytes_PDFWithText(t *testing.T) {
	data := buildPDF("Experienced React developer", "Built dashboards")

	text, err := ExtractTextFromBytes(context.Background(), data, "resume.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Experienced React developer") {
		t.Fatalf("expected resume text, got %q", text)
	}
	if text != strings.TrimSpace(text) {
		t.Fatalf("expected trimmed text")
	}
}

func TestExtractTextFromBytes_Failures(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		file string
	}{
		{name: "empty file", data: nil, file: "resume.pdf"},
		{name: "empty pdf text", data: buildPDF(""), file: "resume.pdf"},
		{name: "corrupted pdf", data: []byte("%PDF-1.4\nthis is not a real pdf body"), file: "resume.pdf"},
		{name: "docx renamed", data: []byte("PK\x03\x04 zipped word document"), file: "resume.pdf"},
		{name: "plain text", data: []byte("just text"), file: "resume.txt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractTextFromBytes(context.Background(), tc.data, tc.file)
			if !errors.Is(err, apperr.ErrExtraction) {
				t.Fatalf("expected extraction error, got %v", err)
			}
		})
	}
}

func TestPDFExtractorReadsFromStore(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}}
	key, _, _, err := store.Save(context.Background(), "owner", "resume.pdf", bytes.NewReader(buildPDF("Go engineer")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	text, err := NewPDFExtractor(store).Extract(context.Background(), key, "resume.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Go engineer") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestPDFExtractorMissingFile(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}}
	_, err := NewPDFExtractor(store).Extract(context.Background(), "owner/gone.pdf", "gone.pdf")
	if !errors.Is(err, apperr.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if apperr.MessageOf(err) != "resume file is missing" {
		t.Fatalf("unexpected message %q", apperr.MessageOf(err))
	}
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound in chain")
	}
}

func TestPDFExtractorUnreadableStore(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}, openErr: errors.New("access denied")}
	_, err := NewPDFExtractor(store).Extract(context.Background(), "owner/x.pdf", "x.pdf")
	if apperr.KindOf(err) != apperr.KindExtraction {
		t.Fatalf("expected extraction kind, got %v", err)
	}
}
