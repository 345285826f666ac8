package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

type memoryStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (m *memoryStorage) Upload(ctx context.Context, bucket, objectName string, content []byte, contentType string) (string, error) {
	m.objects[bucket+"/"+objectName] = content
	m.types[bucket+"/"+objectName] = contentType
	return objectName, nil
}

func (m *memoryStorage) Download(ctx context.Context, bucket, objectName string) ([]byte, error) {
	return m.objects[bucket+"/"+objectName], nil
}

func (m *memoryStorage) Delete(ctx context.Context, bucket, objectName string) error {
	delete(m.objects, bucket+"/"+objectName)
	return nil
}

func (m *memoryStorage) GetSignedURL(ctx context.Context, bucket, objectName string, expires int64) (string, error) {
	return "https://signed.example/" + objectName, nil
}

func (m *memoryStorage) StreamUpload(ctx context.Context, bucket, objectName string, reader io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return m.Upload(ctx, bucket, objectName, data, contentType)
}

func TestSnapshotObjectName(t *testing.T) {
	tests := []struct {
		jobID        string
		jurisdiction string
		want         string
	}{
		{"job-1", "Miami-Dade County, FL", "searches/job-1/miami-dade-county-fl.md"},
		{"job-2", "New York State", "searches/job-2/new-york-state.md"},
		{"job-3", "  Broward  County, FL ", "searches/job-3/broward-county-fl.md"},
	}

	for _, tc := range tests {
		got := SnapshotObjectName(tc.jobID, tc.jurisdiction)
		if got != tc.want {
			t.Errorf("SnapshotObjectName(%q, %q) = %q, want %q", tc.jobID, tc.jurisdiction, got, tc.want)
		}
	}
}

func TestEvidenceArchiverArchive(t *testing.T) {
	store := newMemoryStorage()
	archiver := NewEvidenceArchiver(store, "evidence")

	html := `<html><body><h1>Case Results</h1><table><tr><td>2023-CA-000111</td><td>Open</td></tr></table></body></html>`

	name, err := archiver.Archive(context.Background(), "job-42", "Miami-Dade County, FL", html)
	if err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}
	if name != "searches/job-42/miami-dade-county-fl.md" {
		t.Errorf("unexpected object name %q", name)
	}

	content := string(store.objects["evidence/"+name])
	if !strings.HasPrefix(content, "# Miami-Dade County, FL") {
		t.Errorf("snapshot missing jurisdiction header: %q", content)
	}
	if !strings.Contains(content, "Case Results") {
		t.Errorf("snapshot missing page heading: %q", content)
	}
	if !strings.Contains(content, "2023-CA-000111") {
		t.Errorf("snapshot missing case number: %q", content)
	}
	if strings.Contains(content, "<table>") {
		t.Errorf("snapshot still contains raw HTML: %q", content)
	}

	if ct := store.types["evidence/"+name]; !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestEvidenceArchiverNilStorage(t *testing.T) {
	archiver := NewEvidenceArchiver(nil, "evidence")
	if _, err := archiver.Archive(context.Background(), "job-1", "Broward County, FL", "<p>x</p>"); err == nil {
		t.Fatal("expected error when storage is not configured")
	}
}
