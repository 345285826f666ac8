package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdp "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/rs/zerolog/log"
)

// EvidenceArchiver stores the result pages captured during a search so a
// reviewer can later see exactly what the court site returned. Snapshots are
// converted to markdown before upload, raw court HTML is large and full of
// session tokens that are useless after the fact.
type EvidenceArchiver struct {
	storage   StorageService
	bucket    string
	converter *md.Converter
}

// NewEvidenceArchiver creates an archiver writing to the given bucket.
func NewEvidenceArchiver(storage StorageService, bucket string) *EvidenceArchiver {
	converter := md.NewConverter("", true, nil)
	converter.Use(mdp.GitHubFlavored())

	return &EvidenceArchiver{
		storage:   storage,
		bucket:    bucket,
		converter: converter,
	}
}

// Archive converts a page snapshot to markdown and uploads it under the job's
// evidence prefix. It returns the uploaded object name.
func (a *EvidenceArchiver) Archive(ctx context.Context, jobID, jurisdiction, html string) (string, error) {
	if a.storage == nil {
		return "", fmt.Errorf("storage service not configured")
	}

	markdown, err := a.converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert snapshot to markdown: %w", err)
	}

	header := fmt.Sprintf("# %s\n\nCaptured: %s\n\n---\n\n", jurisdiction, time.Now().UTC().Format(time.RFC3339))
	objectName := SnapshotObjectName(jobID, jurisdiction)

	name, err := a.storage.Upload(ctx, a.bucket, objectName, []byte(header+markdown), "text/markdown; charset=utf-8")
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	log.Debug().
		Str("job_id", jobID).
		Str("jurisdiction", jurisdiction).
		Str("object", name).
		Msg("Archived search snapshot")

	return name, nil
}

// SnapshotObjectName returns the object path for a jurisdiction snapshot.
func SnapshotObjectName(jobID, jurisdiction string) string {
	return fmt.Sprintf("searches/%s/%s.md", jobID, slugify(jurisdiction))
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	return strings.Join(strings.Fields(s), "-")
}
