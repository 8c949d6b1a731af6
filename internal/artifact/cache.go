// Package artifact avoids redundant uploads of CV documents to the AI
// provider by caching uploaded-artifact references per consultant CV.
package artifact

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thomasandersen77/candidate-match/internal/scoring"
)

// Store persists artifact references against the consultant's CV record.
// A missing reference is "", nil — absence means "not yet uploaded",
// never an error.
type Store interface {
	ArtifactRef(ctx context.Context, consultantID int64, cvID string) (string, error)
	SaveArtifactRef(ctx context.Context, consultantID int64, cvID, ref string) error
}

// Uploader pushes a document to the provider and returns a stable file
// reference.
type Uploader interface {
	Upload(ctx context.Context, displayName, contentType string, data []byte) (string, error)
}

// Cache resolves consultants to uploaded CV artifact references,
// uploading on first use.
type Cache struct {
	store    Store
	uploader Uploader
	log      *zap.Logger
}

// NewCache builds an artifact cache.
func NewCache(store Store, uploader Uploader, log *zap.Logger) *Cache {
	return &Cache{store: store, uploader: uploader, log: log}
}

// Resolve returns the uploaded-artifact reference for the consultant's
// current CV. On a cache hit no network call is made. On a miss the CV is
// rendered to a text document, uploaded, and the returned reference is
// persisted before being returned. Concurrent resolves for the same
// consultant may race and upload twice; the cache is a pure optimization,
// so the last write wins and both references stay valid.
func (c *Cache) Resolve(ctx context.Context, snap scoring.CandidateSnapshot) (string, error) {
	ref, err := c.store.ArtifactRef(ctx, snap.ID, snap.CVID)
	if err != nil {
		return "", fmt.Errorf("look up artifact ref for consultant %d: %w", snap.ID, err)
	}
	if strings.TrimSpace(ref) != "" {
		c.log.Debug("artifact cache hit",
			zap.Int64("consultant_id", snap.ID),
			zap.String("cv_id", snap.CVID))
		return ref, nil
	}

	doc := RenderCVDocument(snap)
	name := fmt.Sprintf("consultant-%d-cv-%s", snap.ID, snap.CVID)
	ref, err = c.uploader.Upload(ctx, name, "text/plain", []byte(doc))
	if err != nil {
		return "", fmt.Errorf("upload CV for consultant %d: %w", snap.ID, err)
	}

	if err := c.store.SaveArtifactRef(ctx, snap.ID, snap.CVID, ref); err != nil {
		// The upload succeeded and the reference is usable for this run;
		// only the cache write is lost.
		c.log.Warn("failed to persist artifact ref",
			zap.Int64("consultant_id", snap.ID),
			zap.Error(err))
	}
	return ref, nil
}

// RenderCVDocument renders a consultant snapshot into the transmissible
// text form sent to the provider.
func RenderCVDocument(snap scoring.CandidateSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CONSULTANT CV\n")
	fmt.Fprintf(&b, "Name: %s\n", snap.Name)
	fmt.Fprintf(&b, "Consultant ID: %d\n", snap.ID)
	if len(snap.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(snap.Skills, ", "))
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(snap.CVText))
	b.WriteString("\n")
	return b.String()
}
