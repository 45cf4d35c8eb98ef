package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xramDisk/second-brain/internal/fileutil"
)

// Write persists the artifact as pretty-printed JSON under dir and returns
// the file path. The write is atomic (temp file + rename) so a crashed run
// never leaves a half-written artifact behind.
func Write(a *Artifact, dir string) (string, error) {
	if a == nil {
		return "", fmt.Errorf("write artifact: nil artifact")
	}
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("write artifact: output directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write artifact: ensure output dir: %w", err)
	}

	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("write artifact: marshal: %w", err)
	}

	path := filepath.Join(dir, fileName(a))
	if err := fileutil.WriteFileAtomic(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

func fileName(a *Artifact) string {
	base := strings.TrimSpace(a.Source.VideoID)
	if base == "" {
		base = a.Identity.ContentID.String()
	}
	stamp := a.Identity.CreatedAt
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}
	return fmt.Sprintf("%s_%s.json", sanitizeBase(base), stamp.Format("20060102T150405Z"))
}

func sanitizeBase(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "artifact"
	}
	return b.String()
}
