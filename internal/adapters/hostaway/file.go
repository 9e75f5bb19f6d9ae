package hostaway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource serves reviews from a static Hostaway-format JSON dump. The
// sandbox API returns no reviews, so seeding falls back to this.
type FileSource struct{ path string }

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (f *FileSource) FetchReviews(_ context.Context, limit int) ([]map[string]any, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if limit > 0 && len(env.Result) > limit {
		return env.Result[:limit], nil
	}
	return env.Result, nil
}
