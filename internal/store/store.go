// Package store loads and persists research corpora.
package store

import (
	"context"
	"strings"

	"github.com/ppiankov/jtbd/internal/model"
)

// Loader returns the research corpus for a topic.
// A topic without data yields an empty corpus, not an error.
type Loader interface {
	Load(ctx context.Context, topic string) (model.Corpus, error)
}

// NormalizeTopic turns a topic into the key used for file names and lookups
func NormalizeTopic(topic string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topic)), " ", "_")
}
