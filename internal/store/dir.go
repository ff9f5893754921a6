package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ppiankov/jtbd/internal/model"
	"go.uber.org/zap"
)

// DirStore reads corpora from *<topic>*.json files in a directory
type DirStore struct {
	dir    string
	logger *zap.Logger
}

// NewDirStore creates a store over dir
func NewDirStore(dir string, logger *zap.Logger) *DirStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirStore{dir: dir, logger: logger}
}

// Files returns the data files matching a topic in name order
func (s *DirStore) Files(topic string) ([]string, error) {
	pattern := filepath.Join(s.dir, "*"+NormalizeTopic(topic)+"*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(files)
	return files, nil
}

// Load merges every matching file into one corpus.
// Unreadable or malformed files are logged and skipped.
func (s *DirStore) Load(ctx context.Context, topic string) (model.Corpus, error) {
	corpus := model.Corpus{Topic: topic}

	files, err := s.Files(topic)
	if err != nil {
		return corpus, err
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return corpus, err
		}

		part, err := ReadCorpusFile(path)
		if err != nil {
			s.logger.Warn("skipping data file", zap.String("path", path), zap.Error(err))
			continue
		}
		corpus.Merge(part)
	}

	s.logger.Debug("loaded corpus",
		zap.String("topic", topic),
		zap.Int("files", len(files)),
		zap.Int("sources", len(corpus.Sources)),
		zap.Int("entries", len(corpus.ResearchData)))

	return corpus, nil
}

// Save writes a corpus to <topic>_<name>.json, merging into an existing file
func (s *DirStore) Save(corpus model.Corpus, name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	filename := NormalizeTopic(corpus.Topic)
	if name != "" {
		filename += "_" + NormalizeTopic(name)
	}
	path := filepath.Join(s.dir, filename+".json")

	if existing, err := ReadCorpusFile(path); err == nil {
		existing.Merge(corpus)
		existing.Topic = corpus.Topic
		corpus = existing
	} else if !os.IsNotExist(err) {
		return "", err
	}

	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode corpus: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// ReadCorpusFile decodes one {sources, research_data} JSON file
func ReadCorpusFile(path string) (model.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Corpus{}, err
	}

	var c model.Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Corpus{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return c, nil
}
