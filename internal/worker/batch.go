package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/jtbd/internal/model"
)

// Processor routes one topic through triage and analysis
type Processor interface {
	ProcessTopic(ctx context.Context, topic string) (*model.Response, error)
}

// TopicJob processes a single topic
type TopicJob struct {
	Index     int // Position in the input, used to restore order
	Topic     string
	Processor Processor
}

// Execute runs the topic through the processor
func (j *TopicJob) Execute(ctx context.Context) Result {
	start := time.Now()
	resp, err := j.Processor.ProcessTopic(ctx, j.Topic)
	return &TopicResult{
		Index:    j.Index,
		Topic:    j.Topic,
		Response: resp,
		Error:    err,
		Duration: time.Since(start),
	}
}

// TopicResult is the outcome of one topic in a batch
type TopicResult struct {
	Index    int
	Topic    string
	Response *model.Response
	Error    error
	Duration time.Duration
}

// GetError returns the error from processing the topic
func (r *TopicResult) GetError() error {
	return r.Error
}

// BatchProcessor processes many topics concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessTopics runs every topic and returns results in input order
func (b *BatchProcessor) ProcessTopics(ctx context.Context, topics []string) []*TopicResult {
	if len(topics) == 0 {
		return []*TopicResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, topic := range topics {
		if !pool.Submit(&TopicJob{Index: i, Topic: topic, Processor: b.processor}) {
			break
		}
	}

	results := pool.Wait()

	topicResults := make([]*TopicResult, 0, len(topics))
	done := make(map[int]bool, len(results))
	for _, result := range results {
		r := result.(*TopicResult)
		done[r.Index] = true
		topicResults = append(topicResults, r)
	}

	// Topics that never ran because the context ended
	for i, topic := range topics {
		if !done[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			topicResults = append(topicResults, &TopicResult{Index: i, Topic: topic, Error: err})
		}
	}

	sort.Slice(topicResults, func(i, j int) bool {
		return topicResults[i].Index < topicResults[j].Index
	})

	return topicResults
}

// ProcessFile reads topics from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*TopicResult, error) {
	topics, err := ReadTopicsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}

	return b.ProcessTopics(ctx, topics), nil
}

// ReadTopicsFromFile reads one topic per line, skipping blanks, # comments and
// case-insensitive repeats
func ReadTopicsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var topics []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key := strings.ToLower(line)
		if !seen[key] {
			seen[key] = true
			topics = append(topics, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return topics, nil
}
