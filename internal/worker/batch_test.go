package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/jtbd/internal/model"
)

// MockProcessor implements Processor
type MockProcessor struct {
	FailTopic string
}

func (m *MockProcessor) ProcessTopic(ctx context.Context, topic string) (*model.Response, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if topic == m.FailTopic {
		return nil, errors.New("process error")
	}
	return &model.Response{
		Triage: model.TriageResult{Topic: topic, Completeness: model.CompletenessNone},
	}, nil
}

func writeTopicsFile(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "topics")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestBatchProcessor_ProcessTopics_KeepsInputOrder(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 3)
	topics := []string{"banking", "fitness", "meal planning", "travel", "pets"}

	results := processor.ProcessTopics(context.Background(), topics)

	if len(results) != len(topics) {
		t.Fatalf("expected %d results, got %d", len(topics), len(results))
	}
	for i, res := range results {
		if res.Topic != topics[i] {
			t.Errorf("expected %s at index %d, got %s", topics[i], i, res.Topic)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Topic, res.Error)
		}
		if res.Response == nil || res.Response.Triage.Topic != topics[i] {
			t.Errorf("expected response for %s", topics[i])
		}
	}
}

func TestBatchProcessor_ProcessTopics_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{FailTopic: "broken"}, 2)

	results := processor.ProcessTopics(context.Background(), []string{"ok", "broken"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].GetError() != nil {
		t.Errorf("expected no error for ok, got %v", results[0].Error)
	}
	if results[1].GetError() == nil {
		t.Error("expected error for broken topic")
	}
	if results[1].Response != nil {
		t.Error("expected nil response on error")
	}
}

func TestBatchProcessor_ProcessTopics_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2)

	results := processor.ProcessTopics(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessTopics_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatchProcessor(&MockProcessor{}, 2).ProcessTopics(ctx, []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("expected a result for every topic, got %d", len(results))
	}
	for _, res := range results {
		if res.Response != nil && res.Error != nil {
			t.Errorf("result for %s has both response and error", res.Topic)
		}
	}
}

func TestReadTopicsFromFile(t *testing.T) {
	path := writeTopicsFile(t, "online banking\n# comment\nFitness Tracking\n   \n  meal planning  \nonline BANKING\n")

	topics, err := ReadTopicsFromFile(path)
	if err != nil {
		t.Fatalf("ReadTopicsFromFile failed: %v", err)
	}

	expected := []string{"online banking", "Fitness Tracking", "meal planning"}
	if strings.Join(topics, "|") != strings.Join(expected, "|") {
		t.Errorf("expected %v, got %v", expected, topics)
	}
}

func TestReadTopicsFromFile_NonExistent(t *testing.T) {
	_, err := ReadTopicsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTopicsFile(t, "banking\nfitness\n# comment\n\ntravel\n")

	results, err := NewBatchProcessor(&MockProcessor{}, 2).ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	_, err := NewBatchProcessor(&MockProcessor{}, 2).ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestTopicResult_GetError(t *testing.T) {
	expected := errors.New("failed")
	r := &TopicResult{Topic: "banking", Error: expected}
	if r.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r.GetError())
	}
}

func TestBatchProcessor_ProcessTopics_MoreTopicsThanBuffers(t *testing.T) {
	topics := make([]string, 30)
	for i := range topics {
		topics[i] = fmt.Sprintf("topic %d", i)
	}

	done := make(chan []*TopicResult, 1)
	go func() {
		done <- NewBatchProcessor(&MockProcessor{}, 4).ProcessTopics(context.Background(), topics)
	}()

	var results []*TopicResult
	select {
	case results = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("batch of 30 topics on 4 workers did not finish")
	}

	if len(results) != len(topics) {
		t.Fatalf("expected %d results, got %d", len(topics), len(results))
	}
	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Topic, res.Error)
		}
		if res.Topic != topics[i] {
			t.Errorf("expected %s at index %d, got %s", topics[i], i, res.Topic)
		}
	}
}
