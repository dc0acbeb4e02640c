package toolspec

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bgg292/toolsmith/internal/llm"
)

// scriptedLLM returns canned responses in order and records requests.
type scriptedLLM struct {
	responses []string
	err       error
	requests  []llm.Request
}

func (s *scriptedLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	if len(s.requests) > len(s.responses) {
		return "", errors.New("unexpected extra request")
	}
	return s.responses[len(s.requests)-1], nil
}

const validSpec = `{"slug":"case-converter","title":"Case Converter","description":"Converts text case","placeholder_ui":"","behavior_notes":""}`

func TestProposeFirstAttempt(t *testing.T) {
	fake := &scriptedLLM{responses: []string{validSpec}}
	r, err := NewRequester(fake, nil)
	if err != nil {
		t.Fatal(err)
	}

	spec, err := r.Propose(context.Background())
	if err != nil {
		t.Fatalf("Propose() error: %v", err)
	}
	if spec.Title != "Case Converter" {
		t.Errorf("Title = %q", spec.Title)
	}
	if len(fake.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(fake.requests))
	}
	req := fake.requests[0]
	if !req.JSON {
		t.Error("request should ask for JSON output")
	}
	if req.Temperature == nil || *req.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", req.Temperature)
	}
	for _, field := range []string{"slug", "title", "description", "placeholder_ui", "behavior_notes"} {
		if !strings.Contains(req.Instructions, field) {
			t.Errorf("instructions do not name field %q", field)
		}
	}
}

func TestProposeRetriesOnce(t *testing.T) {
	fake := &scriptedLLM{responses: []string{"not json at all", validSpec}}
	r, _ := NewRequester(fake, nil)

	spec, err := r.Propose(context.Background())
	if err != nil {
		t.Fatalf("Propose() error: %v", err)
	}
	if spec.Slug != "case-converter" {
		t.Errorf("Slug = %q", spec.Slug)
	}
	if len(fake.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(fake.requests))
	}
	if !strings.Contains(fake.requests[1].Instructions, "no code fences") {
		t.Error("retry should use the stricter instruction")
	}
	if strings.Contains(fake.requests[0].Instructions, "no code fences") {
		t.Error("first attempt should use the base instruction")
	}
}

func TestProposeRetriesBlankTitle(t *testing.T) {
	fake := &scriptedLLM{responses: []string{`{"slug":"x-y","title":"   "}`, validSpec}}
	r, _ := NewRequester(fake, nil)

	spec, err := r.Propose(context.Background())
	if err != nil {
		t.Fatalf("Propose() error: %v", err)
	}
	if len(fake.requests) != 2 {
		t.Errorf("requests = %d, want 2", len(fake.requests))
	}
	if spec.Title != "Case Converter" {
		t.Errorf("Title = %q", spec.Title)
	}
}

func TestProposeFailsAfterSecondMalformed(t *testing.T) {
	fake := &scriptedLLM{responses: []string{"{oops", "```json\n{}\n```", validSpec}}
	r, _ := NewRequester(fake, nil)

	_, err := r.Propose(context.Background())
	if !errors.Is(err, ErrMalformedSpec) {
		t.Fatalf("Propose() error = %v, want ErrMalformedSpec", err)
	}
	if len(fake.requests) != 2 {
		t.Errorf("requests = %d, want exactly 2", len(fake.requests))
	}
}

func TestProposeDoesNotRetryTransportErrors(t *testing.T) {
	boom := errors.New("connection refused")
	fake := &scriptedLLM{err: boom}
	r, _ := NewRequester(fake, nil)

	_, err := r.Propose(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Propose() error = %v, want %v", err, boom)
	}
	if len(fake.requests) != 1 {
		t.Errorf("requests = %d, want 1", len(fake.requests))
	}
}

func TestNewRequesterRequiresClient(t *testing.T) {
	if _, err := NewRequester(nil, nil); err == nil {
		t.Error("expected error for nil client")
	}
}
