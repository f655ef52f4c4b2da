package kafka

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jmespath/go-jmespath"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

const (
	// DefaultTranscriptPath selects the transcript from an envelope or takes
	// the whole message when it is a bare transcript
	DefaultTranscriptPath = "transcript || @"

	// DefaultDocumentIDPath selects the document id from an envelope
	DefaultDocumentIDPath = "id || transcript.id"
)

// Envelope locates the transcript and its document id inside an incoming
// message with JMESPath expressions. Compiled expressions are cached.
type Envelope struct {
	TranscriptPath string
	DocumentIDPath string

	cache map[string]*jmespath.JMESPath
	mu    sync.RWMutex
}

// NewEnvelope creates an Envelope; empty paths fall back to the defaults
func NewEnvelope(transcriptPath, documentIDPath string) *Envelope {
	if transcriptPath == "" {
		transcriptPath = DefaultTranscriptPath
	}
	if documentIDPath == "" {
		documentIDPath = DefaultDocumentIDPath
	}
	return &Envelope{
		TranscriptPath: transcriptPath,
		DocumentIDPath: documentIDPath,
		cache:          make(map[string]*jmespath.JMESPath),
	}
}

// Validate compiles both expressions
func (e *Envelope) Validate() error {
	for _, expr := range []string{e.TranscriptPath, e.DocumentIDPath} {
		if _, err := e.getOrCompile(expr); err != nil {
			return fmt.Errorf("invalid expression %q: %w", expr, err)
		}
	}
	return nil
}

// Decode extracts the transcript from a JSON message. The document id
// expression fills the transcript id when the transcript carries none.
func (e *Envelope) Decode(value []byte) (*models.Transcript, error) {
	var data interface{}
	if err := json.Unmarshal(value, &data); err != nil {
		return nil, fmt.Errorf("message is not valid JSON: %w", err)
	}

	raw, err := e.evaluate(e.TranscriptPath, data)
	if err != nil {
		return nil, err
	}
	if _, ok := raw.(map[string]interface{}); !ok {
		return nil, fmt.Errorf("expression %q did not select an object", e.TranscriptPath)
	}

	// round trip through JSON to reuse the transcript decoder
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}
	var transcript models.Transcript
	if err := json.Unmarshal(encoded, &transcript); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}

	if transcript.ID == "" {
		id, err := e.evaluate(e.DocumentIDPath, data)
		if err != nil {
			return nil, err
		}
		switch v := id.(type) {
		case nil:
		case string:
			transcript.ID = v
		default:
			transcript.ID = fmt.Sprintf("%v", v)
		}
	}

	return &transcript, nil
}

func (e *Envelope) evaluate(expression string, data interface{}) (interface{}, error) {
	compiled, err := e.getOrCompile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}

	result, err := compiled.Search(data)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

func (e *Envelope) getOrCompile(expression string) (*jmespath.JMESPath, error) {
	e.mu.RLock()
	compiled, ok := e.cache[expression]
	e.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if compiled, ok := e.cache[expression]; ok {
		return compiled, nil
	}

	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, err
	}
	e.cache[expression] = compiled
	return compiled, nil
}
