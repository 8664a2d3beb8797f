package llm

import (
	"context"

	"healthsync/healthsync/sources/psql/models"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Stream         bool            `json:"stream,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// SymptomExtraction is the structured output of the extraction backend.
type SymptomExtraction struct {
	Symptoms        []models.Symptom `json:"symptoms"`
	ConfidenceScore float64          `json:"confidence_score"`
}

// ReasoningBackend produces the free-text triage analysis. Test doubles
// implement this instead of poking attributes on a real client.
type ReasoningBackend interface {
	Run(ctx context.Context, systemPrompt, userText string) (string, error)
	RunStream(ctx context.Context, systemPrompt, userText string) (<-chan string, error)
}

// ExtractionBackend converts a chat transcript into structured symptoms.
// Implementations recover from malformed model output themselves; an error
// return means the upstream call failed outright.
type ExtractionBackend interface {
	Extract(ctx context.Context, transcript string) (SymptomExtraction, error)
}
