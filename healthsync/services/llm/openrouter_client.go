package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"healthsync/healthsync/sources/psql/models"
	httputils "healthsync/healthsync/utils/http"
	"healthsync/healthsync/utils/jsonutils"
	"healthsync/healthsync/utils/logging"

	"go.uber.org/zap"
)

const extractionSystemPrompt = "You are a medical symptom analyzer. Extract symptoms from the patient's description. " +
	"For each symptom, identify: name, severity (1-10 if mentioned), duration (if mentioned), " +
	"and any specific description. Return ONLY JSON in this format: " +
	`{"symptoms": [{"name": "symptom name", "severity": severity_number, ` +
	`"duration": "duration_text", "description": "specific_details"}], ` +
	`"confidence_score": float_between_0_and_1}`

// OpenRouterClient talks to OpenRouter's OpenAI-compatible chat endpoint.
// It implements both ReasoningBackend and ExtractionBackend.
type OpenRouterClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *httputils.Client
}

func NewOpenRouterClient(baseURL, apiKey, model string, httpClient *httputils.Client) *OpenRouterClient {
	return &OpenRouterClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    httpClient,
	}
}

type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *OpenRouterClient) complete(ctx context.Context, req ChatRequest) (string, error) {
	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	var resp completionResponse
	if err := c.http.PostJSONWithAuth(ctx, url, c.apiKey, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenRouterClient) Run(ctx context.Context, systemPrompt, userText string) (string, error) {
	defer logging.LogDuration(ctx, "openrouter_run")()
	return c.complete(ctx, ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
	})
}

// RunStream streams completion deltas over SSE.
func (c *OpenRouterClient) RunStream(ctx context.Context, systemPrompt, userText string) (<-chan string, error) {
	defer logging.LogDuration(ctx, "openrouter_run_stream")()

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	body, err := c.http.PostStream(ctx, url, c.apiKey, ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Stream: true,
	})
	if err != nil {
		return nil, err
	}

	ch := make(chan string)

	go func() {
		defer func() {
			close(ch)
			body.Close()
		}()

		reader := bufio.NewReader(body)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					logging.ErrorLogger.Error("openrouter stream read error", zap.Error(err))
				}
				return
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "data:") {
				line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
			if line == "[DONE]" {
				return
			}

			var chunk struct {
				Choices []struct {
					Delta struct {
						Content string `json:"content"`
					} `json:"delta"`
				} `json:"choices"`
			}
			if err := json.Unmarshal([]byte(line), &chunk); err != nil {
				logging.ErrorLogger.Error("openrouter stream JSON parse error",
					zap.Error(err), zap.String("raw_line", line))
				continue
			}

			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				select {
				case ch <- choice.Delta.Content:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// Extract runs the structured symptom extraction prompt against the
// transcript. Malformed model output is salvaged via jsonutils; output that
// still will not parse degrades to an empty extraction rather than an error.
func (c *OpenRouterClient) Extract(ctx context.Context, transcript string) (SymptomExtraction, error) {
	defer logging.LogDuration(ctx, "openrouter_extract")()

	text, err := c.complete(ctx, ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: transcript},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return SymptomExtraction{}, err
	}

	var extraction SymptomExtraction
	if err := json.Unmarshal([]byte(jsonutils.ExtractJSON(text)), &extraction); err != nil {
		logging.ErrorLogger.Error("failed to parse symptom extraction",
			zap.String("raw_output", text))
		return SymptomExtraction{Symptoms: []models.Symptom{}, ConfidenceScore: 0}, nil
	}
	if extraction.Symptoms == nil {
		extraction.Symptoms = []models.Symptom{}
	}
	return extraction, nil
}
