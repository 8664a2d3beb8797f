package triage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/types"
)

func TestAnalyzeStreamForwardsAndPersists(t *testing.T) {
	backend := &fakeReasoning{chunks: []string{"TRIAGE_", "SCHEDULE ", "Likely a migraine."}}
	p, db := setupPipeline(t, backend)

	out, errCh := p.AnalyzeStream(context.Background(), 6, types.SymptomRequest{SymptomText: "pounding headache"})

	var received []string
	for chunk := range out {
		received = append(received, chunk)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if strings.Join(received, "") != "TRIAGE_SCHEDULE Likely a migraine." {
		t.Errorf("chunks garbled: %q", received)
	}

	// Channels close only after the persist step, so the session is visible.
	var session models.ChatSession
	if err := db.First(&session).Error; err != nil {
		t.Fatalf("session never persisted: %v", err)
	}
	if session.ModelResponse != "TRIAGE_SCHEDULE Likely a migraine." {
		t.Errorf("persisted analysis wrong: %q", session.ModelResponse)
	}
	if session.TriageAdvice == nil || *session.TriageAdvice != string(ClassSchedule) {
		t.Errorf("persisted advice wrong: %v", session.TriageAdvice)
	}
}

func TestAnalyzeStreamEmptyInput(t *testing.T) {
	backend := &fakeReasoning{chunks: []string{"unused"}}
	p, _ := setupPipeline(t, backend)

	out, errCh := p.AnalyzeStream(context.Background(), 6, types.SymptomRequest{SymptomText: " "})
	for range out {
	}
	err := <-errCh
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if backend.calls != 0 {
		t.Errorf("backend must not be called on invalid input")
	}
}

func TestAnalyzeStreamUpstreamError(t *testing.T) {
	backend := &fakeReasoning{err: errors.New("boom")}
	p, _ := setupPipeline(t, backend)

	out, errCh := p.AnalyzeStream(context.Background(), 6, types.SymptomRequest{SymptomText: "chest pain"})
	for range out {
	}
	err := <-errCh
	var uerr *UpstreamServiceError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UpstreamServiceError, got %v", err)
	}
}
