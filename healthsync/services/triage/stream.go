package triage

import (
	"context"
	"strings"

	"healthsync/healthsync/utils/types"
)

// AnalyzeStream is the websocket variant of Analyze: it forwards analysis
// chunks to the caller as they arrive, then runs classify and persist on the
// accumulated text. Persistence still happens on a detached context after
// the stream ends, so a dropped socket does not lose the session.
func (p *Pipeline) AnalyzeStream(ctx context.Context, patientID int, req types.SymptomRequest) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)

	input, err := Preprocess(patientID, req)
	if err != nil {
		p.collector.TriageRequestsTotal.WithLabelValues("validation_error").Inc()
		errCh <- err
		close(out)
		close(errCh)
		return out, errCh
	}

	chunks, err := p.reasoning.RunStream(ctx, SystemPrompt, input.CleanText)
	if err != nil {
		p.collector.TriageRequestsTotal.WithLabelValues("upstream_error").Inc()
		errCh <- &UpstreamServiceError{Backend: "reasoning", Err: err}
		close(out)
		close(errCh)
		return out, errCh
	}

	go func() {
		defer close(out)
		defer close(errCh)

		var full strings.Builder
		for chunk := range chunks {
			full.WriteString(chunk)
			select {
			case out <- chunk:
			case <-ctx.Done():
				// Keep draining so the accumulated text is complete enough
				// to classify and persist.
			}
		}

		analysis := full.String()
		if strings.TrimSpace(analysis) == "" {
			errCh <- &ValidationError{Detail: "empty analysis from reasoning backend"}
			return
		}

		advice := classifyAdvice(analysis)
		p.observeClassification(advice)

		persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		defer cancel()
		p.persistSession(persistCtx, input, analysis, advice)
		p.collector.TriageRequestsTotal.WithLabelValues("ok").Inc()
	}()

	return out, errCh
}
