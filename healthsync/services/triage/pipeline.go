package triage

import (
	"context"
	"sort"
	"strings"
	"time"

	"healthsync/healthsync/services/llm"
	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"
	"healthsync/healthsync/utils/metrics"
	"healthsync/healthsync/utils/types"

	"go.uber.org/zap"
)

// SystemPrompt instructs the model to assume a doctor persona and lead the
// answer with exactly one sentinel token.
const SystemPrompt = "You are a highly qualified medical doctor with extensive expertise in diagnosing common " +
	"ailments and providing accurate, actionable recommendations. Read the patient's symptom " +
	"description carefully and then provide a concise evaluation that includes a clear recommendation. " +
	"IMPORTANT: Begin your response with one keyword that precisely indicates the appropriate triage: " +
	"'TRIAGE_IMMEDIATE' if the patient should seek immediate emergency care, " +
	"'TRIAGE_SCHEDULE' if scheduling a doctor's appointment is advised, or " +
	"'TRIAGE_SELF_CARE' if the symptoms can be managed with self-care/home remedies. " +
	"Your answer should then follow with detailed yet focused advice."

const persistTimeout = 5 * time.Second

// PreprocessedInput is the cleaned-up form of a symptom report.
type PreprocessedInput struct {
	OriginalText string
	CleanText    string
	PatientID    int
	RoomNumber   *int
}

// Pipeline turns one symptom report into a classified, persisted chat
// session: preprocess -> reasoning call -> validate -> classify -> persist.
// Stages run strictly in sequence; the first four abort on failure, the
// persist stage does not.
type Pipeline struct {
	reasoning llm.ReasoningBackend
	rooms     *dao.ChatRoomDAO
	sessions  *dao.ChatSessionDAO
	collector *metrics.Collector
}

func NewPipeline(reasoning llm.ReasoningBackend, rooms *dao.ChatRoomDAO, sessions *dao.ChatSessionDAO, collector *metrics.Collector) *Pipeline {
	return &Pipeline{
		reasoning: reasoning,
		rooms:     rooms,
		sessions:  sessions,
		collector: collector,
	}
}

// Preprocess trims and case-folds the symptom text. Empty text after
// trimming is the only validation failure.
func Preprocess(patientID int, req types.SymptomRequest) (PreprocessedInput, error) {
	clean := strings.ToLower(strings.TrimSpace(req.SymptomText))
	if clean == "" {
		return PreprocessedInput{}, &ValidationError{Detail: "symptom text must not be empty"}
	}
	return PreprocessedInput{
		OriginalText: req.SymptomText,
		CleanText:    clean,
		PatientID:    patientID,
		RoomNumber:   req.RoomNumber,
	}, nil
}

// Analyze runs the full pipeline for one symptom report. The returned
// response always reflects the computed triage result; a failed session
// write is logged and swallowed so advice delivery never depends on storage
// availability.
func (p *Pipeline) Analyze(ctx context.Context, patientID int, req types.SymptomRequest) (*types.ChatbotResponse, error) {
	defer logging.LogDuration(ctx, "triage_pipeline_analyze")()

	input, err := Preprocess(patientID, req)
	if err != nil {
		p.collector.TriageRequestsTotal.WithLabelValues("validation_error").Inc()
		return nil, err
	}

	start := time.Now()
	analysis, err := p.reasoning.Run(ctx, SystemPrompt, input.CleanText)
	p.collector.UpstreamDuration.WithLabelValues("reasoning").Observe(time.Since(start).Seconds())
	if err != nil {
		p.collector.TriageRequestsTotal.WithLabelValues("upstream_error").Inc()
		logging.ErrorLogger.Error("reasoning backend call failed",
			zap.Int("patient_id", patientID), zap.Error(err))
		return nil, &UpstreamServiceError{Backend: "reasoning", Err: err}
	}

	if strings.TrimSpace(analysis) == "" {
		p.collector.TriageRequestsTotal.WithLabelValues("validation_error").Inc()
		return nil, &ValidationError{Detail: "empty analysis from reasoning backend"}
	}

	advice := classifyAdvice(analysis)
	p.observeClassification(advice)

	// Persist on a detached context: a dropped client connection after the
	// reasoning call must not abort the write.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	p.persistSession(persistCtx, input, analysis, advice)

	p.collector.TriageRequestsTotal.WithLabelValues("ok").Inc()
	return &types.ChatbotResponse{
		InputText:     input.OriginalText,
		Analysis:      analysis,
		TriageAdvice:  advice,
		ModelResponse: &analysis,
	}, nil
}

func classifyAdvice(analysis string) *string {
	if class, ok := Classify(analysis); ok {
		s := string(class)
		return &s
	}
	return nil
}

func (p *Pipeline) observeClassification(advice *string) {
	level := "unknown"
	if advice != nil {
		level = *advice
	}
	p.collector.ClassificationsTotal.WithLabelValues(level).Inc()
}

func (p *Pipeline) persistSession(ctx context.Context, input PreprocessedInput, analysis string, advice *string) {
	room, err := p.rooms.GetOrCreateRoom(ctx, input.PatientID, input.RoomNumber)
	if err != nil {
		logging.ErrorLogger.Error("failed to resolve chat room",
			zap.Int("patient_id", input.PatientID), zap.Error(err))
		return
	}

	session := models.ChatSession{
		PatientID:     input.PatientID,
		ChatRoomID:    room.ID,
		InputText:     input.OriginalText,
		ModelResponse: analysis,
		TriageAdvice:  advice,
	}
	if err := p.sessions.CreateSession(ctx, &session); err != nil {
		logging.ErrorLogger.Error("failed to save chat session",
			zap.Int("patient_id", input.PatientID), zap.Error(err))
		return
	}

	logging.AppLogger.Info("chat session recorded",
		zap.Int("patient_id", input.PatientID),
		zap.Int("session_id", session.ID),
		zap.Int("room_number", room.RoomNumber),
	)
}

// History returns the patient's sessions grouped by room, room numbers
// ascending, sessions newest first within each room.
func (p *Pipeline) History(ctx context.Context, patientID int) ([]types.ChatRoomChats, error) {
	sessions, err := p.sessions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, &PersistenceError{Op: "list chat sessions", Err: err}
	}

	groups := map[int][]types.ChatSessionOut{}
	order := []int{}
	for _, session := range sessions {
		rn := session.ChatRoom.RoomNumber
		if _, seen := groups[rn]; !seen {
			order = append(order, rn)
		}
		groups[rn] = append(groups[rn], types.ChatSessionOut{
			ID:           session.ID,
			RoomNumber:   rn,
			InputText:    session.InputText,
			Analysis:     session.ModelResponse,
			TriageAdvice: session.TriageAdvice,
			CreatedAt:    session.CreatedAt,
		})
	}

	sort.Ints(order)
	grouped := make([]types.ChatRoomChats, 0, len(order))
	for _, rn := range order {
		grouped = append(grouped, types.ChatRoomChats{RoomNumber: rn, Chats: groups[rn]})
	}
	return grouped, nil
}
