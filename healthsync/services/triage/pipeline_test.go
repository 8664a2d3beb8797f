package triage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"
	"healthsync/healthsync/utils/metrics"
	"healthsync/healthsync/utils/types"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- Helpers ---

type fakeReasoning struct {
	reply  string
	chunks []string
	err    error
	calls  int
}

func (f *fakeReasoning) Run(ctx context.Context, systemPrompt, userText string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeReasoning) RunStream(ctx context.Context, systemPrompt, userText string) (<-chan string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan string, len(f.chunks)+1)
	if len(f.chunks) > 0 {
		for _, chunk := range f.chunks {
			ch <- chunk
		}
	} else {
		ch <- f.reply
	}
	close(ch)
	return ch, nil
}

func setupPipeline(t *testing.T, backend *fakeReasoning) (*Pipeline, *gorm.DB) {
	t.Helper()
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.ChatRoom{}, &models.ChatSession{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	collector := metrics.NewCollector("healthsync_test")
	return NewPipeline(backend, dao.NewChatRoomDAO(db), dao.NewChatSessionDAO(db), collector), db
}

func intPtr(n int) *int { return &n }

// --- Preprocess ---

func TestPreprocessRejectsEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := Preprocess(1, types.SymptomRequest{SymptomText: text})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Preprocess(%q): expected ValidationError, got %v", text, err)
		}
	}
}

func TestPreprocessKeepsOriginalText(t *testing.T) {
	in, err := Preprocess(1, types.SymptomRequest{SymptomText: "  Severe Headache  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.OriginalText != "  Severe Headache  " {
		t.Errorf("original text mutated: %q", in.OriginalText)
	}
	if in.CleanText != "severe headache" {
		t.Errorf("expected lowercased trimmed text, got %q", in.CleanText)
	}
}

// --- Analyze ---

func TestAnalyzeClassifiesAndPersists(t *testing.T) {
	backend := &fakeReasoning{reply: "TRIAGE_SCHEDULE Likely a migraine. Book an appointment within a few days."}
	p, db := setupPipeline(t, backend)

	resp, err := p.Analyze(context.Background(), 7, types.SymptomRequest{SymptomText: "  I have a severe headache and nausea  "})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if resp.InputText != "  I have a severe headache and nausea  " {
		t.Errorf("input_text must echo the submitted text verbatim, got %q", resp.InputText)
	}
	if resp.TriageAdvice == nil || *resp.TriageAdvice != string(ClassSchedule) {
		t.Errorf("expected advice %q, got %v", ClassSchedule, resp.TriageAdvice)
	}
	if resp.Analysis != backend.reply {
		t.Errorf("analysis should carry the raw model response")
	}

	var session models.ChatSession
	if err := db.First(&session).Error; err != nil {
		t.Fatalf("expected a persisted session: %v", err)
	}
	if session.PatientID != 7 || session.InputText != resp.InputText {
		t.Errorf("session fields wrong: %+v", session)
	}
	if session.TriageAdvice == nil || *session.TriageAdvice != string(ClassSchedule) {
		t.Errorf("session advice wrong: %v", session.TriageAdvice)
	}
}

func TestAnalyzeNoSentinelYieldsNilAdvice(t *testing.T) {
	backend := &fakeReasoning{reply: "Drink plenty of water and rest. Nothing alarming here."}
	p, db := setupPipeline(t, backend)

	resp, err := p.Analyze(context.Background(), 1, types.SymptomRequest{SymptomText: "mild thirst"})
	if err != nil {
		t.Fatalf("a missing sentinel must not be an error: %v", err)
	}
	if resp.TriageAdvice != nil {
		t.Errorf("expected nil advice, got %q", *resp.TriageAdvice)
	}

	var session models.ChatSession
	if err := db.First(&session).Error; err != nil {
		t.Fatalf("session should still be persisted: %v", err)
	}
	if session.TriageAdvice != nil {
		t.Errorf("persisted advice should be nil, got %q", *session.TriageAdvice)
	}
}

func TestAnalyzeEmptyInputIsValidationError(t *testing.T) {
	backend := &fakeReasoning{reply: "TRIAGE_SELF_CARE rest"}
	p, _ := setupPipeline(t, backend)

	_, err := p.Analyze(context.Background(), 1, types.SymptomRequest{SymptomText: "   "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if backend.calls != 0 {
		t.Errorf("reasoning backend must not be called on invalid input")
	}
}

func TestAnalyzeUpstreamFailureAbortsPipeline(t *testing.T) {
	backend := &fakeReasoning{err: errors.New("connection refused")}
	p, db := setupPipeline(t, backend)

	_, err := p.Analyze(context.Background(), 1, types.SymptomRequest{SymptomText: "chest pain"})
	var uerr *UpstreamServiceError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UpstreamServiceError, got %v", err)
	}

	var count int64
	db.Model(&models.ChatSession{}).Count(&count)
	if count != 0 {
		t.Errorf("no session may be written when the backend fails, found %d", count)
	}
}

func TestAnalyzeEmptyModelResponseIsValidationError(t *testing.T) {
	backend := &fakeReasoning{reply: "   "}
	p, _ := setupPipeline(t, backend)

	_, err := p.Analyze(context.Background(), 1, types.SymptomRequest{SymptomText: "dizzy"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for blank analysis, got %v", err)
	}
}

func TestAnalyzeSurvivesPersistenceFailure(t *testing.T) {
	backend := &fakeReasoning{reply: "TRIAGE_IMMEDIATE Call emergency services now."}
	p, db := setupPipeline(t, backend)

	// Simulate storage being down; advice delivery must not depend on it.
	if err := db.Migrator().DropTable(&models.ChatSession{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	resp, err := p.Analyze(context.Background(), 1, types.SymptomRequest{SymptomText: "crushing chest pain"})
	if err != nil {
		t.Fatalf("Analyze must succeed even when the write fails: %v", err)
	}
	if resp.TriageAdvice == nil || *resp.TriageAdvice != string(ClassImmediateCare) {
		t.Errorf("expected immediate-care advice, got %v", resp.TriageAdvice)
	}
}

func TestAnalyzePersistsAfterClientDisconnect(t *testing.T) {
	backend := &fakeReasoning{reply: "TRIAGE_SELF_CARE Warm fluids and rest."}
	p, db := setupPipeline(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	resp, err := p.Analyze(ctx, 3, types.SymptomRequest{SymptomText: "sore throat"})
	cancel()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if resp.TriageAdvice == nil {
		t.Fatalf("expected advice")
	}

	var count int64
	db.Model(&models.ChatSession{}).Count(&count)
	if count != 1 {
		t.Errorf("expected one persisted session, got %d", count)
	}
}

// --- Room assignment ---

func TestAnalyzeAssignsSequentialRooms(t *testing.T) {
	backend := &fakeReasoning{reply: "TRIAGE_SELF_CARE rest"}
	p, db := setupPipeline(t, backend)

	for i := 0; i < 2; i++ {
		if _, err := p.Analyze(context.Background(), 5, types.SymptomRequest{SymptomText: fmt.Sprintf("symptom %d", i)}); err != nil {
			t.Fatalf("Analyze %d failed: %v", i, err)
		}
	}

	var rooms []models.ChatRoom
	if err := db.Order("room_number").Find(&rooms).Error; err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 2 || rooms[0].RoomNumber != 1 || rooms[1].RoomNumber != 2 {
		t.Errorf("expected rooms 1 and 2, got %+v", rooms)
	}
}

func TestAnalyzeExplicitRoomAppends(t *testing.T) {
	backend := &fakeReasoning{reply: "TRIAGE_SELF_CARE rest"}
	p, db := setupPipeline(t, backend)

	if _, err := p.Analyze(context.Background(), 5, types.SymptomRequest{SymptomText: "first"}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if _, err := p.Analyze(context.Background(), 5, types.SymptomRequest{SymptomText: "second", RoomNumber: intPtr(1)}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	var roomCount int64
	db.Model(&models.ChatRoom{}).Count(&roomCount)
	if roomCount != 1 {
		t.Errorf("explicit room must reuse the existing room, got %d rooms", roomCount)
	}
	var sessionCount int64
	db.Model(&models.ChatSession{}).Count(&sessionCount)
	if sessionCount != 2 {
		t.Errorf("expected 2 sessions in room 1, got %d", sessionCount)
	}
}

// --- History ---

func TestHistoryGroupsByRoomAscending(t *testing.T) {
	backend := &fakeReasoning{reply: "TRIAGE_SCHEDULE see a doctor"}
	p, _ := setupPipeline(t, backend)
	ctx := context.Background()

	// Two sessions in room 1, one in room 2.
	if _, err := p.Analyze(ctx, 9, types.SymptomRequest{SymptomText: "first complaint"}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if _, err := p.Analyze(ctx, 9, types.SymptomRequest{SymptomText: "follow-up", RoomNumber: intPtr(1)}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if _, err := p.Analyze(ctx, 9, types.SymptomRequest{SymptomText: "new complaint"}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	grouped, err := p.History(ctx, 9)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("expected 2 room groups, got %d", len(grouped))
	}
	if grouped[0].RoomNumber != 1 || grouped[1].RoomNumber != 2 {
		t.Errorf("rooms must be ascending, got %d then %d", grouped[0].RoomNumber, grouped[1].RoomNumber)
	}
	if len(grouped[0].Chats) != 2 {
		t.Fatalf("expected 2 chats in room 1, got %d", len(grouped[0].Chats))
	}
	// Newest first within a room.
	if grouped[0].Chats[0].InputText != "follow-up" || grouped[0].Chats[1].InputText != "first complaint" {
		t.Errorf("room 1 chats out of order: %q, %q", grouped[0].Chats[0].InputText, grouped[0].Chats[1].InputText)
	}
	if grouped[1].Chats[0].InputText != "new complaint" {
		t.Errorf("room 2 chat wrong: %q", grouped[1].Chats[0].InputText)
	}
}

func TestHistoryEmptyPatient(t *testing.T) {
	backend := &fakeReasoning{reply: "TRIAGE_SELF_CARE rest"}
	p, _ := setupPipeline(t, backend)

	grouped, err := p.History(context.Background(), 42)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(grouped) != 0 {
		t.Errorf("expected no groups for unknown patient, got %d", len(grouped))
	}
}
