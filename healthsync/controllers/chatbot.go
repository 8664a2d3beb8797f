package controllers

import (
	"context"

	"healthsync/healthsync/services/triage"
	"healthsync/healthsync/utils/types"
)

type ChatbotController struct {
	pipeline *triage.Pipeline
}

func NewChatbotController(pipeline *triage.Pipeline) *ChatbotController {
	return &ChatbotController{pipeline: pipeline}
}

func (c *ChatbotController) AnalyzeSymptoms(ctx context.Context, patientID int, req types.SymptomRequest) (*types.ChatbotResponse, error) {
	return c.pipeline.Analyze(ctx, patientID, req)
}

func (c *ChatbotController) AnalyzeSymptomsStream(ctx context.Context, patientID int, req types.SymptomRequest) (<-chan string, <-chan error) {
	return c.pipeline.AnalyzeStream(ctx, patientID, req)
}

func (c *ChatbotController) GetUserChats(ctx context.Context, patientID int) ([]types.ChatRoomChats, error) {
	return c.pipeline.History(ctx, patientID)
}
