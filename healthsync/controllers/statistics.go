package controllers

import (
	"context"

	"healthsync/healthsync/services/statistics"
	"healthsync/healthsync/utils/types"
)

type StatisticsController struct {
	service *statistics.Service
}

func NewStatisticsController(service *statistics.Service) *StatisticsController {
	return &StatisticsController{service: service}
}

func (c *StatisticsController) Usage(ctx context.Context) (*types.UsageStatistics, error) {
	return c.service.UsageStatistics(ctx)
}
