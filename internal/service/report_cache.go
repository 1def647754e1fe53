package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadex/gradebook-api/internal/dto"
)

// ReportCache stores assembled subject reports in redis. Every mutation use
// case calls Invalidate before acknowledging, so a cached report can never
// outlive the snapshot it was built from. A nil client disables caching.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewReportCache constructs a report cache.
func NewReportCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "report_cache").Logger(),
	}
}

func reportCacheKey(subjectID uint) string {
	return fmt.Sprintf("report:subject:%d", subjectID)
}

// Get returns the cached report and whether it was found.
func (c *ReportCache) Get(ctx context.Context, subjectID uint) (dto.SubjectReportResponse, bool) {
	if c == nil || c.client == nil {
		return dto.SubjectReportResponse{}, false
	}

	cached, err := c.client.Get(ctx, reportCacheKey(subjectID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Uint("subject_id", subjectID).Msg("failed to read report cache")
		}
		return dto.SubjectReportResponse{}, false
	}

	var report dto.SubjectReportResponse
	if err := json.Unmarshal([]byte(cached), &report); err != nil {
		return dto.SubjectReportResponse{}, false
	}
	return report, true
}

// Set stores the report under the subject key.
func (c *ReportCache) Set(ctx context.Context, subjectID uint, report dto.SubjectReportResponse) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, reportCacheKey(subjectID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("subject_id", subjectID).Msg("failed to store report cache")
	}
}

// Invalidate drops the subject's cached report.
func (c *ReportCache) Invalidate(ctx context.Context, subjectID uint) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, reportCacheKey(subjectID)).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("subject_id", subjectID).Msg("failed to invalidate report cache")
	}
}
