package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/yudhapratama/manpower/internal/config"
	"github.com/yudhapratama/manpower/pkg/core/model"
	"github.com/yudhapratama/manpower/pkg/db"
)

// GenerateRequestsResult contains the generation outcome
type GenerateRequestsResult struct {
	Start     string
	End       string
	Templates int
	Generated int
	Saved     bool
}

// GenerateRequestsStore defines the database operations needed for
// generating recurring requests
type GenerateRequestsStore interface {
	InsertRequests(ctx context.Context, requests []db.RequestRecord) error
}

// GenerateRequests expands the configured recurring request templates over a
// date window into pending request rows. Each rrule occurrence becomes one
// request with the template's headcounts.
// If dryRun is true, generated requests are not saved to the database.
func GenerateRequests(
	ctx context.Context,
	database GenerateRequestsStore,
	cfg *config.Config,
	startDate string,
	days int,
	logger *zap.Logger,
	dryRun bool,
) (*GenerateRequestsResult, error) {
	logger.Debug("Starting generateRequests",
		zap.String("start", startDate),
		zap.Int("days", days),
		zap.Bool("dry_run", dryRun))

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date format: %w", err)
	}
	if days < 1 {
		return nil, fmt.Errorf("days must be at least 1, got %d", days)
	}
	end := start.AddDate(0, 0, days-1)

	if len(cfg.RequestTemplates) == 0 {
		return nil, fmt.Errorf("no request templates configured")
	}

	generated := make([]db.RequestRecord, 0)
	for i, template := range cfg.RequestTemplates {
		rule, err := rrule.StrToRRule(template.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in template %d: %w", i, err)
		}
		rule.DTStart(start)

		occurrences := rule.Between(start, end, true)
		logger.Debug("Expanded template",
			zap.Int("index", i),
			zap.String("subsection_id", template.SubsectionID),
			zap.Int("occurrences", len(occurrences)))

		for _, occurrence := range occurrences {
			date := occurrence.Format("2006-01-02")
			generated = append(generated, db.RequestRecord{
				ID:              uuid.New().String(),
				Date:            date,
				SubsectionID:    template.SubsectionID,
				SectionID:       template.SectionID,
				RequestedAmount: template.RequestedAmount,
				MaleCount:       template.MaleCount,
				FemaleCount:     template.FemaleCount,
				Status:          string(model.RequestPending),
				LineManaged:     template.LineManaged || cfg.IsLineManagedSubsection(template.SubsectionID),
			})
		}
	}

	logger.Info("Generated requests",
		zap.Int("templates", len(cfg.RequestTemplates)),
		zap.Int("count", len(generated)))

	result := &GenerateRequestsResult{
		Start:     startDate,
		End:       end.Format("2006-01-02"),
		Templates: len(cfg.RequestTemplates),
		Generated: len(generated),
	}

	if dryRun {
		logger.Info("Dry run mode - requests not saved")
		return result, nil
	}

	if err := database.InsertRequests(ctx, generated); err != nil {
		return nil, fmt.Errorf("failed to save requests: %w", err)
	}
	logger.Info("Requests saved", zap.Int("count", len(generated)))

	result.Saved = true
	return result, nil
}
