// Package service ranks competition documents and records every run
// in the logs and metrics.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ezBadminton/ttrank/core"
	"github.com/ezBadminton/ttrank/internal/config"
	"github.com/ezBadminton/ttrank/internal/document"
	"github.com/ezBadminton/ttrank/internal/metrics"
	"github.com/ezBadminton/ttrank/internal/report"
)

// Service ranks documents with the default rules of its config.
// It is safe for concurrent use.
type Service struct {
	logger  *zap.Logger
	metrics *metrics.Manager

	matchRules core.MatchRules
	setRules   core.SetRules
	workers    int
}

// New creates a service. A nil logger discards the logs.
func New(cfg *config.Config, logger *zap.Logger, m *metrics.Manager) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewManager()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &Service{
		logger:     logger,
		metrics:    m,
		matchRules: cfg.Rules.MatchRules(),
		setRules:   cfg.Rules.SetRules(),
		workers:    workers,
	}
}

// Rank builds and ranks the document.
func (s *Service) Rank(ctx context.Context, doc *document.Document) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("competition", doc.Name))
	start := time.Now()

	rep, err := s.rank(doc)
	if err != nil {
		s.metrics.RecordRankingError()
		logger.Warn("ranking failed", zap.Error(err))
		return nil, err
	}
	rep.RunID = runID

	duration := time.Since(start)
	shared := rep.SharedPlaces()
	s.metrics.RecordRanking(duration, len(rep.Standings), len(rep.Unranked), shared)
	logger.Info("competition ranked",
		zap.Int("ranked", len(rep.Standings)),
		zap.Int("struck", len(rep.Unranked)),
		zap.Int("sets", len(rep.Sets)),
		zap.Int("shared", shared),
		zap.Duration("duration", duration),
	)

	return rep, nil
}

func (s *Service) rank(doc *document.Document) (*report.Report, error) {
	built, err := doc.Build(s.matchRules, s.setRules)
	if err != nil {
		return nil, err
	}

	ranking, err := built.Rank()
	if err != nil {
		return nil, err
	}

	return report.New(built.Name, built.Competition, ranking, built.MatchRules, built.SetRules)
}

// RankAll ranks the documents concurrently. The reports are in the
// order of the documents. The first error cancels the remaining runs
// and is returned.
func (s *Service) RankAll(ctx context.Context, docs []*document.Document) ([]*report.Report, error) {
	reports := make([]*report.Report, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, doc := range docs {
		g.Go(func() error {
			rep, err := s.Rank(ctx, doc)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
