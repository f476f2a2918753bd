package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/internal/analysis"
	"github.com/ovacare/pcos-assistant/internal/doctors"
	"github.com/ovacare/pcos-assistant/internal/insight"
	"github.com/ovacare/pcos-assistant/internal/store"
	"github.com/ovacare/pcos-assistant/pkg/model"
)

// Risk scores assigned when the report is synthesized locally from the
// qualitative insight level
var fallbackScores = map[model.IndicatorLevel]struct {
	score int
	level model.IndicatorLevel
}{
	model.LevelHigh:         {72, model.LevelHigh},
	model.LevelModerate:     {48, model.LevelModerate},
	model.LevelLow:          {24, model.LevelLow},
	model.LevelInsufficient: {16, model.LevelLow},
}

// CloudStore is the optional hosted mirror the pipeline pushes entries to.
// LatestEntry serves the results surface when the local store is empty.
type CloudStore interface {
	InsertEntry(ctx context.Context, entry model.HealthEntry) error
	LatestEntry(ctx context.Context) (model.HealthEntry, bool, error)
	DatasetStats(ctx context.Context) (model.DatasetStats, error)
}

// RemoteAnalyzer produces a report from a hosted analysis service
type RemoteAnalyzer interface {
	Enabled() bool
	Analyze(ctx context.Context, entry model.HealthEntry) (model.AnalysisReport, error)
}

// SubmissionPipeline turns a finalized entry into exactly one analysis
// report. Persistence and cloud failures are logged, never surfaced: a
// submission always yields a report.
type SubmissionPipeline struct {
	store    store.Store
	cloud    CloudStore // nil when not configured
	analyzer RemoteAnalyzer
	logger   *zap.Logger
	now      func() time.Time
}

// NewSubmissionPipeline wires the pipeline. cloud may be nil.
func NewSubmissionPipeline(st store.Store, cloud CloudStore, analyzer RemoteAnalyzer, logger *zap.Logger) *SubmissionPipeline {
	return &SubmissionPipeline{
		store:    st,
		cloud:    cloud,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes the submission sequence: record the entry locally, mirror it
// to the cloud best-effort, analyze remotely when possible and synthesize
// locally otherwise, then persist the report.
func (p *SubmissionPipeline) Run(ctx context.Context, entry model.HealthEntry) model.AnalysisReport {
	if err := p.store.AppendEntry(ctx, entry); err != nil {
		p.logger.Error("failed to record entry locally", zap.Error(err))
	}

	if p.cloud != nil {
		go p.mirrorToCloud(entry)
	}

	report, remote := p.analyze(ctx, entry)
	if !remote {
		report = p.synthesize(ctx, entry)
	}
	report.GeneratedAt = p.now().UTC()

	if err := p.store.SaveLastAnalysis(ctx, report); err != nil {
		p.logger.Error("failed to persist analysis report", zap.Error(err))
	}
	return report
}

func (p *SubmissionPipeline) analyze(ctx context.Context, entry model.HealthEntry) (model.AnalysisReport, bool) {
	if p.analyzer == nil || !p.analyzer.Enabled() {
		return model.AnalysisReport{}, false
	}

	report, err := p.analyzer.Analyze(ctx, entry)
	if err != nil {
		p.logger.Warn("remote analysis unavailable, falling back locally", zap.Error(err))
		return model.AnalysisReport{}, false
	}

	if len(report.Specialists) == 0 {
		report.Specialists = p.specialists(entry, report.RiskLevel)
	}
	return report, true
}

// synthesize builds the fallback report from the deterministic insight
// engine and the full local analyzer
func (p *SubmissionPipeline) synthesize(ctx context.Context, entry model.HealthEntry) model.AnalysisReport {
	stats := p.datasetStats(ctx)

	result := insight.Compute(entry)
	mapped := fallbackScores[result.Level]

	report := analysis.Analyze(entry, stats)
	report.RiskScore = mapped.score
	report.RiskLevel = mapped.level
	report.Recommendations = insight.CareSuggestions(entry)
	report.Source = model.SourceLocalFallback
	report.Specialists = p.specialists(entry, mapped.level)

	return report
}

func (p *SubmissionPipeline) specialists(entry model.HealthEntry, level model.IndicatorLevel) []model.Specialist {
	if entry.City == "" {
		return nil
	}
	return doctors.Recommend(entry.City, level, entry.Symptoms).PrimaryDoctors
}

func (p *SubmissionPipeline) datasetStats(ctx context.Context) model.DatasetStats {
	if p.cloud == nil {
		return model.DefaultDatasetStats()
	}
	stats, err := p.cloud.DatasetStats(ctx)
	if err != nil {
		p.logger.Warn("dataset stats unavailable", zap.Error(err))
		return model.DefaultDatasetStats()
	}
	return stats
}

func (p *SubmissionPipeline) mirrorToCloud(entry model.HealthEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.cloud.InsertEntry(ctx, entry); err != nil {
		p.logger.Warn("cloud mirror failed", zap.Error(err))
		return
	}
	p.logger.Debug("entry mirrored to cloud")
}
