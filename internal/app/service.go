// Package service provides the analysis service that implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/repository"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/source"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/kpi"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/scoring"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/synth"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/metrics"
)

// Dataset sources reported by GetStats.
const (
	SourceCSV       = "csv"
	SourceSynthetic = "synthetic"
	SourceProvided  = "provided"
)

// Service implements the analysis operations over the loaded dataset.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	hierarchy *catalog.Hierarchy
	scorer    *scoring.Scorer

	// Dataset source
	skillsCSV     string
	productionCSV string
	generator     synth.Config
	preset        *repository.Dataset

	// Analysis defaults
	benchmark     string
	quantiles     analysis.TierQuantiles
	impactWeights map[string]float64
	defaultWeight float64
	fallback      *float64
	maxScore      float64
	loss          kpi.LossParams
	targets       kpi.HealthTargets
	maxExportRows int

	// State
	started    bool
	ownedStore bool
	source     string
	batchID    string
	loadedAt   time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore uses an existing store instead of creating one on Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithHierarchy replaces the steel-plant skill hierarchy.
func WithHierarchy(h *catalog.Hierarchy) Option {
	return func(s *Service) {
		if h != nil {
			s.hierarchy = h
		}
	}
}

// WithDataFiles loads the dataset from CSV files on Start. The production
// file is optional.
func WithDataFiles(skillsPath, productionPath string) Option {
	return func(s *Service) {
		s.skillsCSV = skillsPath
		s.productionCSV = productionPath
	}
}

// WithGenerator sets the synthetic dataset used when no data files are set.
func WithGenerator(cfg synth.Config) Option {
	return func(s *Service) {
		s.generator = cfg
	}
}

// WithDataset publishes ds on Start instead of loading or generating one.
func WithDataset(ds repository.Dataset) Option {
	return func(s *Service) {
		s.preset = &ds
	}
}

// WithBenchmarkLocation sets the default benchmark site.
func WithBenchmarkLocation(location string) Option {
	return func(s *Service) {
		if location != "" {
			s.benchmark = location
		}
	}
}

// WithTierQuantiles sets the default tier quantiles.
func WithTierQuantiles(q analysis.TierQuantiles) Option {
	return func(s *Service) {
		s.quantiles = q
	}
}

// WithImpactWeights sets the per-skill or per-category impact weights.
func WithImpactWeights(weights map[string]float64, defaultWeight float64) Option {
	return func(s *Service) {
		s.impactWeights = weights
		if defaultWeight > 0 {
			s.defaultWeight = defaultWeight
		}
	}
}

// WithMissingBenchmarkFallback compares groups that have no benchmark
// counterpart against value instead of dropping them.
func WithMissingBenchmarkFallback(value float64) Option {
	return func(s *Service) {
		s.fallback = &value
	}
}

// WithMaxScore sets the top of the proficiency scale.
func WithMaxScore(maxScore float64) Option {
	return func(s *Service) {
		if maxScore > 0 {
			s.maxScore = maxScore
		}
	}
}

// WithLossParams sets the loss model of the executive summary.
func WithLossParams(p kpi.LossParams) Option {
	return func(s *Service) {
		s.loss = p
	}
}

// WithHealthTargets sets the targets of the monitoring view.
func WithHealthTargets(t kpi.HealthTargets) Option {
	return func(s *Service) {
		s.targets = t
	}
}

// WithMaxExportRows caps exported tables; zero exports every row.
func WithMaxExportRows(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxExportRows = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		hierarchy:     catalog.Default(),
		generator:     synth.DefaultConfig(),
		benchmark:     "JP",
		quantiles:     analysis.DefaultQuantiles,
		impactWeights: catalog.DefaultImpactWeights(),
		defaultWeight: 1.0,
		maxScore:      float64(model.MaxScore),
		loss:          kpi.DefaultLossParams(),
		targets:       kpi.DefaultHealthTargets(),
		maxExportRows: 10_000,
		logger:        nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.scorer = scoring.NewScorer(
		scoring.WithImpactWeights(s.impactWeights, s.defaultWeight),
		scoring.WithCategoryLookup(s.hierarchy.CategoryOf),
		scoring.WithMaxScore(s.maxScore),
	)
	return s
}

// Start loads the dataset into the store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analysis service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx)
		s.ownedStore = true
	}

	l, err := s.loadDataset(ctx, s.generator)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if err := s.store.Replace(ctx, l.dataset); err != nil {
		return fmt.Errorf("publish dataset: %w", err)
	}
	s.source, s.batchID, s.loadedAt = l.source, l.batchID, time.Now()

	s.started = true
	counts := s.store.Count(ctx)
	s.logger.Info(ctx, "analysis service started",
		logger.String("source", s.source),
		logger.String("benchmark", s.benchmark),
		logger.Int("skills", counts.Skills),
		logger.Int("production", counts.Production),
		logger.Int("locations", counts.Locations),
	)
	return nil
}

type loaded struct {
	dataset repository.Dataset
	source  string
	batchID string
}

func (s *Service) loadDataset(ctx context.Context, gen synth.Config) (loaded, error) {
	switch {
	case s.preset != nil:
		return loaded{dataset: *s.preset, source: SourceProvided}, nil

	case s.skillsCSV != "":
		s.log().Info(ctx, "loading dataset from csv",
			logger.String("skills", s.skillsCSV),
			logger.String("production", s.productionCSV))
		ds, err := source.LoadFiles(ctx, s.skillsCSV, s.productionCSV, source.WithCatalog(s.hierarchy))
		if err != nil {
			return loaded{}, err
		}
		return loaded{dataset: ds, source: SourceCSV}, nil

	default:
		start := time.Now()
		g, err := synth.New(gen, s.hierarchy)
		if err != nil {
			return loaded{}, err
		}
		res, err := g.Generate(ctx)
		if err != nil {
			return loaded{}, err
		}
		metrics.RecordDatasetLoadDuration(SourceSynthetic, float64(time.Since(start).Milliseconds()))
		return loaded{dataset: res.Dataset, source: SourceSynthetic, batchID: res.BatchID}, nil
	}
}

// ReloadResult describes a republished dataset.
type ReloadResult struct {
	Source     string    `json:"source"`
	BatchID    string    `json:"batch_id,omitempty"`
	Skills     int       `json:"skill_records"`
	Production int       `json:"production_records"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// Reload rebuilds the dataset from its source and publishes it. Queries keep
// reading the previous dataset until the new one is in place. A non-nil seed
// replaces the generator seed and has no effect on CSV or provided data.
func (s *Service) Reload(ctx context.Context, seed *int64) (out ReloadResult, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpReload, start, err) }(time.Now())

	s.mu.RLock()
	started, gen := s.started, s.generator
	s.mu.RUnlock()
	if !started {
		return out, ErrNotStarted
	}
	if seed != nil {
		gen.Seed = *seed
	}

	l, err := s.loadDataset(ctx, gen)
	if err != nil {
		return out, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return out, ErrNotStarted
	}
	if err := s.store.Replace(ctx, l.dataset); err != nil {
		return out, fmt.Errorf("publish dataset: %w", err)
	}
	s.generator = gen
	s.source, s.batchID, s.loadedAt = l.source, l.batchID, time.Now()

	counts := s.store.Count(ctx)
	s.log().Info(ctx, "dataset reloaded",
		logger.String("source", s.source),
		logger.String("batch", s.batchID),
		logger.Int("skills", counts.Skills),
		logger.Int("production", counts.Production))

	return ReloadResult{
		Source:     l.source,
		BatchID:    l.batchID,
		Skills:     counts.Skills,
		Production: counts.Production,
		LoadedAt:   s.loadedAt,
	}, nil
}

// Stop releases the store if the service created it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping analysis service...")

	if s.ownedStore {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		s.store = nil
		s.ownedStore = false
	}

	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped")
}

// Hierarchy returns the skill hierarchy in use.
func (s *Service) Hierarchy() *catalog.Hierarchy {
	return s.hierarchy
}

// Benchmark returns the default benchmark location.
func (s *Service) Benchmark() string {
	return s.benchmark
}

// Locations lists the sites of the loaded dataset.
func (s *Service) Locations(ctx context.Context) []string {
	store, err := s.ready()
	if err != nil {
		return []string{}
	}
	return store.Locations(ctx)
}

func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":   s.started,
		"benchmark": s.benchmark,
		"quantiles": s.quantiles,
		"presets":   scoring.Presets(),
		"metrics":   len(s.hierarchy.Skills()) + len(s.hierarchy.Categories()),
	}

	if s.started {
		counts := s.store.Count(ctx)
		stats["source"] = s.source
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["skillRecords"] = counts.Skills
		stats["productionRecords"] = counts.Production
		stats["locations"] = s.store.Locations(ctx)
		if s.batchID != "" {
			stats["batchId"] = s.batchID
		}

		metrics.UpdateDatasetRecords("skills", counts.Skills)
		metrics.UpdateDatasetRecords("production", counts.Production)
		metrics.UpdateDatasetLocations(counts.Locations)
	}

	return stats
}

// Quantiles returns the default tier quantiles.
func (s *Service) Quantiles() analysis.TierQuantiles {
	return s.quantiles
}

// GeneratorConfig returns the synthetic dataset settings.
func (s *Service) GeneratorConfig() synth.Config {
	return s.generator
}
