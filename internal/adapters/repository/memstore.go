package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/metrics"
)

// Snapshot is an immutable, indexed copy of a Dataset.
type Snapshot struct {
	Dataset   Dataset
	Locations []string
	LoadedAt  time.Time
	Version   uint64
	skillsAt  map[string][]model.SkillRecord
	productAt map[string][]model.DailyProductionRecord
}

// MemoryStore keeps the dataset in memory. Readers never block: every
// Replace builds a fresh Snapshot and swaps the pointer.
type MemoryStore struct {
	snapshot              atomic.Pointer[Snapshot]
	version               atomic.Uint64
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore constructs an empty store and starts its metrics updater.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Replace implements Store.Replace.
func (s *MemoryStore) Replace(ctx context.Context, ds Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	for i, r := range ds.Skills {
		if err := r.Validate(); err != nil {
			metrics.RecordErrorByComponent("repository", "invalid_record")
			return fmt.Errorf("%w: skill record %d (%s): %w", ErrInvalidRecord, i, r.EmployeeID, err)
		}
	}

	snap := &Snapshot{
		Dataset:   ds,
		LoadedAt:  time.Now(),
		Version:   s.version.Add(1),
		skillsAt:  make(map[string][]model.SkillRecord),
		productAt: make(map[string][]model.DailyProductionRecord),
	}
	for _, r := range ds.Skills {
		snap.skillsAt[r.Location] = append(snap.skillsAt[r.Location], r)
	}
	for _, r := range ds.Production {
		snap.productAt[r.Location] = append(snap.productAt[r.Location], r)
	}
	seen := make(map[string]struct{})
	for loc := range snap.skillsAt {
		seen[loc] = struct{}{}
	}
	for loc := range snap.productAt {
		seen[loc] = struct{}{}
	}
	for loc := range seen {
		snap.Locations = append(snap.Locations, loc)
	}
	sort.Strings(snap.Locations)

	s.snapshot.Store(snap)

	metrics.RecordSnapshotPublished(float64(time.Since(start).Microseconds()) / 1000)
	s.updateMetrics()
	return nil
}

func (s *MemoryStore) current() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		metrics.RecordErrorByComponent("repository", "not_loaded")
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Snapshot returns the published snapshot, or nil before the first Replace.
func (s *MemoryStore) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Skills implements Store.Skills.
func (s *MemoryStore) Skills(ctx context.Context, f model.Filter) ([]model.SkillRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalysisLatency("repository_skills", float64(time.Since(start).Microseconds())/1000)
	}()

	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	if len(f.Locations) == 0 {
		return model.FilterSkills(snap.Dataset.Skills, f), nil
	}
	out := make([]model.SkillRecord, 0)
	for _, loc := range dedupe(f.Locations) {
		out = append(out, model.FilterSkills(snap.skillsAt[loc], f)...)
	}
	return out, nil
}

// Production implements Store.Production.
func (s *MemoryStore) Production(ctx context.Context, f model.Filter) ([]model.DailyProductionRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalysisLatency("repository_production", float64(time.Since(start).Microseconds())/1000)
	}()

	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	if len(f.Locations) == 0 {
		return model.FilterProduction(snap.Dataset.Production, f), nil
	}
	out := make([]model.DailyProductionRecord, 0)
	for _, loc := range dedupe(f.Locations) {
		out = append(out, model.FilterProduction(snap.productAt[loc], f)...)
	}
	return out, nil
}

// Location implements Store.Location.
func (s *MemoryStore) Location(ctx context.Context, name string) (LocationInfo, error) {
	snap, err := s.current()
	if err != nil {
		return LocationInfo{}, err
	}
	sk, pr := snap.skillsAt[name], snap.productAt[name]
	if len(sk) == 0 && len(pr) == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return LocationInfo{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return LocationInfo{Name: name, Employees: len(sk), Production: len(pr)}, nil
}

// Locations implements Store.Locations.
func (s *MemoryStore) Locations(ctx context.Context) []string {
	snap := s.snapshot.Load()
	if snap == nil {
		return []string{}
	}
	return append([]string(nil), snap.Locations...)
}

// Count implements Store.Count.
func (s *MemoryStore) Count(ctx context.Context) Counts {
	snap := s.snapshot.Load()
	if snap == nil {
		return Counts{}
	}
	return Counts{
		Skills:     len(snap.Dataset.Skills),
		Production: len(snap.Dataset.Production),
		Locations:  len(snap.Locations),
	}
}

// startMetricsUpdater starts a background goroutine that refreshes dataset gauges.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	c := s.Count(context.Background())
	metrics.UpdateDatasetRecords("skills", c.Skills)
	metrics.UpdateDatasetRecords("production", c.Production)
	metrics.UpdateDatasetLocations(c.Locations)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
