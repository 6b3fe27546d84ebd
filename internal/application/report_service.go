package application

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/productivity-service/internal/analytics"
	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/metrics"
	"github.com/wms-platform/productivity-service/pkg/tracing"
)

// Report names
const (
	ReportWorkerLeaderboard = "worker_leaderboard"
	ReportShiftLeaderboard  = "shift_leaderboard"
	ReportItemVelocity      = "item_velocity"
	ReportZoneThroughput    = "zone_throughput"
	ReportPickDurationStats = "pick_duration_stats"
)

// Worker leaderboard tier buckets
const (
	TierHigh     = "high"
	TierStandard = "standard"
	TierLow      = "low"
)

// Pipeline stage names used in error wrapping and stage metrics
const (
	stageQuery     = "query"
	stageAggregate = "aggregate"
	stageEnrich    = "enrich"
	stageSummarize = "summarize"
	stageRank      = "rank"
)

// ReportConfig holds report policy defaults
type ReportConfig struct {
	// WorkerPicksBaseline is the picks-per-window threshold the worker
	// leaderboard tier buckets against: high at 2x the baseline and
	// above, standard at 1x and above, low below.
	WorkerPicksBaseline float64
}

// DefaultReportConfig returns the default report configuration
func DefaultReportConfig() ReportConfig {
	return ReportConfig{WorkerPicksBaseline: 50}
}

// ReportService composes the fixed report pipelines: event store snapshot,
// aggregation, optional secondary aggregation, ranking. Each pipeline is
// parameterized at call time by an explicit window plus report policies.
type ReportService struct {
	store   domain.EventStore
	workers domain.WorkerRepository
	zones   domain.ZoneRepository
	items   domain.ItemRepository
	catalog domain.Catalog
	config  ReportConfig
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewReportService creates a new ReportService
func NewReportService(
	store domain.EventStore,
	workers domain.WorkerRepository,
	zones domain.ZoneRepository,
	items domain.ItemRepository,
	catalog domain.Catalog,
	config ReportConfig,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ReportService {
	if config.WorkerPicksBaseline <= 0 {
		config.WorkerPicksBaseline = DefaultReportConfig().WorkerPicksBaseline
	}
	return &ReportService{
		store:   store,
		workers: workers,
		zones:   zones,
		items:   items,
		catalog: catalog,
		config:  config,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("report-service"),
	}
}

func (w Window) validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return errors.ErrValidation("report window requires both from and to")
	}
	if w.To.Before(w.From) {
		return errors.ErrValidation("report window end precedes start").
			WithDetail("from", w.From.Format(time.RFC3339)).
			WithDetail("to", w.To.Format(time.RFC3339))
	}
	return nil
}

// reportStage times one pipeline stage and wraps its error with the report
// name and stage so failures identify their origin.
func reportStage[T any](ctx context.Context, s *ReportService, report, stage string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	result, err := fn(ctx)
	if s.metrics != nil {
		s.metrics.RecordReportStage(report, stage, time.Since(start))
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("report %s: %s stage: %w", report, stage, err)
	}
	return result, nil
}

// queryWindow retrieves the completed events inside the window. Bounded
// filters match completion times only, so open picks never contribute.
func (s *ReportService) queryWindow(ctx context.Context, report string, w Window) ([]*domain.PickEvent, error) {
	return reportStage(ctx, s, report, stageQuery, func(ctx context.Context) ([]*domain.PickEvent, error) {
		from, to := w.From, w.To
		return s.store.Query(ctx, domain.EventFilter{From: &from, To: &to})
	})
}

func (s *ReportService) meta(report string, w Window) ReportMeta {
	return ReportMeta{
		Report:      report,
		From:        w.From,
		To:          w.To,
		GeneratedAt: time.Now().UTC(),
	}
}

func (s *ReportService) recordReport(report string, rows int, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordReport(report, rows, err == nil)
}

// tierFor buckets a pick count against the configured baseline
func (s *ReportService) tierFor(picks int) string {
	baseline := s.config.WorkerPicksBaseline
	switch {
	case float64(picks) >= 2*baseline:
		return TierHigh
	case float64(picks) >= baseline:
		return TierStandard
	default:
		return TierLow
	}
}

func statKeys(stats map[string]*analytics.GroupStats) []string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	return keys
}

// WorkerLeaderboard generates the worker leaderboard: per-worker pick
// counts, units, short picks and average duration, gapped-ranked by picks
// descending, with a tier bucket per row.
func (s *ReportService) WorkerLeaderboard(ctx context.Context, query WorkerLeaderboardQuery) (*WorkerLeaderboardReport, error) {
	report, err := tracing.TracedOperation(ctx, s.tracer, "report."+ReportWorkerLeaderboard,
		func(ctx context.Context) (*WorkerLeaderboardReport, error) {
			return s.workerLeaderboard(ctx, query)
		})

	rows := 0
	if report != nil {
		rows = len(report.Rows)
	}
	s.recordReport(ReportWorkerLeaderboard, rows, err)
	return report, err
}

func (s *ReportService) workerLeaderboard(ctx context.Context, query WorkerLeaderboardQuery) (*WorkerLeaderboardReport, error) {
	if err := query.Window.validate(); err != nil {
		return nil, err
	}
	mode := query.Mode
	if mode == "" {
		mode = GroupingInner
	}
	if mode != GroupingInner && mode != GroupingAllWorkers {
		return nil, errors.ErrValidationField("mode", query.Mode)
	}
	if query.TopN < 0 {
		return nil, errors.ErrValidationField("topN", strconv.Itoa(query.TopN))
	}

	events, err := s.queryWindow(ctx, ReportWorkerLeaderboard, query.Window)
	if err != nil {
		return nil, err
	}
	if query.RequireEvents && len(events) == 0 {
		return nil, errors.ErrEmptyInput(ReportWorkerLeaderboard)
	}

	stats, err := reportStage(ctx, s, ReportWorkerLeaderboard, stageAggregate,
		func(ctx context.Context) (map[string]*analytics.GroupStats, error) {
			return analytics.Aggregate(events, func(e *domain.PickEvent) string { return e.WorkerID })
		})
	if err != nil {
		return nil, err
	}

	workers, err := reportStage(ctx, s, ReportWorkerLeaderboard, stageEnrich,
		func(ctx context.Context) ([]*domain.Worker, error) {
			if mode == GroupingAllWorkers {
				all, _, err := s.workers.FindAll(ctx, 0, 0)
				return all, err
			}
			return s.workers.FindByIDs(ctx, statKeys(stats))
		})
	if err != nil {
		return nil, err
	}

	rows := make([]WorkerLeaderboardRow, 0, len(workers))
	for _, worker := range workers {
		if !worker.Active && !query.IncludeInactive {
			continue
		}

		row := WorkerLeaderboardRow{
			WorkerID: worker.ID,
			Name:     worker.Name,
			Shift:    worker.Shift.String(),
		}
		if st, ok := stats[worker.ID]; ok {
			row.Picks = st.Count
			row.Units = st.QuantitySum
			row.ShortPicks = st.ShortPicks
			row.AvgSeconds = analytics.Round2Ptr(st.DurationAvg)
		}
		row.Tier = s.tierFor(row.Picks)
		rows = append(rows, row)
	}

	// Deterministic tie order: equal pick counts surface alphabetically.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name == rows[j].Name {
			return rows[i].WorkerID < rows[j].WorkerID
		}
		return rows[i].Name < rows[j].Name
	})

	ranked, err := reportStage(ctx, s, ReportWorkerLeaderboard, stageRank,
		func(ctx context.Context) ([]analytics.RankedGroup[WorkerLeaderboardRow], error) {
			return analytics.Rank(rows, analytics.RankOptions[WorkerLeaderboardRow]{
				Key:       func(r WorkerLeaderboardRow) []float64 { return []float64{float64(r.Picks)} },
				Direction: analytics.DirectionDesc,
				Policy:    analytics.RankPolicyGapped,
			})
		})
	if err != nil {
		return nil, err
	}

	// Rows beyond the limit are cut after ranking so rank numbers hold.
	if query.TopN > 0 && len(ranked) > query.TopN {
		ranked = ranked[:query.TopN]
	}

	out := make([]WorkerLeaderboardRow, len(ranked))
	for i, r := range ranked {
		row := r.Group
		row.Rank = r.Rank
		out[i] = row
	}

	return &WorkerLeaderboardReport{
		ReportMeta: s.meta(ReportWorkerLeaderboard, query.Window),
		Rows:       out,
	}, nil
}

// ShiftLeaderboard generates the shift leaderboard: the worker aggregation
// ranked twice, once across the whole window and once partitioned by
// shift. An optional shift parameter narrows the output after ranking, so
// shift ranks are unaffected by the narrowing.
func (s *ReportService) ShiftLeaderboard(ctx context.Context, query ShiftLeaderboardQuery) (*ShiftLeaderboardReport, error) {
	report, err := tracing.TracedOperation(ctx, s.tracer, "report."+ReportShiftLeaderboard,
		func(ctx context.Context) (*ShiftLeaderboardReport, error) {
			return s.shiftLeaderboard(ctx, query)
		})

	rows := 0
	if report != nil {
		rows = len(report.Rows)
	}
	s.recordReport(ReportShiftLeaderboard, rows, err)
	return report, err
}

func (s *ReportService) shiftLeaderboard(ctx context.Context, query ShiftLeaderboardQuery) (*ShiftLeaderboardReport, error) {
	if err := query.Window.validate(); err != nil {
		return nil, err
	}
	var narrow domain.Shift
	if query.Shift != "" {
		shift, err := domain.NewShift(query.Shift)
		if err != nil {
			return nil, err
		}
		narrow = shift
	}

	events, err := s.queryWindow(ctx, ReportShiftLeaderboard, query.Window)
	if err != nil {
		return nil, err
	}
	if query.RequireEvents && len(events) == 0 {
		return nil, errors.ErrEmptyInput(ReportShiftLeaderboard)
	}

	stats, err := reportStage(ctx, s, ReportShiftLeaderboard, stageAggregate,
		func(ctx context.Context) (map[string]*analytics.GroupStats, error) {
			return analytics.Aggregate(events, func(e *domain.PickEvent) string { return e.WorkerID })
		})
	if err != nil {
		return nil, err
	}

	workers, err := reportStage(ctx, s, ReportShiftLeaderboard, stageEnrich,
		func(ctx context.Context) ([]*domain.Worker, error) {
			return s.workers.FindByIDs(ctx, statKeys(stats))
		})
	if err != nil {
		return nil, err
	}

	rows := make([]ShiftLeaderboardRow, 0, len(workers))
	for _, worker := range workers {
		st, ok := stats[worker.ID]
		if !ok {
			continue
		}
		rows = append(rows, ShiftLeaderboardRow{
			WorkerID:   worker.ID,
			Name:       worker.Name,
			Shift:      worker.Shift.String(),
			Picks:      st.Count,
			Units:      st.QuantitySum,
			AvgSeconds: analytics.Round2Ptr(st.DurationAvg),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name == rows[j].Name {
			return rows[i].WorkerID < rows[j].WorkerID
		}
		return rows[i].Name < rows[j].Name
	})

	picksKey := func(r ShiftLeaderboardRow) []float64 { return []float64{float64(r.Picks)} }

	type rankedPair struct {
		overall []analytics.RankedGroup[ShiftLeaderboardRow]
		byShift []analytics.RankedGroup[ShiftLeaderboardRow]
	}
	pair, err := reportStage(ctx, s, ReportShiftLeaderboard, stageRank,
		func(ctx context.Context) (rankedPair, error) {
			overall, err := analytics.Rank(rows, analytics.RankOptions[ShiftLeaderboardRow]{
				Key:       picksKey,
				Direction: analytics.DirectionDesc,
				Policy:    analytics.RankPolicyGapped,
			})
			if err != nil {
				return rankedPair{}, err
			}
			byShift, err := analytics.Rank(rows, analytics.RankOptions[ShiftLeaderboardRow]{
				Key:         picksKey,
				Direction:   analytics.DirectionDesc,
				Policy:      analytics.RankPolicyGapped,
				PartitionBy: func(r ShiftLeaderboardRow) string { return r.Shift },
			})
			if err != nil {
				return rankedPair{}, err
			}
			return rankedPair{overall: overall, byShift: byShift}, nil
		})
	if err != nil {
		return nil, err
	}

	shiftRankOf := make(map[string]int, len(pair.byShift))
	for _, r := range pair.byShift {
		shiftRankOf[r.Group.WorkerID] = r.Rank
	}

	out := make([]ShiftLeaderboardRow, 0, len(pair.overall))
	for _, r := range pair.overall {
		row := r.Group
		row.OverallRank = r.Rank
		row.ShiftRank = shiftRankOf[row.WorkerID]
		if narrow != "" && row.Shift != narrow.String() {
			continue
		}
		out = append(out, row)
	}

	return &ShiftLeaderboardReport{
		ReportMeta: s.meta(ReportShiftLeaderboard, query.Window),
		Rows:       out,
	}, nil
}

// ItemVelocity generates the item velocity report: per-item pick counts
// and units, dense-ranked by picks descending with units as the
// tie-break. IncludeIdle adds zero rows for active catalog items never
// picked in the window.
func (s *ReportService) ItemVelocity(ctx context.Context, query ItemVelocityQuery) (*ItemVelocityReport, error) {
	report, err := tracing.TracedOperation(ctx, s.tracer, "report."+ReportItemVelocity,
		func(ctx context.Context) (*ItemVelocityReport, error) {
			return s.itemVelocity(ctx, query)
		})

	rows := 0
	if report != nil {
		rows = len(report.Rows)
	}
	s.recordReport(ReportItemVelocity, rows, err)
	return report, err
}

func (s *ReportService) itemVelocity(ctx context.Context, query ItemVelocityQuery) (*ItemVelocityReport, error) {
	if err := query.Window.validate(); err != nil {
		return nil, err
	}
	if query.TopN < 0 {
		return nil, errors.ErrValidationField("topN", strconv.Itoa(query.TopN))
	}

	events, err := s.queryWindow(ctx, ReportItemVelocity, query.Window)
	if err != nil {
		return nil, err
	}
	if query.RequireEvents && len(events) == 0 {
		return nil, errors.ErrEmptyInput(ReportItemVelocity)
	}

	stats, err := reportStage(ctx, s, ReportItemVelocity, stageAggregate,
		func(ctx context.Context) (map[string]*analytics.GroupStats, error) {
			return analytics.Aggregate(events, func(e *domain.PickEvent) string { return e.ItemID })
		})
	if err != nil {
		return nil, err
	}

	items, err := reportStage(ctx, s, ReportItemVelocity, stageEnrich,
		func(ctx context.Context) ([]*domain.Item, error) {
			if query.IncludeIdle {
				all, _, err := s.items.FindAll(ctx, 0, 0)
				return all, err
			}
			return s.items.FindByIDs(ctx, statKeys(stats))
		})
	if err != nil {
		return nil, err
	}

	rows := make([]ItemVelocityRow, 0, len(items))
	for _, item := range items {
		st, ok := stats[item.ID]
		if !ok && !item.Active {
			// Idle rows cover the live catalog only.
			continue
		}

		row := ItemVelocityRow{
			ItemID:      item.ID,
			SKU:         item.SKU,
			Description: item.Description,
			Category:    item.Category,
		}
		if ok {
			row.Picks = st.Count
			row.Units = st.QuantitySum
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SKU < rows[j].SKU
	})

	ranked, err := reportStage(ctx, s, ReportItemVelocity, stageRank,
		func(ctx context.Context) ([]analytics.RankedGroup[ItemVelocityRow], error) {
			return analytics.Rank(rows, analytics.RankOptions[ItemVelocityRow]{
				Key: func(r ItemVelocityRow) []float64 {
					return []float64{float64(r.Picks), float64(r.Units)}
				},
				Direction: analytics.DirectionDesc,
				Policy:    analytics.RankPolicyDense,
			})
		})
	if err != nil {
		return nil, err
	}

	if query.TopN > 0 && len(ranked) > query.TopN {
		ranked = ranked[:query.TopN]
	}

	out := make([]ItemVelocityRow, len(ranked))
	for i, r := range ranked {
		row := r.Group
		row.Rank = r.Rank
		out[i] = row
	}

	return &ItemVelocityReport{
		ReportMeta: s.meta(ReportItemVelocity, query.Window),
		Rows:       out,
	}, nil
}

// ZoneThroughput generates the zone throughput report: events grouped by
// zone through the location relation, gapped-ranked by picks descending,
// with distinct worker counts per zone.
func (s *ReportService) ZoneThroughput(ctx context.Context, query ZoneThroughputQuery) (*ZoneThroughputReport, error) {
	report, err := tracing.TracedOperation(ctx, s.tracer, "report."+ReportZoneThroughput,
		func(ctx context.Context) (*ZoneThroughputReport, error) {
			return s.zoneThroughput(ctx, query)
		})

	rows := 0
	if report != nil {
		rows = len(report.Rows)
	}
	s.recordReport(ReportZoneThroughput, rows, err)
	return report, err
}

type zoneAggregation struct {
	stats         map[string]*analytics.GroupStats
	workersByZone map[string]int
}

func (s *ReportService) zoneThroughput(ctx context.Context, query ZoneThroughputQuery) (*ZoneThroughputReport, error) {
	if err := query.Window.validate(); err != nil {
		return nil, err
	}
	mode := query.Mode
	if mode == "" {
		mode = GroupingInner
	}
	if mode != GroupingInner && mode != GroupingAllZones {
		return nil, errors.ErrValidationField("mode", query.Mode)
	}
	if query.TopN < 0 {
		return nil, errors.ErrValidationField("topN", strconv.Itoa(query.TopN))
	}

	events, err := s.queryWindow(ctx, ReportZoneThroughput, query.Window)
	if err != nil {
		return nil, err
	}
	if query.RequireEvents && len(events) == 0 {
		return nil, errors.ErrEmptyInput(ReportZoneThroughput)
	}

	agg, err := reportStage(ctx, s, ReportZoneThroughput, stageAggregate,
		func(ctx context.Context) (zoneAggregation, error) {
			locationIDs := make([]string, 0, len(events))
			seen := make(map[string]struct{}, len(events))
			for _, e := range events {
				if _, ok := seen[e.LocationID]; ok {
					continue
				}
				seen[e.LocationID] = struct{}{}
				locationIDs = append(locationIDs, e.LocationID)
			}

			zoneOf, err := s.catalog.ZonesForLocations(ctx, locationIDs)
			if err != nil {
				return zoneAggregation{}, err
			}

			stats, err := analytics.Aggregate(events, func(e *domain.PickEvent) string {
				return zoneOf[e.LocationID]
			})
			if err != nil {
				return zoneAggregation{}, err
			}
			delete(stats, "")

			distinct := make(map[string]map[string]struct{})
			for _, e := range events {
				zoneID := zoneOf[e.LocationID]
				if zoneID == "" {
					continue
				}
				if distinct[zoneID] == nil {
					distinct[zoneID] = make(map[string]struct{})
				}
				distinct[zoneID][e.WorkerID] = struct{}{}
			}
			workersByZone := make(map[string]int, len(distinct))
			for zoneID, workers := range distinct {
				workersByZone[zoneID] = len(workers)
			}

			return zoneAggregation{stats: stats, workersByZone: workersByZone}, nil
		})
	if err != nil {
		return nil, err
	}

	zones, err := reportStage(ctx, s, ReportZoneThroughput, stageEnrich,
		func(ctx context.Context) ([]*domain.Zone, error) {
			if mode == GroupingAllZones {
				all, _, err := s.zones.FindAll(ctx, 0, 0)
				return all, err
			}
			return s.zones.FindByIDs(ctx, statKeys(agg.stats))
		})
	if err != nil {
		return nil, err
	}

	rows := make([]ZoneThroughputRow, 0, len(zones))
	for _, zone := range zones {
		row := ZoneThroughputRow{
			ZoneID:   zone.ID,
			Code:     zone.Code,
			Name:     zone.Name,
			ZoneType: zone.Type.String(),
		}
		if st, ok := agg.stats[zone.ID]; ok {
			row.Picks = st.Count
			row.Units = st.QuantitySum
			row.DistinctWorkers = agg.workersByZone[zone.ID]
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Code < rows[j].Code
	})

	ranked, err := reportStage(ctx, s, ReportZoneThroughput, stageRank,
		func(ctx context.Context) ([]analytics.RankedGroup[ZoneThroughputRow], error) {
			return analytics.Rank(rows, analytics.RankOptions[ZoneThroughputRow]{
				Key:       func(r ZoneThroughputRow) []float64 { return []float64{float64(r.Picks)} },
				Direction: analytics.DirectionDesc,
				Policy:    analytics.RankPolicyGapped,
			})
		})
	if err != nil {
		return nil, err
	}

	if query.TopN > 0 && len(ranked) > query.TopN {
		ranked = ranked[:query.TopN]
	}

	out := make([]ZoneThroughputRow, len(ranked))
	for i, r := range ranked {
		row := r.Group
		row.Rank = r.Rank
		out[i] = row
	}

	return &ZoneThroughputReport{
		ReportMeta: s.meta(ReportZoneThroughput, query.Window),
		Rows:       out,
	}, nil
}

// PickDurationStats generates per-shift duration statistics computed over
// per-worker average durations: the worker aggregation is aggregated a
// second time keyed by shift. Rows are ordered fastest shift first.
func (s *ReportService) PickDurationStats(ctx context.Context, query PickDurationStatsQuery) (*PickDurationStatsReport, error) {
	report, err := tracing.TracedOperation(ctx, s.tracer, "report."+ReportPickDurationStats,
		func(ctx context.Context) (*PickDurationStatsReport, error) {
			return s.pickDurationStats(ctx, query)
		})

	rows := 0
	if report != nil {
		rows = len(report.Rows)
	}
	s.recordReport(ReportPickDurationStats, rows, err)
	return report, err
}

type shiftGroup struct {
	shift   domain.Shift
	workers int
	picks   int
	values  analytics.ValueStats
}

func (s *ReportService) pickDurationStats(ctx context.Context, query PickDurationStatsQuery) (*PickDurationStatsReport, error) {
	if err := query.Window.validate(); err != nil {
		return nil, err
	}

	events, err := s.queryWindow(ctx, ReportPickDurationStats, query.Window)
	if err != nil {
		return nil, err
	}
	if query.RequireEvents && len(events) == 0 {
		return nil, errors.ErrEmptyInput(ReportPickDurationStats)
	}

	stats, err := reportStage(ctx, s, ReportPickDurationStats, stageAggregate,
		func(ctx context.Context) (map[string]*analytics.GroupStats, error) {
			return analytics.Aggregate(events, func(e *domain.PickEvent) string { return e.WorkerID })
		})
	if err != nil {
		return nil, err
	}

	workers, err := reportStage(ctx, s, ReportPickDurationStats, stageEnrich,
		func(ctx context.Context) ([]*domain.Worker, error) {
			return s.workers.FindByIDs(ctx, statKeys(stats))
		})
	if err != nil {
		return nil, err
	}

	groups, err := reportStage(ctx, s, ReportPickDurationStats, stageSummarize,
		func(ctx context.Context) ([]shiftGroup, error) {
			type accum struct {
				workers int
				picks   int
				avgs    []float64
			}
			perShift := make(map[domain.Shift]*accum)
			for _, worker := range workers {
				st, ok := stats[worker.ID]
				if !ok {
					continue
				}
				acc := perShift[worker.Shift]
				if acc == nil {
					acc = &accum{}
					perShift[worker.Shift] = acc
				}
				acc.workers++
				acc.picks += st.Count
				if st.DurationAvg != nil {
					acc.avgs = append(acc.avgs, *st.DurationAvg)
				}
			}

			groups := make([]shiftGroup, 0, len(perShift))
			for _, shift := range domain.Shifts() {
				acc, ok := perShift[shift]
				if !ok {
					continue
				}
				groups = append(groups, shiftGroup{
					shift:   shift,
					workers: acc.workers,
					picks:   acc.picks,
					values:  analytics.SummarizeValues(acc.avgs),
				})
			}
			return groups, nil
		})
	if err != nil {
		return nil, err
	}

	// Rank on the exact averages; rounding happens at row mapping. Shifts
	// without completed picks sort last.
	ranked, err := reportStage(ctx, s, ReportPickDurationStats, stageRank,
		func(ctx context.Context) ([]analytics.RankedGroup[shiftGroup], error) {
			return analytics.Rank(groups, analytics.RankOptions[shiftGroup]{
				Key: func(g shiftGroup) []float64 {
					if g.values.Avg == nil {
						return []float64{math.Inf(1)}
					}
					return []float64{*g.values.Avg}
				},
				Direction: analytics.DirectionAsc,
				Policy:    analytics.RankPolicyOrdinal,
			})
		})
	if err != nil {
		return nil, err
	}

	out := make([]PickDurationStatsRow, len(ranked))
	for i, r := range ranked {
		g := r.Group
		out[i] = PickDurationStatsRow{
			Shift:      g.shift.String(),
			Workers:    g.workers,
			Picks:      g.picks,
			AvgSeconds: analytics.Round2Ptr(g.values.Avg),
			MinSeconds: analytics.Round2Ptr(g.values.Min),
			MaxSeconds: analytics.Round2Ptr(g.values.Max),
		}
	}

	return &PickDurationStatsReport{
		ReportMeta: s.meta(ReportPickDurationStats, query.Window),
		Rows:       out,
	}, nil
}
