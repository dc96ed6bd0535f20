package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/logger"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/repository"
)

type correlationService struct {
	collector       *MetricCollector
	correlationRepo repository.CorrelationRepository
}

// NewCorrelationService creates a new correlation service
func NewCorrelationService(collector *MetricCollector, correlationRepo repository.CorrelationRepository) CorrelationService {
	return &correlationService{
		collector:       collector,
		correlationRepo: correlationRepo,
	}
}

// RunCorrelations evaluates the static pair catalogue against the user's
// last 60 days of metrics and upserts one row per pair. Pairs are
// independent: a computation fault or failed upsert on one never aborts
// the others. Re-running with identical input is byte-identical and
// leaves exactly one row per pair.
func (s *correlationService) RunCorrelations(ctx context.Context, userID string) (*models.CorrelationRunResponse, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx)

	series, err := s.collector.Collect(ctx, userID, CorrelationLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	computedAt := time.Now()
	results := make([]*models.CorrelationResult, len(CorrelationPairs))

	// Each pair reads the immutable series and writes its own slot, so the
	// evaluations can run in parallel. Sequential order would produce the
	// same results.
	g := new(errgroup.Group)
	g.SetLimit(4)
	for i, pair := range CorrelationPairs {
		i, pair := i, pair
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error("correlation pair computation fault",
						logger.String("pair_type", string(pair.PairType)),
						logger.String("panic", fmt.Sprintf("%v", r)),
					)
					results[i] = nil
				}
			}()
			results[i] = evaluatePair(userID, series, pair, computedAt)
			return nil
		})
	}
	g.Wait()

	response := &models.CorrelationRunResponse{Success: true, TopInsights: []string{}}

	var significant []*models.CorrelationResult
	for _, result := range results {
		if result == nil {
			continue
		}
		if err := s.correlationRepo.Upsert(ctx, result); err != nil {
			log.Warn("failed to persist correlation, skipping",
				logger.String("metric_a", result.MetricA),
				logger.String("metric_b", result.MetricB),
				logger.Err(err),
			)
			continue
		}
		response.TotalCorrelations++
		if result.IsSignificant {
			response.SignificantCorrelations++
			significant = append(significant, result)
		}
	}

	sort.Slice(significant, func(i, j int) bool {
		return math.Abs(significant[i].Strength) > math.Abs(significant[j].Strength)
	})
	for i, result := range significant {
		if i == TopInsightsLimit {
			break
		}
		response.TopInsights = append(response.TopInsights, result.InsightText)
	}

	return response, nil
}

// GetTopCorrelations returns the stored significant correlations ordered
// by descending |strength|
func (s *correlationService) GetTopCorrelations(ctx context.Context, userID string, limit int) ([]models.CorrelationResult, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.correlationRepo.GetSignificantByUserID(ctx, userID, limit)
}

// evaluatePair aligns one catalogued pair and builds its result row
func evaluatePair(userID string, series DailySeries, pair models.CorrelationPair, computedAt time.Time) *models.CorrelationResult {
	x, y := AlignSeries(series, pair.MetricA, pair.MetricB)
	r, n := Correlate(x, y)
	strength := round3(r)

	return &models.CorrelationResult{
		UserID:        userID,
		MetricA:       pair.MetricA,
		MetricB:       pair.MetricB,
		PairType:      pair.PairType,
		Strength:      strength,
		SampleSize:    n,
		IsSignificant: math.Abs(strength) >= SignificantStrength && n >= SignificantSampleSize,
		InsightText:   insightText(pair, strength),
		ComputedAt:    computedAt,
	}
}

// AlignSeries walks the series dates in ascending order and collects
// (x, y) pairs only where both metrics are present and positive. Gaps are
// skipped, never interpolated: missing days shrink the sample instead of
// introducing synthetic data.
//
// The zero filter preserves the storage layer's "0 means not entered"
// convention. For metrics where zero is a real measurement (an abstain
// habit's clean day) this also drops genuine zeros; kept as-is to match
// the established result semantics.
func AlignSeries(series DailySeries, metricA, metricB string) ([]float64, []float64) {
	days := make([]string, 0, len(series))
	for day := range series {
		days = append(days, day)
	}
	sort.Strings(days)

	var x, y []float64
	for _, day := range days {
		a, okA := series[day][metricA]
		b, okB := series[day][metricB]
		if !okA || !okB || a <= 0 || b <= 0 {
			continue
		}
		x = append(x, a)
		y = append(y, b)
	}

	return x, y
}

// Correlate computes the Pearson product-moment coefficient over two
// equal-length series. Fewer than MinAlignedSamples points is reported as
// r=0, n=0 — insufficient data, not a real zero correlation; callers must
// check n before trusting r. A series with no variance yields r=0 with n
// reported honestly.
func Correlate(x, y []float64) (float64, int) {
	n := len(x)
	if n != len(y) || n < MinAlignedSamples {
		return 0, 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var numerator, denomX, denomY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		numerator += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	if denomX == 0 || denomY == 0 {
		return 0, n
	}

	return numerator / math.Sqrt(denomX*denomY), n
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// insightBand is one magnitude band of the sentence table. Positive and
// Negative are fmt templates taking the two metric display labels.
type insightBand struct {
	Min      float64
	Positive string
	Negative string
}

var insightBands = []insightBand{
	{0.7, "Your %s and %s are strongly connected: when one rises, so does the other.",
		"Your %s and %s are strongly connected: when one rises, the other tends to drop."},
	{0.4, "Your %s tends to move together with your %s.",
		"Higher %s tends to come with lower %s for you."},
	{0.2, "There is a slight link between your %s and your %s.",
		"There is a slight inverse link between your %s and your %s."},
	{0, "No clear relationship between your %s and your %s has emerged yet.",
		"No clear relationship between your %s and your %s has emerged yet."},
}

// insightText renders the deterministic sentence for a pair from the band
// table and the metric label table
func insightText(pair models.CorrelationPair, strength float64) string {
	labelA := metricLabel(pair.MetricA)
	labelB := metricLabel(pair.MetricB)

	magnitude := math.Abs(strength)
	for _, band := range insightBands {
		if magnitude >= band.Min {
			template := band.Positive
			if strength < 0 {
				template = band.Negative
			}
			return fmt.Sprintf(template, labelA, labelB)
		}
	}
	return fmt.Sprintf(insightBands[len(insightBands)-1].Positive, labelA, labelB)
}
