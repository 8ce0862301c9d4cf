package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/response_models"
	"trustly/internal/repositories"
	"trustly/pkg/utils"
)

const defaultAnalyticsDays = 30

// AnalyticsExport is a rendered CSV report.
type AnalyticsExport struct {
	Filename string
	Body     []byte
}

type AnalyticsServiceInterface interface {
	BuildReport(ctx context.Context, userID uuid.UUID, days int) (*response_models.AnalyticsReport, error)
	ExportCSV(ctx context.Context, userID uuid.UUID, days int) (*AnalyticsExport, error)
}

type AnalyticsService struct {
	businessRepo    repositories.BusinessRepository
	testimonialRepo repositories.TestimonialRepository
	now             utils.Clock
	logger          *zap.Logger
}

func NewAnalyticsService(businessRepo repositories.BusinessRepository, testimonialRepo repositories.TestimonialRepository, logger *zap.Logger) AnalyticsServiceInterface {
	return &AnalyticsService{
		businessRepo:    businessRepo,
		testimonialRepo: testimonialRepo,
		now:             utils.SystemClock,
		logger:          logger.Named("analytics"),
	}
}

func normalizeDays(days int) int {
	if days <= 0 {
		return defaultAnalyticsDays
	}
	return days
}

func (s *AnalyticsService) BuildReport(ctx context.Context, userID uuid.UUID, days int) (*response_models.AnalyticsReport, error) {
	days = normalizeDays(days)

	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	testimonials, err := s.testimonialRepo.List(ctx, repositories.TestimonialFilter{
		BusinessID: business.ID,
		Since:      now.AddDate(0, 0, -days),
	})
	if err != nil {
		return nil, dbError(err)
	}

	report := Aggregate(testimonials, now, days)
	return &report, nil
}

// Aggregate computes every analytics figure from one window of testimonials in memory.
func Aggregate(testimonials []db_models.Testimonial, now time.Time, days int) response_models.AnalyticsReport {
	report := response_models.AnalyticsReport{
		Days:               days,
		Total:              len(testimonials),
		RatingDistribution: make([]response_models.RatingBucket, 5),
		Last7Days:          make([]response_models.DayCount, 7),
		ByCampaign:         []response_models.CampaignCount{},
	}
	for i := range report.RatingDistribution {
		report.RatingDistribution[i].Rating = i + 1
	}

	today := utils.StartOfDay(now)
	dayIndex := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, i-6)
		report.Last7Days[i].Date = utils.DayLabel(day)
		dayIndex[utils.DateStamp(day)] = i
	}

	ratingSum := 0
	byCampaign := map[string]int{}
	for i := range testimonials {
		t := &testimonials[i]
		switch t.Status {
		case db_models.StatusApproved:
			report.Approved++
		case db_models.StatusPending:
			report.Pending++
		case db_models.StatusRejected:
			report.Rejected++
		}

		ratingSum += t.Rating
		if t.Rating >= 1 && t.Rating <= 5 {
			report.RatingDistribution[t.Rating-1].Count++
		}

		if idx, ok := dayIndex[utils.DateStamp(t.CreatedAt.In(now.Location()))]; ok {
			report.Last7Days[idx].Count++
		}

		byCampaign[t.CampaignName()]++
	}

	if report.Total > 0 {
		report.AverageRating = float64(ratingSum) / float64(report.Total)
		report.ConversionRate = float64(report.Approved) / float64(report.Total) * 100
	}

	for name, count := range byCampaign {
		report.ByCampaign = append(report.ByCampaign, response_models.CampaignCount{Campaign: name, Count: count})
	}
	sort.Slice(report.ByCampaign, func(i, j int) bool {
		a, b := report.ByCampaign[i], report.ByCampaign[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Campaign < b.Campaign
	})

	return report
}

func (s *AnalyticsService) ExportCSV(ctx context.Context, userID uuid.UUID, days int) (*AnalyticsExport, error) {
	report, err := s.BuildReport(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	body, err := RenderAnalyticsCSV(report)
	if err != nil {
		s.logger.Error("render analytics csv", zap.Error(err))
		return nil, err
	}
	return &AnalyticsExport{
		Filename: fmt.Sprintf("analytics-%s.csv", utils.DateStamp(s.now())),
		Body:     body,
	}, nil
}

func RenderAnalyticsCSV(report *response_models.AnalyticsReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{
		{"Metric", "Value"},
		{"Total Testimonials", fmt.Sprint(report.Total)},
		{"Approved", fmt.Sprint(report.Approved)},
		{"Pending", fmt.Sprint(report.Pending)},
		{"Average Rating", fmt.Sprintf("%.2f", report.AverageRating)},
		{"Conversion Rate", fmt.Sprintf("%.2f%%", report.ConversionRate)},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
