package services

import (
	"hygiene-analyzer/models"
	"hygiene-analyzer/utils"
)

// InsightOptions tune the size of the rankings and the prior-snapshot seed.
type InsightOptions struct {
	TopBusinessTypes int
	TopRatedLimit    int
	PriorSeed        uint64
}

// DefaultInsightOptions mirrors the published report: top 5 business types
// and the 10 most recent five-star establishments.
func DefaultInsightOptions() InsightOptions {
	return InsightOptions{TopBusinessTypes: 5, TopRatedLimit: 10}
}

// InsightService turns a dataset snapshot into a Report.
type InsightService struct {
	logger *utils.Logger
	opts   InsightOptions
}

func NewInsightService(logger *utils.Logger, opts InsightOptions) *InsightService {
	return &InsightService{logger: logger, opts: opts}
}

// Generate computes the report. It is deterministic for a given input and
// PriorSeed: every call seeds a fresh random source.
func (s *InsightService) Generate(establishments []models.Establishment) *models.Report {
	groups := GroupByAuthority(establishments)

	report := &models.Report{
		TotalBusinesses:     len(establishments),
		AverageRating:       CalculateAverageRating(establishments, models.ValidRatings),
		RatingsDistribution: CountByField(establishments, ByRatingValue, models.DistributionRatings...),
		TopBusinessTypes:    GetTopItems(CountByField(establishments, ByBusinessType), s.opts.TopBusinessTypes),
		TopRatedBusinesses:  GetTopRatedBusinesses(establishments, models.FiveStar, s.opts.TopRatedLimit),
		AuthorityInsights:   GetAuthorityInsights(groups),
	}

	prior := GenerateOldMockData(establishments, NewSeededSource(s.opts.PriorSeed))
	report.MostImprovedAuthority = mostImproved(
		GetFiveStarCounts(GroupByAuthority(prior)),
		GetFiveStarCounts(groups),
	)

	if len(establishments) == 0 {
		s.logger.Warn("[insights] Empty dataset, report contains no data")
	} else {
		s.logger.Info("[insights] Analysed %d establishments across %d authorities",
			report.TotalBusinesses, groups.Len())
	}
	if !report.AverageRating.Valid() {
		s.logger.Warn("[insights] No numeric ratings found, average rating is undefined")
	}
	return report
}
