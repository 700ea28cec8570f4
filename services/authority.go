package services

import (
	"hygiene-analyzer/models"
)

// AuthorityGroups holds establishments grouped by local authority. Names
// are kept in first-appearance order and each group keeps input order.
type AuthorityGroups struct {
	names  []string
	groups map[string][]models.Establishment
}

// GroupByAuthority groups records by LocalAuthorityName.
func GroupByAuthority(records []models.Establishment) *AuthorityGroups {
	g := &AuthorityGroups{groups: make(map[string][]models.Establishment)}
	for _, e := range records {
		key := ByAuthority(&e)
		if _, exists := g.groups[key]; !exists {
			g.names = append(g.names, key)
		}
		g.groups[key] = append(g.groups[key], e)
	}
	return g
}

// Names returns authority names in first-appearance order.
func (g *AuthorityGroups) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Records returns the establishments of one authority.
func (g *AuthorityGroups) Records(authority string) []models.Establishment {
	return g.groups[authority]
}

// Len returns the number of authorities.
func (g *AuthorityGroups) Len() int { return len(g.names) }

// GetAuthorityInsights summarises every authority group.
func GetAuthorityInsights(groups *AuthorityGroups) []models.AuthorityInsight {
	insights := make([]models.AuthorityInsight, 0, groups.Len())
	for _, name := range groups.names {
		records := groups.groups[name]
		total := len(records)

		pct := 0.0
		if total > 0 {
			fives, _ := CountByField(records, ByRatingValue, models.ValidRatings...).Get(models.FiveStar)
			pct = round1(float64(fives) / float64(total) * 100)
		}

		insights = append(insights, models.AuthorityInsight{
			Authority:          name,
			AverageRating:      CalculateAverageRating(records, models.ValidRatings),
			TotalBusinesses:    total,
			FiveStarPercentage: pct,
		})
	}
	return insights
}

// GetFiveStarCounts counts five-star establishments per authority. Every
// authority present in groups appears, with 0 when it has none.
func GetFiveStarCounts(groups *AuthorityGroups) *models.Counts {
	counts := models.NewCounts()
	for _, name := range groups.names {
		fives, _ := CountByField(groups.groups[name], ByRatingValue, models.FiveStar).Get(models.FiveStar)
		counts.Add(name, fives)
	}
	return counts
}

// GetMostImprovedAuthority compares five-star counts between a prior and a
// current snapshot and returns the authority with the strictly largest
// increase. Ties go to the authority seen first in current. With no
// authorities the result is the empty sentinel (HasData reports false).
func GetMostImprovedAuthority(prior, current []models.Establishment) models.ImprovedAuthority {
	priorCounts := GetFiveStarCounts(GroupByAuthority(prior))
	currentCounts := GetFiveStarCounts(GroupByAuthority(current))
	return mostImproved(priorCounts, currentCounts)
}

func mostImproved(priorCounts, currentCounts *models.Counts) models.ImprovedAuthority {
	best := models.ImprovedAuthority{IncreaseInFiveStarCount: models.NoIncrease}
	for _, name := range currentCounts.Keys() {
		now, _ := currentCounts.Get(name)
		before, _ := priorCounts.Get(name)
		if increase := now - before; increase > best.IncreaseInFiveStarCount {
			best = models.ImprovedAuthority{Name: name, IncreaseInFiveStarCount: increase}
		}
	}
	return best
}
