package services

import (
	"math"
	"sort"
	"strconv"

	"hygiene-analyzer/models"
)

// FieldSelector picks the field of an establishment to count on.
type FieldSelector func(e *models.Establishment) string

// Field selectors used by the report.
var (
	ByRatingValue  FieldSelector = func(e *models.Establishment) string { return e.RatingValue }
	ByBusinessType FieldSelector = func(e *models.Establishment) string { return e.BusinessType }
	ByAuthority    FieldSelector = func(e *models.Establishment) string { return e.LocalAuthorityName }
)

// CountByField counts field values across records. When allowed is given,
// only values in it are counted; otherwise every non-empty value is.
// Keys come out in first-appearance order.
func CountByField(records []models.Establishment, field FieldSelector, allowed ...string) *models.Counts {
	var allow map[string]struct{}
	if len(allowed) > 0 {
		allow = make(map[string]struct{}, len(allowed))
		for _, v := range allowed {
			allow[v] = struct{}{}
		}
	}

	counts := models.NewCounts()
	for i := range records {
		value := field(&records[i])
		if allow != nil {
			if _, ok := allow[value]; !ok {
				continue
			}
		} else if value == "" {
			continue
		}
		counts.Add(value, 1)
	}
	return counts
}

// CalculateAverageRating averages the ratings in valid, rounded to 2dp.
// It returns models.NoAverage (NaN) when no record qualifies.
func CalculateAverageRating(records []models.Establishment, valid []string) models.Average {
	allow := make(map[string]struct{}, len(valid))
	for _, v := range valid {
		allow[v] = struct{}{}
	}

	sum, n := 0, 0
	for i := range records {
		value := records[i].RatingValue
		if _, ok := allow[value]; !ok {
			continue
		}
		rating, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		sum += rating
		n++
	}
	if n == 0 {
		return models.NoAverage
	}
	return models.Average(round2(float64(sum) / float64(n)))
}

// GetTopItems returns up to limit entries with the highest counts, highest
// first. Equal counts keep the counter's insertion order.
func GetTopItems(counts *models.Counts, limit int) []models.RankedItem {
	if limit <= 0 {
		return []models.RankedItem{}
	}
	keys := counts.Keys()
	items := make([]models.RankedItem, 0, len(keys))
	for _, k := range keys {
		n, _ := counts.Get(k)
		items = append(items, models.RankedItem{Type: k, Count: n})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
