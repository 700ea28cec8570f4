package services

import (
	"sort"
	"time"

	"hygiene-analyzer/models"
)

// GetTopRatedBusinesses returns up to limit establishments whose rating is
// exactly rating, most recently rated first. Records whose RatingDate does
// not parse are left out; equal dates keep their input order.
func GetTopRatedBusinesses(records []models.Establishment, rating string, limit int) []models.TopRatedBusiness {
	type dated struct {
		e    *models.Establishment
		when time.Time
	}

	matched := make([]dated, 0)
	for i := range records {
		e := &records[i]
		if e.RatingValue != rating {
			continue
		}
		when, ok := models.ParseRatingDate(e.RatingDate)
		if !ok {
			continue
		}
		matched = append(matched, dated{e: e, when: when})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].when.After(matched[j].when)
	})

	if limit < 0 {
		limit = 0
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]models.TopRatedBusiness, 0, len(matched))
	for _, m := range matched {
		out = append(out, models.TopRatedBusiness{
			Name:       m.e.BusinessName,
			Address:    m.e.AddressLine1 + ", " + m.e.AddressLine2,
			Rating:     m.e.RatingValue,
			RatingDate: m.e.RatingDate,
			Authority:  m.e.LocalAuthorityName,
		})
	}
	return out
}
