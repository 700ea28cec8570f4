package services

import (
	"strings"
	"unicode"

	"hygiene-analyzer/models"
	"hygiene-analyzer/utils"
)

// Cleaner normalises establishments merged from one or more dataset files.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean trims and collapses whitespace in descriptive text fields and drops
// repeated FHRSIDs, which only happen when overlapping files are merged.
// Records without an FHRSID are always kept and nothing else is dropped, so
// the report total is the merged count minus duplicates. RatingValue is
// passed through untouched.
func (c *Cleaner) Clean(raw []models.Establishment) []models.Establishment {
	seen := make(map[int64]struct{})
	result := make([]models.Establishment, 0, len(raw))

	for _, e := range raw {
		if e.FHRSID != 0 {
			if _, dup := seen[e.FHRSID]; dup {
				c.logger.Debug("[cleaner] Duplicate FHRSID skipped: %d", e.FHRSID)
				continue
			}
			seen[e.FHRSID] = struct{}{}
		}

		e.BusinessName = normaliseText(e.BusinessName)
		e.BusinessType = normaliseText(e.BusinessType)
		e.AddressLine1 = normaliseText(e.AddressLine1)
		e.AddressLine2 = normaliseText(e.AddressLine2)
		e.PostCode = normaliseText(e.PostCode)
		e.RatingDate = strings.TrimSpace(e.RatingDate)
		e.LocalAuthorityName = normaliseText(e.LocalAuthorityName)

		if models.ClassifyRating(e.RatingValue) == models.RatingUnknown {
			c.logger.Debug("[cleaner] Unrecognised rating %q for %s", e.RatingValue, e.BusinessName)
		}

		result = append(result, e)
	}

	c.logger.Info("[cleaner] Merged %d establishments, removed %d duplicate FHRSIDs, %d remain",
		len(raw), len(raw)-len(result), len(result))
	return result
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
