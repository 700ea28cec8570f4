package models

import (
	"strings"
	"time"
)

// RatingClass says how a raw RatingValue may be used.
type RatingClass int

const (
	// RatingUnknown covers anything outside the published scheme
	// ("AwaitingInspection", "Pass", empty, ...).
	RatingUnknown RatingClass = iota
	RatingNumeric
	RatingExempt
)

const (
	FiveStar     = "5"
	ExemptRating = "Exempt"
)

// ValidRatings are the numeric rating tags, in scheme order.
var ValidRatings = []string{"0", "1", "2", "3", "4", "5"}

// DistributionRatings are the tags reported in the ratings distribution.
var DistributionRatings = append(append([]string{}, ValidRatings...), ExemptRating)

// ClassifyRating maps a raw rating tag to its class.
func ClassifyRating(value string) RatingClass {
	switch value {
	case "0", "1", "2", "3", "4", "5":
		return RatingNumeric
	case ExemptRating:
		return RatingExempt
	default:
		return RatingUnknown
	}
}

var ratingDateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// ParseRatingDate parses an FHRS rating date. ok is false for empty or
// unparseable values.
func ParseRatingDate(value string) (t time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range ratingDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
