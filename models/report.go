package models

import (
	"math"
	"strconv"
	"time"
)

// Average is a mean rating. It is NaN when there was nothing to average,
// which is distinct from a genuine 0 average.
type Average float64

// NoAverage is the value used when no numeric-rated records exist.
var NoAverage = Average(math.NaN())

// Valid reports whether the average is a number.
func (a Average) Valid() bool { return !math.IsNaN(float64(a)) }

// String formats to 2dp, or "n/a".
func (a Average) String() string {
	if !a.Valid() {
		return "n/a"
	}
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}

// MarshalJSON encodes NaN as null.
func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

// UnmarshalJSON decodes null as NaN.
func (a *Average) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = NoAverage
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*a = Average(f)
	return nil
}

// MarshalYAML encodes NaN as null.
func (a Average) MarshalYAML() (interface{}, error) {
	if !a.Valid() {
		return nil, nil
	}
	return float64(a), nil
}

// RankedItem is one entry of a top-N ranking.
type RankedItem struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// TopRatedBusiness is the display projection of a highly rated establishment.
type TopRatedBusiness struct {
	Name       string `json:"name" yaml:"name"`
	Address    string `json:"address" yaml:"address"`
	Rating     string `json:"rating" yaml:"rating"`
	RatingDate string `json:"ratingDate" yaml:"ratingDate"`
	Authority  string `json:"authority" yaml:"authority"`
}

// AuthorityInsight summarises one local authority.
type AuthorityInsight struct {
	Authority          string  `json:"authority" yaml:"authority"`
	AverageRating      Average `json:"averageRating" yaml:"averageRating"`
	TotalBusinesses    int     `json:"totalBusinesses" yaml:"totalBusinesses"`
	FiveStarPercentage float64 `json:"fiveStarPercentage" yaml:"fiveStarPercentage"`
}

// NoIncrease stands in for negative infinity: any real increase beats it.
const NoIncrease = math.MinInt

// ImprovedAuthority names the authority whose five-star count grew most.
type ImprovedAuthority struct {
	Name                    string `json:"name" yaml:"name"`
	IncreaseInFiveStarCount int    `json:"increaseInFiveStarCount" yaml:"increaseInFiveStarCount"`
}

// HasData is false for the "no authorities" sentinel.
func (i ImprovedAuthority) HasData() bool {
	return i.IncreaseInFiveStarCount != NoIncrease
}

// Report holds the computed analytics over one dataset snapshot.
type Report struct {
	TotalBusinesses       int                `json:"totalBusinesses" yaml:"totalBusinesses"`
	AverageRating         Average            `json:"averageRating" yaml:"averageRating"`
	RatingsDistribution   *Counts            `json:"ratingsDistribution" yaml:"ratingsDistribution"`
	TopBusinessTypes      []RankedItem       `json:"topBusinessTypes" yaml:"topBusinessTypes"`
	TopRatedBusinesses    []TopRatedBusiness `json:"topRatedBusinesses" yaml:"topRatedBusinesses"`
	AuthorityInsights     []AuthorityInsight `json:"authorityInsights" yaml:"authorityInsights"`
	MostImprovedAuthority ImprovedAuthority  `json:"mostImprovedAuthority" yaml:"mostImprovedAuthority"`
}

// Insight looks up an authority by name.
func (r *Report) Insight(authority string) (AuthorityInsight, bool) {
	for _, in := range r.AuthorityInsights {
		if in.Authority == authority {
			return in, true
		}
	}
	return AuthorityInsight{}, false
}

// Run is one analysis run: a report plus where and when it came from.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
	Sources     []string  `json:"sources" yaml:"sources"`
	Report      *Report   `json:"report" yaml:"report"`
}
