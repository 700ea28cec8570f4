package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hygiene-analyzer/models"
	"hygiene-analyzer/utils"
)

func newTestInsightService(seed uint64) *InsightService {
	opts := DefaultInsightOptions()
	opts.PriorSeed = seed
	return NewInsightService(utils.Discard(), opts)
}

func TestInsightReport(t *testing.T) {
	r := newTestInsightService(1).Generate(sampleEstablishments())

	assert.Equal(t, 8, r.TotalBusinesses)
	assert.Equal(t, models.Average(4), r.AverageRating)
	assert.Equal(t, []string{"5", "4", "Exempt", "2", "3"}, r.RatingsDistribution.Keys())
	assert.LessOrEqual(t, r.RatingsDistribution.Total(), r.TotalBusinesses)

	require.Len(t, r.TopBusinessTypes, 5)
	assert.Equal(t, models.RankedItem{Type: "Restaurant/Cafe/Canteen", Count: 3}, r.TopBusinessTypes[0])
	assert.Equal(t, "Retailers - other", r.TopBusinessTypes[1].Type)

	require.Len(t, r.TopRatedBusinesses, 2)
	assert.Equal(t, "Tea Rooms", r.TopRatedBusinesses[0].Name)

	require.Len(t, r.AuthorityInsights, 3)
	assert.Equal(t, "Birmingham", r.AuthorityInsights[0].Authority)

	assert.True(t, r.MostImprovedAuthority.HasData())
	assert.GreaterOrEqual(t, r.MostImprovedAuthority.IncreaseInFiveStarCount, 0)
}

func TestInsightGenerateIsIdempotent(t *testing.T) {
	records := append(sampleEstablishments(), repeat("Leeds", "5", 50)...)
	svc := newTestInsightService(99)

	first, err := json.Marshal(svc.Generate(records))
	require.NoError(t, err)
	second, err := json.Marshal(svc.Generate(records))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestInsightLimitsFromOptions(t *testing.T) {
	svc := NewInsightService(utils.Discard(), InsightOptions{TopBusinessTypes: 1, TopRatedLimit: 1})
	r := svc.Generate(sampleEstablishments())

	assert.Len(t, r.TopBusinessTypes, 1)
	assert.Len(t, r.TopRatedBusinesses, 1)
}

func TestInsightEmptyInput(t *testing.T) {
	r := newTestInsightService(1).Generate(nil)

	assert.Equal(t, 0, r.TotalBusinesses)
	assert.False(t, r.AverageRating.Valid())
	assert.Equal(t, 0, r.RatingsDistribution.Len())
	assert.Empty(t, r.TopBusinessTypes)
	assert.Empty(t, r.TopRatedBusinesses)
	assert.Empty(t, r.AuthorityInsights)
	assert.False(t, r.MostImprovedAuthority.HasData())

	_, err := json.Marshal(r)
	assert.NoError(t, err, "NaN average must still encode")
}
