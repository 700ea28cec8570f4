package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestClassifyRating(t *testing.T) {
	tests := []struct {
		in   string
		want RatingClass
	}{
		{"0", RatingNumeric},
		{"5", RatingNumeric},
		{"Exempt", RatingExempt},
		{"exempt", RatingUnknown},
		{"6", RatingUnknown},
		{"AwaitingInspection", RatingUnknown},
		{"", RatingUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRating(tt.in), tt.in)
	}
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "Exempt"}, DistributionRatings)
}

func TestParseRatingDate(t *testing.T) {
	for _, in := range []string{"2024-03-01T00:00:00", "2024-03-01T10:00:00Z", "2024-03-01T10:00:00.123+01:00", "2024-03-01"} {
		_, ok := ParseRatingDate(in)
		assert.True(t, ok, in)
	}
	for _, in := range []string{"", "  ", "01/03/2024", "soon"} {
		_, ok := ParseRatingDate(in)
		assert.False(t, ok, in)
	}
}

func TestCountsKeepInsertionOrder(t *testing.T) {
	c := NewCounts()
	c.Add("b", 1)
	c.Add("a", 2)
	c.Add("b", 3)

	assert.Equal(t, []string{"b", "a"}, c.Keys())
	assert.Equal(t, 6, c.Total())

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"b":4,"a":2}`, string(data))

	var back Counts
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"b", "a"}, back.Keys())
	n, _ := back.Get("b")
	assert.Equal(t, 4, n)

	y, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, "b: 4\na: 2\n", string(y))
}

func TestNilCountsAreEmpty(t *testing.T) {
	var c *Counts
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Total())
	assert.Nil(t, c.Keys())
}

func TestAverageEncoding(t *testing.T) {
	assert.Equal(t, "n/a", NoAverage.String())
	assert.Equal(t, "2.50", Average(2.5).String())

	data, err := json.Marshal(struct {
		A Average `json:"a"`
		B Average `json:"b"`
	}{NoAverage, 3.67})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":3.67}`, string(data))

	var a Average
	require.NoError(t, json.Unmarshal([]byte("null"), &a))
	assert.False(t, a.Valid())
}

func TestDatasetEstablishments(t *testing.T) {
	var d Dataset
	require.NoError(t, json.Unmarshal([]byte(`{"FHRSEstablishment":{"EstablishmentCollection":[
		{"FHRSID":1,"BusinessName":"Cafe","RatingValue":"5","AddressLine2":null}]}}`), &d))

	got := d.Establishments()
	require.Len(t, got, 1)
	assert.Equal(t, "Cafe", got[0].BusinessName)
	assert.Equal(t, "", got[0].AddressLine2)

	var empty Dataset
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.NotNil(t, empty.Establishments())
	assert.Empty(t, empty.Establishments())
}

func TestImprovedAuthoritySentinel(t *testing.T) {
	assert.False(t, ImprovedAuthority{IncreaseInFiveStarCount: NoIncrease}.HasData())
	assert.True(t, ImprovedAuthority{Name: "X"}.HasData())
}
