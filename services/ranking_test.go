package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hygiene-analyzer/models"
)

func TestGetTopRatedBusinessesOrdersByDate(t *testing.T) {
	top := GetTopRatedBusinesses(sampleEstablishments(), models.FiveStar, 10)

	require.Len(t, top, 2, "Bakehouse has an unparseable date and is not ranked")
	assert.Equal(t, "Tea Rooms", top[0].Name)
	assert.Equal(t, "Rose Cafe", top[1].Name)
	assert.Equal(t, models.TopRatedBusiness{
		Name:       "Tea Rooms",
		Address:    "Tea Rooms Street, Town",
		Rating:     "5",
		RatingDate: "2024-05-05T00:00:00",
		Authority:  "Solihull",
	}, top[0])
}

func TestGetTopRatedBusinessesLimitAndTies(t *testing.T) {
	records := []models.Establishment{
		est("first", "x", "5", "2024-01-01T00:00:00", "A"),
		est("second", "x", "5", "2024-01-01T00:00:00", "A"),
		est("newest", "x", "5", "2024-02-01", "A"),
		est("third", "x", "5", "2024-01-01T00:00:00Z", "A"),
		est("four-star", "x", "4", "2025-01-01T00:00:00", "A"),
	}

	top := GetTopRatedBusinesses(records, "5", 3)

	require.Len(t, top, 3)
	assert.Equal(t, []string{"newest", "first", "second"}, []string{top[0].Name, top[1].Name, top[2].Name})
}

func TestGetTopRatedBusinessesAddressJoin(t *testing.T) {
	e := est("Solo", "x", "5", "2024-01-01T00:00:00", "A")
	e.AddressLine1 = "1 High Street"
	e.AddressLine2 = ""

	top := GetTopRatedBusinesses([]models.Establishment{e}, "5", 1)

	require.Len(t, top, 1)
	assert.Equal(t, "1 High Street, ", top[0].Address)
}

func TestGetTopRatedBusinessesEmpty(t *testing.T) {
	assert.Empty(t, GetTopRatedBusinesses(nil, "5", 10))
	assert.Empty(t, GetTopRatedBusinesses(sampleEstablishments(), "5", 0))
}
