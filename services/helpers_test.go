package services

import (
	"hygiene-analyzer/models"
)

func est(name, businessType, rating, date, authority string) models.Establishment {
	return models.Establishment{
		BusinessName:       name,
		BusinessType:       businessType,
		AddressLine1:       name + " Street",
		AddressLine2:       "Town",
		RatingValue:        rating,
		RatingDate:         date,
		LocalAuthorityName: authority,
	}
}

func rated(authority string, ratings ...string) []models.Establishment {
	out := make([]models.Establishment, 0, len(ratings))
	for i, r := range ratings {
		out = append(out, est(authority+"-"+string(rune('a'+i)), "Restaurant/Cafe/Canteen", r, "2024-01-01T00:00:00", authority))
	}
	return out
}

func repeat(authority, rating string, n int) []models.Establishment {
	ratings := make([]string, n)
	for i := range ratings {
		ratings[i] = rating
	}
	return rated(authority, ratings...)
}

func sampleEstablishments() []models.Establishment {
	return []models.Establishment{
		est("Rose Cafe", "Restaurant/Cafe/Canteen", "5", "2024-03-01T00:00:00", "Birmingham"),
		est("Corner Shop", "Retailers - other", "4", "2023-11-12T00:00:00", "Birmingham"),
		est("School Kitchen", "School/college/university", "Exempt", "2022-06-01T00:00:00", "Solihull"),
		est("Kebab King", "Takeaway/sandwich shop", "2", "2024-01-20T00:00:00", "Birmingham"),
		est("Tea Rooms", "Restaurant/Cafe/Canteen", "5", "2024-05-05T00:00:00", "Solihull"),
		est("New Place", "Restaurant/Cafe/Canteen", "AwaitingInspection", "", "Solihull"),
		est("Bakehouse", "Manufacturers/packers", "5", "not-a-date", "Coventry"),
		est("Pub", "Pub/bar/nightclub", "3", "2021-09-09T00:00:00", "Coventry"),
	}
}
