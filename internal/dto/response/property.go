package response

import "smartstayz/internal/data/entity"

type PropertyResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AirbnbURL   string  `json:"airbnb_url"`
	NightlyRate float64 `json:"nightly_rate"`
	CleaningFee float64 `json:"cleaning_fee"`
}

func PropertyToResponse(p entity.Property) PropertyResponse {
	return PropertyResponse{
		ID:          string(p.ID),
		Name:        p.Name,
		AirbnbURL:   p.AirbnbURL,
		NightlyRate: p.NightlyRate,
		CleaningFee: p.CleaningFee,
	}
}
