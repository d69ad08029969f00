package entity

type PropertyID string

const (
	PropertyStone  PropertyID = "stone"
	PropertyCopper PropertyID = "copper"
	PropertyCedar  PropertyID = "cedar"
)

// Property is immutable reference data for one of the fixed listings.
type Property struct {
	ID          PropertyID `json:"id"`
	Name        string     `json:"name"`
	AirbnbURL   string     `json:"airbnb_url"`
	NightlyRate float64    `json:"nightly_rate"`
	CleaningFee float64    `json:"cleaning_fee"`
}

var properties = []Property{
	{
		ID:          PropertyStone,
		Name:        "The Stone",
		AirbnbURL:   "https://www.airbnb.com/rooms/42680597",
		NightlyRate: 150,
		CleaningFee: 75,
	},
	{
		ID:          PropertyCopper,
		Name:        "The Copper",
		AirbnbURL:   "https://www.airbnb.com/h/melville-copper",
		NightlyRate: 150,
		CleaningFee: 75,
	},
	{
		ID:          PropertyCedar,
		Name:        "The Cedar",
		AirbnbURL:   "https://www.airbnb.com/rooms/40961787",
		NightlyRate: 150,
		CleaningFee: 75,
	},
}

func AllProperties() []Property {
	out := make([]Property, len(properties))
	copy(out, properties)
	return out
}

func PropertyByID(id string) (Property, bool) {
	for _, p := range properties {
		if string(p.ID) == id {
			return p, true
		}
	}
	return Property{}, false
}

func IsValidProperty(id string) bool {
	_, ok := PropertyByID(id)
	return ok
}
