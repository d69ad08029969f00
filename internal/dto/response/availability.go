package response

type BlockedDatesResponse struct {
	Property     string   `json:"property"`
	BlockedDates []string `json:"blocked_dates"`
	// Stale is true when the dates come from an expired cache entry or
	// a partial refresh; callers may want to re-check before paying.
	Stale bool `json:"stale,omitempty"`
}

type AvailabilityCheckResponse struct {
	Property      string   `json:"property"`
	CheckIn       string   `json:"check_in"`
	CheckOut      string   `json:"check_out"`
	Available     bool     `json:"available"`
	BlockedDates  []string `json:"blocked_dates,omitempty"`
	NextAvailable string   `json:"next_available,omitempty"`
}
