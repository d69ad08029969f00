package request

type CheckAvailabilityRequest struct {
	Property string `json:"property" validate:"required,oneof=stone copper cedar"`
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
}
