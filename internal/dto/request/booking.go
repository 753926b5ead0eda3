package request

type CreateBookingRequest struct {
	CustomerID  string `json:"customer_id" validate:"required,uuid"`
	CourtID     string `json:"court_id" validate:"required,uuid"`
	PriceUnitID string `json:"price_unit_id" validate:"required,uuid"`
	Date        string `json:"date" validate:"required,date"`
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	CourtID    string `json:"court_id" validate:"omitempty,uuid"`
	CustomerID string `json:"customer_id" validate:"omitempty,uuid"`
	Date       string `json:"date" validate:"omitempty,date"`
	Status     string `json:"status" validate:"omitempty,oneof=reserved checked_in completed cancelled"`
}
