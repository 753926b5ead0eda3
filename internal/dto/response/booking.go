package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	CourtID         string               `json:"court_id"`
	CustomerID      string               `json:"customer_id"`
	PriceUnitID     string               `json:"price_unit_id"`
	Date            string               `json:"date"`
	StartTime       string               `json:"start_time"`
	EndTime         string               `json:"end_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Status          entity.BookingStatus `json:"status"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		CourtID:         b.CourtID.String(),
		CustomerID:      b.CustomerID.String(),
		PriceUnitID:     b.PriceUnitID.String(),
		Date:            b.Date.Format(utils.DateLayout),
		StartTime:       b.Start.String(),
		EndTime:         b.End.String(),
		DurationMinutes: b.Interval().Minutes(),
		Status:          b.Status,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// AvailabilityResponse lists the operating window of one court on one day as
// consecutive free and occupied intervals.
type AvailabilityResponse struct {
	CourtID   string              `json:"court_id"`
	Date      string              `json:"date"`
	OpenFrom  string              `json:"open_from"`
	OpenTo    string              `json:"open_to"`
	Intervals []AvailabilityBlock `json:"intervals"`
}

type AvailabilityBlock struct {
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Free      bool    `json:"free"`
	BookingID *string `json:"booking_id,omitempty"`
}
