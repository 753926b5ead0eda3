package request

type CreateCourtAreaRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateCourtRequest struct {
	AreaID   string `json:"area_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,max=100"`
	Position int    `json:"position" validate:"gte=0"`
}

// UpdateCourtRequest renames, moves or toggles a court. Empty fields keep
// their current value.
type UpdateCourtRequest struct {
	AreaID   string `json:"area_id" validate:"omitempty,uuid"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	Position *int   `json:"position,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type AvailabilityRequest struct {
	Date string `json:"date" validate:"required,date"`
}
