package request

type CreatePriceUnitRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	Rate             string `json:"rate" validate:"required,money"`
	IncrementMinutes int    `json:"increment_minutes" validate:"omitempty,min=1,max=1440"`
}

type UpdatePriceUnitRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	Rate             string `json:"rate" validate:"required,money"`
	IncrementMinutes int    `json:"increment_minutes" validate:"omitempty,min=1,max=1440"`
	IsActive         *bool  `json:"is_active,omitempty"`
}
