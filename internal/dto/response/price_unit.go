package response

import (
	"time"

	"court-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type PriceUnitResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Rate             decimal.Decimal `json:"rate"`
	IncrementMinutes int             `json:"increment_minutes"`
	IsActive         bool            `json:"is_active"`
	RetiredAt        *time.Time      `json:"retired_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	CreatedBy        string          `json:"created_by"`
	UpdatedAt        time.Time       `json:"updated_at"`
	UpdatedBy        string          `json:"updated_by"`
}

func PriceUnitToResponse(pu *entity.PriceUnit) PriceUnitResponse {
	return PriceUnitResponse{
		ID:               pu.ID.String(),
		Name:             pu.Name,
		Rate:             pu.Rate,
		IncrementMinutes: pu.IncrementMinutes,
		IsActive:         pu.IsActive,
		RetiredAt:        pu.RetiredAt,
		CreatedAt:        pu.CreatedAt,
		CreatedBy:        pu.CreatedBy,
		UpdatedAt:        pu.UpdatedAt,
		UpdatedBy:        pu.UpdatedBy,
	}
}
