package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const PriceUnitNameMaxLen = 100

// PriceUnit is a named rate charged per billable increment
// (e.g. 50,000 per 60 minutes).
type PriceUnit struct {
	Base
	Audit
	Name             string          `db:"name"`
	Rate             decimal.Decimal `db:"rate"`
	IncrementMinutes int             `db:"increment_minutes"`
	IsActive         bool            `db:"is_active"`
	RetiredAt        *time.Time      `db:"retired_at"`
}
