package entity

import "github.com/shopspring/decimal"

// BilledUnits converts a duration into billable increments, rounding any
// partial increment up so a court held past the line is never undercharged.
func BilledUnits(minutes, incrementMinutes int) int {
	if minutes <= 0 {
		return 0
	}
	if incrementMinutes <= 0 {
		incrementMinutes = 60
	}
	return (minutes + incrementMinutes - 1) / incrementMinutes
}

// ChargeFor prices an interval with a price unit: rate x billed units,
// rounded half-up to scale decimal places.
func ChargeFor(pu *PriceUnit, iv Interval, scale int32) (decimal.Decimal, int) {
	units := BilledUnits(iv.Minutes(), pu.IncrementMinutes)
	amount := pu.Rate.Mul(decimal.NewFromInt(int64(units))).Round(scale)
	return amount, units
}
