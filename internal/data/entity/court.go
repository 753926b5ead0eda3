package entity

import "github.com/google/uuid"

// CourtArea groups courts for presentation. It is not a scheduling unit.
type CourtArea struct {
	Base
	Audit
	Name   string  `db:"name"`
	Courts []Court `db:"-"`
}

type Court struct {
	Base
	Audit
	AreaID   uuid.UUID `db:"area_id"`
	Name     string    `db:"name"`
	Position int       `db:"position"`
	IsActive bool      `db:"is_active"`
}
