package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	ProfessionalID uuid.UUID `db:"professional_id"`
	CustomerID     uuid.UUID `db:"customer_id"`
	BookingID      uuid.UUID `db:"booking_id"`
	Rating         int       `db:"rating"`
	Comment        string    `db:"comment"`
}
