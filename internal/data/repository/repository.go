package repository

import (
	"smartstayz/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Reservation: NewReservationRepository(db, log),
	}
}
