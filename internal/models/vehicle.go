package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle represents a customer vehicle. It has exactly one owner at a time.
type Vehicle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ClientID  primitive.ObjectID `bson:"cliente_id" json:"cliente_id" validate:"required"`
	Brand     string             `bson:"marca" json:"marca" validate:"required"`
	Model     string             `bson:"modelo" json:"modelo" validate:"required"`
	Year      int                `bson:"ano" json:"ano" validate:"required,min=1900,max=2100"`
	Plate     string             `bson:"placa" json:"placa" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
