package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a repair-shop customer. Vehicles and Shops are id sets
// maintained through the relationship operations, never by plain updates.
type Client struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name      string               `bson:"nome" json:"nome" validate:"required"`
	TaxID     string               `bson:"cpf" json:"cpf" validate:"required"`
	Phone     string               `bson:"telefone" json:"telefone" validate:"required"`
	Email     string               `bson:"email" json:"email" validate:"required,email"`
	Vehicles  []primitive.ObjectID `bson:"veiculos" json:"veiculos"`
	Shops     []primitive.ObjectID `bson:"oficinas" json:"oficinas"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// InitSets replaces nil reference sets with empty ones so the stored
// document always holds arrays ($addToSet refuses to touch a null field).
func (c *Client) InitSets() {
	if c.Vehicles == nil {
		c.Vehicles = []primitive.ObjectID{}
	}
	if c.Shops == nil {
		c.Shops = []primitive.ObjectID{}
	}
}
