package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the postal address of a shop.
type Address struct {
	Street     string `bson:"rua" json:"rua"`
	City       string `bson:"cidade" json:"cidade"`
	State      string `bson:"estado" json:"estado"`
	PostalCode string `bson:"cep" json:"cep"`
}

// Shop represents a repair shop (oficina).
type Shop struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name      string               `bson:"nome" json:"nome" validate:"required"`
	Address   Address              `bson:"endereco" json:"endereco"`
	Phone     string               `bson:"telefone" json:"telefone"`
	Email     string               `bson:"email" json:"email" validate:"omitempty,email"`
	Clients   []primitive.ObjectID `bson:"clientes" json:"clientes"`
	Orders    []primitive.ObjectID `bson:"ordensServico" json:"ordensServico"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// InitSets replaces nil reference sets with empty ones.
func (s *Shop) InitSets() {
	if s.Clients == nil {
		s.Clients = []primitive.ObjectID{}
	}
	if s.Orders == nil {
		s.Orders = []primitive.ObjectID{}
	}
}
