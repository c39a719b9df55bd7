package models

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The *Ref types hold the selected fields of a referenced document; fields
// that were not selected stay empty and are omitted.

type ClientRef struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"nome,omitempty"`
	TaxID string             `json:"cpf,omitempty"`
	Phone string             `json:"telefone,omitempty"`
	Email string             `json:"email,omitempty"`
	// only resolved for orders listed under a shop
	Vehicles []VehicleRef `json:"veiculos,omitempty"`
}

type VehicleRef struct {
	ID    primitive.ObjectID `json:"_id"`
	Brand string             `json:"marca,omitempty"`
	Model string             `json:"modelo,omitempty"`
	Year  int                `json:"ano,omitempty"`
	Plate string             `json:"placa,omitempty"`
}

type ShopRef struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"nome,omitempty"`
	Phone string             `json:"telefone,omitempty"`
	Email string             `json:"email,omitempty"`
}

type ServiceRef struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"nome,omitempty"`
	Description string             `json:"descricao,omitempty"`
	Price       *decimal.Decimal   `json:"preco,omitempty"`
}

type PartRef struct {
	ID        primitive.ObjectID `json:"_id"`
	Name      string             `json:"nome,omitempty"`
	Brand     string             `json:"marca,omitempty"`
	UnitPrice *decimal.Decimal   `json:"preco_unitario,omitempty"`
	Stock     *int               `json:"quantidade_estoque,omitempty"`
}

// View types embed the stored document and redeclare the reference fields
// under the same JSON names; encoding/json keeps the shallower field, so the
// resolved value replaces the bare id in the output. A nil reference means
// the target document no longer exists.

type ServiceLineView struct {
	ID        primitive.ObjectID `json:"_id"`
	Service   *ServiceRef        `json:"servico_id"`
	Quantity  int                `json:"quantidade"`
	UnitPrice *decimal.Decimal   `json:"preco_unitario,omitempty"`
}

type PartLineView struct {
	ID        primitive.ObjectID `json:"_id"`
	Part      *PartRef           `json:"peca_id"`
	Quantity  int                `json:"quantidade"`
	UnitPrice *decimal.Decimal   `json:"preco_unitario,omitempty"`
}

type ServiceOrderView struct {
	ServiceOrder
	Client   *ClientRef        `json:"cliente_id"`
	Vehicle  *VehicleRef       `json:"veiculo_id"`
	Shop     *ShopRef          `json:"oficina_id"`
	Services []ServiceLineView `json:"servicos"`
	Parts    []PartLineView    `json:"pecas"`
}

type VehicleView struct {
	Vehicle
	Client *ClientRef `json:"cliente_id"`
}

// ClientDetail is a client with its vehicle and shop sets resolved.
type ClientDetail struct {
	Client
	Vehicles []Vehicle `json:"veiculos"`
	Shops    []Shop    `json:"oficinas"`
}

// ClientWithVehicles is the client shape nested inside shop details.
type ClientWithVehicles struct {
	Client
	Vehicles []Vehicle `json:"veiculos"`
}

// ShopDetail is a shop with its clients (and their vehicles) and its
// service orders resolved.
type ShopDetail struct {
	Shop
	Clients []ClientWithVehicles `json:"clientes"`
	Orders  []ServiceOrderView   `json:"ordensServico"`
}
