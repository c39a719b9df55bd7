package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of a service order.
type OrderStatus string

const (
	StatusOpen       OrderStatus = "aberto"
	StatusInProgress OrderStatus = "em_andamento"
	StatusFinished   OrderStatus = "concluido"
	StatusCancelled  OrderStatus = "cancelado"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []OrderStatus{StatusOpen, StatusInProgress, StatusFinished, StatusCancelled}

var statusSpellings = map[string]OrderStatus{
	"aberto":       StatusOpen,
	"aberta":       StatusOpen,
	"open":         StatusOpen,
	"em_andamento": StatusInProgress,
	"em andamento": StatusInProgress,
	"andamento":    StatusInProgress,
	"in_progress":  StatusInProgress,
	"in-progress":  StatusInProgress,
	"concluido":    StatusFinished,
	"concluído":    StatusFinished,
	"finalizado":   StatusFinished,
	"finished":     StatusFinished,
	"done":         StatusFinished,
	"cancelado":    StatusCancelled,
	"cancelled":    StatusCancelled,
	"canceled":     StatusCancelled,
}

// ParseStatus maps any accepted spelling to its canonical status.
func ParseStatus(s string) (OrderStatus, bool) {
	status, ok := statusSpellings[strings.ToLower(strings.TrimSpace(s))]
	return status, ok
}

// ServiceLine is one labour item on an order. UnitPrice is set only when
// the price was captured at the time the line was added.
type ServiceLine struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	ServiceID primitive.ObjectID `bson:"servico_id" json:"servico_id" validate:"required"`
	Quantity  int                `bson:"quantidade" json:"quantidade" validate:"min=1"`
	UnitPrice *decimal.Decimal   `bson:"preco_unitario,omitempty" json:"preco_unitario,omitempty"`
}

// PartLine is one part item on an order.
type PartLine struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	PartID    primitive.ObjectID `bson:"peca_id" json:"peca_id" validate:"required"`
	Quantity  int                `bson:"quantidade" json:"quantidade" validate:"min=1"`
	UnitPrice *decimal.Decimal   `bson:"preco_unitario,omitempty" json:"preco_unitario,omitempty"`
}

// ServiceOrder links a client, one of its vehicles and a shop with the
// services and parts applied. ExitDate is nil while the order is open.
type ServiceOrder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ClientID  primitive.ObjectID `bson:"cliente_id" json:"cliente_id" validate:"required"`
	VehicleID primitive.ObjectID `bson:"veiculo_id" json:"veiculo_id" validate:"required"`
	ShopID    primitive.ObjectID `bson:"oficina_id" json:"oficina_id" validate:"required"`
	EntryDate time.Time          `bson:"data_entrada" json:"data_entrada"`
	ExitDate  *time.Time         `bson:"data_saida,omitempty" json:"data_saida,omitempty"`
	Services  []ServiceLine      `bson:"servicos" json:"servicos" validate:"dive"`
	Parts     []PartLine         `bson:"pecas" json:"pecas" validate:"dive"`
	Total     decimal.Decimal    `bson:"valor_total" json:"valor_total" validate:"gte=0"`
	Status    OrderStatus        `bson:"status" json:"status" validate:"oneof=aberto em_andamento concluido cancelado"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsOpen reports whether the order has not been closed yet.
func (o *ServiceOrder) IsOpen() bool {
	return o.ExitDate == nil
}

// ApplyDefaults fills the fields that default at creation time.
func (o *ServiceOrder) ApplyDefaults(now time.Time) {
	if o.EntryDate.IsZero() {
		o.EntryDate = now
	}
	if o.Status == "" {
		o.Status = StatusOpen
	}
	if o.Services == nil {
		o.Services = []ServiceLine{}
	}
	if o.Parts == nil {
		o.Parts = []PartLine{}
	}
	for i := range o.Services {
		if o.Services[i].ID.IsZero() {
			o.Services[i].ID = primitive.NewObjectID()
		}
		if o.Services[i].Quantity == 0 {
			o.Services[i].Quantity = 1
		}
	}
	for i := range o.Parts {
		if o.Parts[i].ID.IsZero() {
			o.Parts[i].ID = primitive.NewObjectID()
		}
		if o.Parts[i].Quantity == 0 {
			o.Parts[i].Quantity = 1
		}
	}
}
