package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	// Money goes over the wire as JSON numbers, as the API always did.
	decimal.MarshalJSONWithoutQuotes = true
}

// Service is a catalog labour item with a list price.
type Service struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"nome" json:"nome" validate:"required"`
	Description string             `bson:"descricao" json:"descricao"`
	Price       decimal.Decimal    `bson:"preco" json:"preco" validate:"gte=0"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Part is a catalog part with a mutable stock count.
type Part struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"nome" json:"nome" validate:"required"`
	Brand     string             `bson:"marca" json:"marca"`
	Stock     int                `bson:"quantidade_estoque" json:"quantidade_estoque" validate:"min=0"`
	UnitPrice decimal.Decimal    `bson:"preco_unitario" json:"preco_unitario" validate:"gte=0"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// ServiceInput is the body of a service create. The price is a pointer so
// that an absent price fails validation instead of reading as zero.
type ServiceInput struct {
	Name        string           `json:"nome" validate:"required"`
	Description string           `json:"descricao"`
	Price       *decimal.Decimal `json:"preco" validate:"required"`
}

// Service converts a validated input into a new document.
func (in ServiceInput) Service() Service {
	s := Service{Name: in.Name, Description: in.Description}
	if in.Price != nil {
		s.Price = *in.Price
	}
	return s
}

// PartInput is the body of a part create.
type PartInput struct {
	Name      string           `json:"nome" validate:"required"`
	Brand     string           `json:"marca"`
	Stock     int              `json:"quantidade_estoque"`
	UnitPrice *decimal.Decimal `json:"preco_unitario" validate:"required"`
}

// Part converts a validated input into a new document.
func (in PartInput) Part() Part {
	p := Part{Name: in.Name, Brand: in.Brand, Stock: in.Stock}
	if in.UnitPrice != nil {
		p.UnitPrice = *in.UnitPrice
	}
	return p
}
