package orders

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog holds the current catalog prices needed to price an order.
type Catalog struct {
	ServicePrices map[primitive.ObjectID]decimal.Decimal
	PartPrices    map[primitive.ObjectID]decimal.Decimal
}

// Total returns Σ(price × quantity) over the service lines plus the same
// over the part lines. A price captured on the line wins over the catalog.
// A line whose catalog item is gone and that captured no price cannot be
// priced and fails the whole computation.
func Total(order *models.ServiceOrder, catalog Catalog) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, line := range order.Services {
		price, ok := linePrice(line.UnitPrice, catalog.ServicePrices, line.ServiceID)
		if !ok {
			return decimal.Zero, apierror.InvalidField(fmt.Sprintf("servicos[%d].servico_id", i), "serviço não encontrado no catálogo")
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	for i, line := range order.Parts {
		price, ok := linePrice(line.UnitPrice, catalog.PartPrices, line.PartID)
		if !ok {
			return decimal.Zero, apierror.InvalidField(fmt.Sprintf("pecas[%d].peca_id", i), "peça não encontrada no catálogo")
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

func linePrice(captured *decimal.Decimal, prices map[primitive.ObjectID]decimal.Decimal, id primitive.ObjectID) (decimal.Decimal, bool) {
	if captured != nil {
		return *captured, true
	}
	price, ok := prices[id]
	return price, ok
}
