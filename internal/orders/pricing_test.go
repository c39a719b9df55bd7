package orders

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTotal(t *testing.T) {
	serviceID, partID := primitive.NewObjectID(), primitive.NewObjectID()
	catalog := Catalog{
		ServicePrices: map[primitive.ObjectID]decimal.Decimal{serviceID: decimal.RequireFromString("50.00")},
		PartPrices:    map[primitive.ObjectID]decimal.Decimal{partID: decimal.RequireFromString("25.00")},
	}
	order := &models.ServiceOrder{
		Services: []models.ServiceLine{{ServiceID: serviceID, Quantity: 1}},
		Parts:    []models.PartLine{{PartID: partID, Quantity: 3}},
	}

	total, err := Total(order, catalog)
	require.NoError(t, err)
	assert.Equal(t, "125.00", total.StringFixed(2))
}

func TestTotal_NoFloatDrift(t *testing.T) {
	partID := primitive.NewObjectID()
	catalog := Catalog{PartPrices: map[primitive.ObjectID]decimal.Decimal{partID: decimal.RequireFromString("0.10")}}
	order := &models.ServiceOrder{}
	for i := 0; i < 3; i++ {
		order.Parts = append(order.Parts, models.PartLine{PartID: partID, Quantity: 1})
	}

	total, err := Total(order, catalog)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("0.30")), "got %s", total)
}

func TestTotal_CapturedPriceWins(t *testing.T) {
	serviceID := primitive.NewObjectID()
	captured := decimal.RequireFromString("40.00")
	catalog := Catalog{ServicePrices: map[primitive.ObjectID]decimal.Decimal{serviceID: decimal.RequireFromString("50.00")}}
	order := &models.ServiceOrder{
		Services: []models.ServiceLine{{ServiceID: serviceID, Quantity: 2, UnitPrice: &captured}},
	}

	total, err := Total(order, catalog)
	require.NoError(t, err)
	assert.Equal(t, "80.00", total.StringFixed(2))
}

func TestTotal_MissingCatalogItem(t *testing.T) {
	order := &models.ServiceOrder{
		Parts: []models.PartLine{{PartID: primitive.NewObjectID(), Quantity: 1}},
	}
	_, err := Total(order, Catalog{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierror.ErrValidation))
	assert.Contains(t, err.Error(), "pecas[0].peca_id")
}

func TestTotal_EmptyOrder(t *testing.T) {
	total, err := Total(&models.ServiceOrder{}, Catalog{})
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
