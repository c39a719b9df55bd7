package db_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/db/dbtest"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	store   *db.Store
	client  *models.Client
	vehicle *models.Vehicle
	shop    *models.Shop
	service *models.Service
	part    *models.Part
	order   *models.ServiceOrder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: dbtest.NewStore()}

	f.client = &models.Client{Name: "João Silva", TaxID: "111", Phone: "1199", Email: "joao@example.com"}
	require.NoError(t, f.store.Clients.InsertClient(ctx, f.client))
	f.vehicle = &models.Vehicle{ClientID: f.client.ID, Brand: "Fiat", Model: "Uno", Year: 2010, Plate: "ABC1D23"}
	require.NoError(t, f.store.Vehicles.InsertVehicle(ctx, f.vehicle))
	require.NoError(t, f.store.Clients.AddRef(ctx, f.client.ID, db.ClientVehicles, f.vehicle.ID))
	f.shop = &models.Shop{Name: "Oficina Central", Phone: "1130", Address: models.Address{City: "São Paulo", State: "SP"}}
	require.NoError(t, f.store.Shops.InsertShop(ctx, f.shop))
	f.service = &models.Service{Name: "Troca de óleo", Description: "Inclui filtro", Price: decimal.RequireFromString("50.00")}
	require.NoError(t, f.store.Services.InsertService(ctx, f.service))
	f.part = &models.Part{Name: "Filtro", Brand: "Bosch", UnitPrice: decimal.RequireFromString("25.00"), Stock: 10}
	require.NoError(t, f.store.Parts.InsertPart(ctx, f.part))

	f.order = &models.ServiceOrder{
		ClientID:  f.client.ID,
		VehicleID: f.vehicle.ID,
		ShopID:    f.shop.ID,
		Services:  []models.ServiceLine{{ServiceID: f.service.ID}},
		Parts:     []models.PartLine{{PartID: f.part.ID, Quantity: 3}},
	}
	require.NoError(t, f.store.Orders.InsertOrder(ctx, f.order))
	require.NoError(t, f.store.Shops.AddRef(ctx, f.shop.ID, db.ShopOrders, f.order.ID))
	require.NoError(t, f.store.Shops.AddRef(ctx, f.shop.ID, db.ShopClients, f.client.ID))
	return f
}

func TestPopulator_OrderSelections(t *testing.T) {
	f := newFixture(t)
	p := db.NewPopulator(f.store)

	view, err := p.Order(context.Background(), f.order, db.DefaultOrderJoin)
	require.NoError(t, err)

	require.NotNil(t, view.Client)
	assert.Equal(t, "João Silva", view.Client.Name)
	assert.Empty(t, view.Client.TaxID, "cpf is not selected for order views")
	require.NotNil(t, view.Vehicle)
	assert.Equal(t, "ABC1D23", view.Vehicle.Plate)
	require.NotNil(t, view.Shop)
	assert.Equal(t, "Oficina Central", view.Shop.Name)

	require.Len(t, view.Services, 1)
	require.NotNil(t, view.Services[0].Service)
	assert.True(t, view.Services[0].Service.Price.Equal(decimal.NewFromInt(50)))
	require.Len(t, view.Parts, 1)
	assert.Nil(t, view.Parts[0].Part.Stock, "stock is not selected for order views")
	assert.Equal(t, 3, view.Parts[0].Quantity)
}

func TestPopulator_DanglingReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Vehicles.DeleteVehicle(ctx, f.vehicle.ID.Hex()))
	require.NoError(t, f.store.Services.DeleteService(ctx, f.service.ID.Hex()))

	p := db.NewPopulator(f.store)
	view, err := p.Order(ctx, f.order, db.DefaultOrderJoin)
	require.NoError(t, err)
	assert.Nil(t, view.Vehicle)
	require.Len(t, view.Services, 1)
	assert.Nil(t, view.Services[0].Service)

	client, err := f.store.Clients.FindClientByID(ctx, f.client.ID.Hex())
	require.NoError(t, err)
	detail, err := p.ClientDetail(ctx, client)
	require.NoError(t, err)
	assert.Len(t, client.Vehicles, 1, "deletion does not cascade")
	assert.Empty(t, detail.Vehicles, "unresolved ids are left out of detail views")
}

func TestPopulator_ShopViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := db.NewPopulator(f.store)

	shop, err := f.store.Shops.FindShopByID(ctx, f.shop.ID.Hex())
	require.NoError(t, err)

	detail, err := p.ShopDetail(ctx, shop)
	require.NoError(t, err)
	require.Len(t, detail.Clients, 1)
	require.Len(t, detail.Clients[0].Vehicles, 1)
	assert.Equal(t, f.vehicle.ID, detail.Clients[0].Vehicles[0].ID)
	require.Len(t, detail.Orders, 1)
	assert.Equal(t, "111", detail.Orders[0].Client.TaxID)
	require.NotNil(t, detail.Orders[0].Parts[0].Part.Stock)
	assert.Equal(t, 10, *detail.Orders[0].Parts[0].Part.Stock)

	orders, err := p.ShopOrders(ctx, shop, db.ShopOrdersJoin)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Client.Vehicles, 1)
	assert.Equal(t, "Uno", orders[0].Client.Vehicles[0].Model)
	assert.Equal(t, shop.ID, orders[0].Shop.ID)
}

func TestPopulator_Vehicles(t *testing.T) {
	f := newFixture(t)
	p := db.NewPopulator(f.store)

	views, err := p.Vehicles(context.Background(), []models.Vehicle{*f.vehicle, {ID: primitive.NewObjectID(), ClientID: primitive.NewObjectID()}})
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].Client)
	assert.Equal(t, "joao@example.com", views[0].Client.Email)
	assert.Empty(t, views[0].Client.Phone)
	assert.Nil(t, views[1].Client)
}
