package relations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/db/dbtest"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedClient(t *testing.T, store *db.Store, name, cpf string) *models.Client {
	t.Helper()
	c := &models.Client{Name: name, TaxID: cpf, Phone: "11 99999-0000", Email: cpf + "@example.com"}
	require.NoError(t, store.Clients.InsertClient(context.Background(), c))
	return c
}

func seedVehicle(t *testing.T, store *db.Store, owner primitive.ObjectID, plate string) *models.Vehicle {
	t.Helper()
	v := &models.Vehicle{ClientID: owner, Brand: "Fiat", Model: "Uno", Year: 2010, Plate: plate}
	require.NoError(t, store.Vehicles.InsertVehicle(context.Background(), v))
	return v
}

func seedShop(t *testing.T, store *db.Store, name string) *models.Shop {
	t.Helper()
	s := &models.Shop{Name: name, Address: models.Address{City: "São Paulo", State: "SP"}}
	require.NoError(t, store.Shops.InsertShop(context.Background(), s))
	return s
}

func TestAddVehicle_SingleOwner(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	m := NewMaintainer(store)
	ana := seedClient(t, store, "Ana", "111")
	bruno := seedClient(t, store, "Bruno", "222")
	car := seedVehicle(t, store, ana.ID, "ABC1D23")

	detail, err := m.AddVehicle(ctx, ana.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	require.Len(t, detail.Vehicles, 1)
	assert.Equal(t, "ABC1D23", detail.Vehicles[0].Plate)

	// adding twice keeps a single entry
	detail, err = m.AddVehicle(ctx, ana.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{car.ID}, detail.Client.Vehicles)

	detail, err = m.AddVehicle(ctx, bruno.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{car.ID}, detail.Client.Vehicles)

	previous, err := store.Clients.FindClientByID(ctx, ana.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, previous.Vehicles, "previous owner loses the vehicle")

	stored, err := store.Vehicles.FindVehicleByID(ctx, car.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, bruno.ID, stored.ClientID)
}

func TestAddVehicle_MissingDocuments(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	m := NewMaintainer(store)
	ana := seedClient(t, store, "Ana", "111")
	car := seedVehicle(t, store, ana.ID, "ABC1D23")

	_, err := m.AddVehicle(ctx, primitive.NewObjectID().Hex(), car.ID.Hex())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
	assert.Equal(t, db.ClientNotFound, apierror.Message(err))

	_, err = m.AddVehicle(ctx, ana.ID.Hex(), primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
	assert.Equal(t, db.VehicleNotFound, apierror.Message(err))

	_, err = m.AddVehicle(ctx, "not-an-id", car.ID.Hex())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestRemoveVehicle_DanglingID(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	m := NewMaintainer(store)
	ana := seedClient(t, store, "Ana", "111")
	car := seedVehicle(t, store, ana.ID, "ABC1D23")

	_, err := m.AddVehicle(ctx, ana.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	require.NoError(t, store.Vehicles.DeleteVehicle(ctx, car.ID.Hex()))

	detail, err := m.AddVehicle(ctx, ana.ID.Hex(), car.ID.Hex())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
	assert.Nil(t, detail)

	client, err := store.Clients.FindClientByID(ctx, ana.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{car.ID}, client.Vehicles)

	detail, err = m.RemoveVehicle(ctx, ana.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, detail.Client.Vehicles)
	assert.Empty(t, detail.Vehicles)

	// removing again is a no-op
	_, err = m.RemoveVehicle(ctx, ana.ID.Hex(), car.ID.Hex())
	assert.NoError(t, err)
}

func TestShopLinks_BothSides(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	m := NewMaintainer(store)
	ana := seedClient(t, store, "Ana", "111")
	car := seedVehicle(t, store, ana.ID, "ABC1D23")
	_, err := m.AddVehicle(ctx, ana.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	shop := seedShop(t, store, "Auto Center")

	detail, err := m.AddShop(ctx, ana.ID.Hex(), shop.ID.Hex())
	require.NoError(t, err)
	require.Len(t, detail.Shops, 1)
	assert.Equal(t, "Auto Center", detail.Shops[0].Name)

	shopDetail, err := m.AddClient(ctx, shop.ID.Hex(), ana.ID.Hex())
	require.NoError(t, err)
	require.Len(t, shopDetail.Clients, 1, "set stays duplicate free")
	assert.Equal(t, "Ana", shopDetail.Clients[0].Name)
	require.Len(t, shopDetail.Clients[0].Vehicles, 1)
	assert.Equal(t, car.ID, shopDetail.Clients[0].Vehicles[0].ID)

	shopDetail, err = m.RemoveClient(ctx, shop.ID.Hex(), ana.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, shopDetail.Clients)

	client, err := store.Clients.FindClientByID(ctx, ana.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, client.Shops)
}

func TestRemoveShop_ShopAlreadyDeleted(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	m := NewMaintainer(store)
	ana := seedClient(t, store, "Ana", "111")
	shop := seedShop(t, store, "Auto Center")

	_, err := m.AddShop(ctx, ana.ID.Hex(), shop.ID.Hex())
	require.NoError(t, err)
	require.NoError(t, store.Shops.DeleteShop(ctx, shop.ID.Hex()))

	detail, err := m.RemoveShop(ctx, ana.ID.Hex(), shop.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, detail.Client.Shops)

	_, err = m.AddShop(ctx, ana.ID.Hex(), shop.ID.Hex())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
	assert.Equal(t, db.ShopNotFound, apierror.Message(err))
}

func TestShopOrders(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	m := NewMaintainer(store)
	ana := seedClient(t, store, "Ana", "111")
	car := seedVehicle(t, store, ana.ID, "ABC1D23")
	shop := seedShop(t, store, "Auto Center")
	order := &models.ServiceOrder{ClientID: ana.ID, VehicleID: car.ID, ShopID: shop.ID}
	order.ApplyDefaults(time.Now().UTC())
	require.NoError(t, store.Orders.InsertOrder(ctx, order))

	detail, err := m.AddOrder(ctx, shop.ID.Hex(), order.ID.Hex())
	require.NoError(t, err)
	require.Len(t, detail.Orders, 1)
	assert.Equal(t, order.ID, detail.Orders[0].ID)
	require.NotNil(t, detail.Orders[0].Client)
	assert.Equal(t, "111", detail.Orders[0].Client.TaxID)

	_, err = m.AddOrder(ctx, shop.ID.Hex(), primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
	assert.Equal(t, db.OrderNotFound, apierror.Message(err))

	detail, err = m.RemoveOrder(ctx, shop.ID.Hex(), order.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, detail.Orders)
	assert.Empty(t, detail.Shop.Orders)

	_, err = m.RemoveOrder(ctx, primitive.NewObjectID().Hex(), order.ID.Hex())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}
