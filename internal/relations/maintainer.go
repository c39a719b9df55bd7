// Package relations keeps the id sets that link clients, vehicles, shops and
// service orders. Each change is a set of single-document atomic updates;
// there are no cross-document transactions, so a failure halfway leaves the
// earlier writes in place.
package relations

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Maintainer adds and removes references. Adding requires both documents to
// exist; removing only requires the owner, so dangling ids can be cleaned up.
// Every operation returns the owner re-read and populated.
type Maintainer struct {
	store     *db.Store
	populator *db.Populator
}

// NewMaintainer returns a Maintainer over store.
func NewMaintainer(store *db.Store) *Maintainer {
	return &Maintainer{store: store, populator: db.NewPopulator(store)}
}

// AddVehicle makes client the single owner of vehicle: the vehicle joins the
// client's set, its cliente_id is rewritten and any other client listing it
// loses it.
func (m *Maintainer) AddVehicle(ctx context.Context, clientID, vehicleID string) (*models.ClientDetail, error) {
	client, err := m.store.Clients.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	vehicle, err := m.store.Vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if err := m.store.Clients.AddRef(ctx, client.ID, db.ClientVehicles, vehicle.ID); err != nil {
		return nil, err
	}
	if err := m.store.Vehicles.SetVehicleOwner(ctx, vehicle.ID, client.ID); err != nil {
		return nil, err
	}
	if err := m.store.Clients.PullVehicleFromOthers(ctx, vehicle.ID, client.ID); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"client_id":      client.ID.Hex(),
		"vehicle_id":     vehicle.ID.Hex(),
		"previous_owner": vehicle.ClientID.Hex(),
	}).Info("Vehicle linked to client")
	return m.clientDetail(ctx, clientID)
}

// RemoveVehicle drops vehicle from the client's set. The vehicle itself keeps
// its cliente_id.
func (m *Maintainer) RemoveVehicle(ctx context.Context, clientID, vehicleID string) (*models.ClientDetail, error) {
	client, err := m.store.Clients.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	vid, err := db.ParseID(vehicleID, db.VehicleNotFound)
	if err != nil {
		return nil, err
	}
	if err := m.store.Clients.PullRef(ctx, client.ID, db.ClientVehicles, vid); err != nil {
		return nil, err
	}
	return m.clientDetail(ctx, clientID)
}

// AddShop links client and shop on both sides.
func (m *Maintainer) AddShop(ctx context.Context, clientID, shopID string) (*models.ClientDetail, error) {
	client, shop, err := m.clientAndShop(ctx, clientID, shopID)
	if err != nil {
		return nil, err
	}
	if err := m.link(ctx, client.ID, shop.ID); err != nil {
		return nil, err
	}
	return m.clientDetail(ctx, clientID)
}

// RemoveShop unlinks client and shop on both sides.
func (m *Maintainer) RemoveShop(ctx context.Context, clientID, shopID string) (*models.ClientDetail, error) {
	client, err := m.store.Clients.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	sid, err := db.ParseID(shopID, db.ShopNotFound)
	if err != nil {
		return nil, err
	}
	if err := m.unlink(ctx, client.ID, sid); err != nil {
		return nil, err
	}
	return m.clientDetail(ctx, clientID)
}

// AddClient is AddShop seen from the shop.
func (m *Maintainer) AddClient(ctx context.Context, shopID, clientID string) (*models.ShopDetail, error) {
	shop, err := m.store.Shops.FindShopByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	client, err := m.store.Clients.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := m.link(ctx, client.ID, shop.ID); err != nil {
		return nil, err
	}
	return m.shopDetail(ctx, shopID)
}

// RemoveClient is RemoveShop seen from the shop.
func (m *Maintainer) RemoveClient(ctx context.Context, shopID, clientID string) (*models.ShopDetail, error) {
	shop, err := m.store.Shops.FindShopByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	cid, err := db.ParseID(clientID, db.ClientNotFound)
	if err != nil {
		return nil, err
	}
	if err := m.unlink(ctx, cid, shop.ID); err != nil {
		return nil, err
	}
	return m.shopDetail(ctx, shopID)
}

// AddOrder lists order in the shop's ordensServico set.
func (m *Maintainer) AddOrder(ctx context.Context, shopID, orderID string) (*models.ShopDetail, error) {
	shop, err := m.store.Shops.FindShopByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	order, err := m.store.Orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := m.store.Shops.AddRef(ctx, shop.ID, db.ShopOrders, order.ID); err != nil {
		return nil, err
	}
	return m.shopDetail(ctx, shopID)
}

// RemoveOrder drops order from the shop's ordensServico set.
func (m *Maintainer) RemoveOrder(ctx context.Context, shopID, orderID string) (*models.ShopDetail, error) {
	shop, err := m.store.Shops.FindShopByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	oid, err := db.ParseID(orderID, db.OrderNotFound)
	if err != nil {
		return nil, err
	}
	if err := m.store.Shops.PullRef(ctx, shop.ID, db.ShopOrders, oid); err != nil {
		return nil, err
	}
	return m.shopDetail(ctx, shopID)
}

func (m *Maintainer) clientAndShop(ctx context.Context, clientID, shopID string) (*models.Client, *models.Shop, error) {
	client, err := m.store.Clients.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	shop, err := m.store.Shops.FindShopByID(ctx, shopID)
	if err != nil {
		return nil, nil, err
	}
	return client, shop, nil
}

func (m *Maintainer) link(ctx context.Context, clientID, shopID primitive.ObjectID) error {
	if err := m.store.Clients.AddRef(ctx, clientID, db.ClientShops, shopID); err != nil {
		return err
	}
	if err := m.store.Shops.AddRef(ctx, shopID, db.ShopClients, clientID); err != nil {
		return err
	}
	log.WithFields(log.Fields{"client_id": clientID.Hex(), "shop_id": shopID.Hex()}).Info("Client linked to shop")
	return nil
}

// unlink tolerates a missing counterpart: the id may already be dangling.
func (m *Maintainer) unlink(ctx context.Context, clientID, shopID primitive.ObjectID) error {
	if err := m.store.Clients.PullRef(ctx, clientID, db.ClientShops, shopID); err != nil && !errors.Is(err, apierror.ErrNotFound) {
		return err
	}
	if err := m.store.Shops.PullRef(ctx, shopID, db.ShopClients, clientID); err != nil && !errors.Is(err, apierror.ErrNotFound) {
		return err
	}
	return nil
}

func (m *Maintainer) clientDetail(ctx context.Context, id string) (*models.ClientDetail, error) {
	client, err := m.store.Clients.FindClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.populator.ClientDetail(ctx, client)
}

func (m *Maintainer) shopDetail(ctx context.Context, id string) (*models.ShopDetail, error) {
	shop, err := m.store.Shops.FindShopByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.populator.ShopDetail(ctx, shop)
}
