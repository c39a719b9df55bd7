package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefSet names an id-set field on a client or shop document.
type RefSet string

const (
	ClientVehicles RefSet = "veiculos"
	ClientShops    RefSet = "oficinas"
	ShopClients    RefSet = "clientes"
	ShopOrders     RefSet = "ordensServico"
)

// LineField names a line-item array on a service order.
type LineField string

const (
	ServiceLines LineField = "servicos"
	PartLines    LineField = "pecas"
)

// ClientCollection defines the interface for client data operations.
type ClientCollection interface {
	InsertClient(ctx context.Context, client *models.Client) error
	FindClients(ctx context.Context) ([]models.Client, error)
	FindClientByID(ctx context.Context, id string) (*models.Client, error)
	FindClientsByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id string) error
	AddRef(ctx context.Context, id primitive.ObjectID, set RefSet, ref primitive.ObjectID) error
	PullRef(ctx context.Context, id primitive.ObjectID, set RefSet, ref primitive.ObjectID) error
	// PullVehicleFromOthers removes the vehicle from every client except keep.
	PullVehicleFromOthers(ctx context.Context, vehicleID, keep primitive.ObjectID) error
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle *models.Vehicle) error
	FindVehicles(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehiclesByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
	SetVehicleOwner(ctx context.Context, vehicleID, clientID primitive.ObjectID) error
}

// ShopCollection defines the interface for shop data operations.
type ShopCollection interface {
	InsertShop(ctx context.Context, shop *models.Shop) error
	FindShops(ctx context.Context, filter ShopFilter) ([]models.Shop, error)
	FindShopByID(ctx context.Context, id string) (*models.Shop, error)
	FindShopsByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Shop, error)
	UpdateShop(ctx context.Context, shop *models.Shop) error
	DeleteShop(ctx context.Context, id string) error
	AddRef(ctx context.Context, id primitive.ObjectID, set RefSet, ref primitive.ObjectID) error
	PullRef(ctx context.Context, id primitive.ObjectID, set RefSet, ref primitive.ObjectID) error
}

// ServiceCollection defines the interface for catalog service operations.
type ServiceCollection interface {
	InsertService(ctx context.Context, service *models.Service) error
	FindServices(ctx context.Context, filter ServiceFilter) ([]models.Service, error)
	FindServiceByID(ctx context.Context, id string) (*models.Service, error)
	FindServicesByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Service, error)
	UpdateService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id string) error
}

// PartCollection defines the interface for catalog part operations.
type PartCollection interface {
	InsertPart(ctx context.Context, part *models.Part) error
	FindParts(ctx context.Context, filter PartFilter) ([]models.Part, error)
	FindPartByID(ctx context.Context, id string) (*models.Part, error)
	FindPartsByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Part, error)
	UpdatePart(ctx context.Context, part *models.Part) error
	DeletePart(ctx context.Context, id string) error
	SetPartStock(ctx context.Context, id string, quantity int) (*models.Part, error)
}

// OrderCollection defines the interface for service order operations.
// Listings are sorted by entry date, most recent first.
type OrderCollection interface {
	InsertOrder(ctx context.Context, order *models.ServiceOrder) error
	FindOrders(ctx context.Context, filter OrderFilter) ([]models.ServiceOrder, error)
	FindOrderByID(ctx context.Context, id string) (*models.ServiceOrder, error)
	FindOrdersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ServiceOrder, error)
	UpdateOrder(ctx context.Context, order *models.ServiceOrder) error
	DeleteOrder(ctx context.Context, id string) error
	// SetOrderStatus writes the status and, when stampExit is set, the exit
	// date unless one is already stored.
	SetOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, stampExit bool, now time.Time) (*models.ServiceOrder, error)
	PushServiceLine(ctx context.Context, id primitive.ObjectID, line models.ServiceLine) error
	PushPartLine(ctx context.Context, id primitive.ObjectID, line models.PartLine) error
	// PullLine removes the line with the given id. With index >= 0 the removal
	// only happens while that line is still at index, else ErrConflict.
	PullLine(ctx context.Context, id primitive.ObjectID, field LineField, lineID primitive.ObjectID, index int) error
	SetOrderTotal(ctx context.Context, id primitive.ObjectID, total decimal.Decimal) error
}

// Store groups the collections the API works with.
type Store struct {
	Clients  ClientCollection
	Vehicles VehicleCollection
	Shops    ShopCollection
	Services ServiceCollection
	Parts    PartCollection
	Orders   OrderCollection
}
