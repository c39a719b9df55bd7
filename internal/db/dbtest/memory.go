// Package dbtest provides an in-memory implementation of the db collections
// for tests that do not need a MongoDB server.
package dbtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory holds every collection behind a single lock, which gives each call
// the per-document atomicity MongoDB provides.
type Memory struct {
	mu       sync.Mutex
	clients  map[primitive.ObjectID]models.Client
	vehicles map[primitive.ObjectID]models.Vehicle
	shops    map[primitive.ObjectID]models.Shop
	services map[primitive.ObjectID]models.Service
	parts    map[primitive.ObjectID]models.Part
	orders   map[primitive.ObjectID]models.ServiceOrder
	clock    func() time.Time
}

// New returns an empty in-memory database.
func New() *Memory {
	return &Memory{
		clients:  map[primitive.ObjectID]models.Client{},
		vehicles: map[primitive.ObjectID]models.Vehicle{},
		shops:    map[primitive.ObjectID]models.Shop{},
		services: map[primitive.ObjectID]models.Service{},
		parts:    map[primitive.ObjectID]models.Part{},
		orders:   map[primitive.ObjectID]models.ServiceOrder{},
		clock:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// NewStore returns a db.Store backed by a fresh Memory.
func NewStore() *db.Store {
	return New().Store()
}

// Store exposes m through the db collection interfaces.
func (m *Memory) Store() *db.Store {
	return &db.Store{
		Clients:  &Clients{m},
		Vehicles: &Vehicles{m},
		Shops:    &Shops{m},
		Services: &Services{m},
		Parts:    &Parts{m},
		Orders:   &Orders{m},
	}
}

func (m *Memory) now() time.Time { return m.clock() }

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return nil
	}
	return append([]primitive.ObjectID{}, ids...)
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func lookup[T any](docs map[primitive.ObjectID]T, id, notFound string) (T, primitive.ObjectID, error) {
	var zero T
	oid, err := db.ParseID(id, notFound)
	if err != nil {
		return zero, oid, err
	}
	doc, ok := docs[oid]
	if !ok {
		return zero, oid, apierror.NotFound(notFound)
	}
	return doc, oid, nil
}

func byIDs[T any](docs map[primitive.ObjectID]T, ids []primitive.ObjectID) []T {
	out := []T{}
	seen := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		if doc, ok := docs[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, doc)
		}
	}
	return out
}

// Clients implements db.ClientCollection.
type Clients struct{ m *Memory }

func (c *Clients) taxIDTaken(cpf string, self primitive.ObjectID) bool {
	for id, existing := range c.m.clients {
		if id != self && existing.TaxID == cpf {
			return true
		}
	}
	return false
}

func cloneClient(cl models.Client) models.Client {
	cl.Vehicles = cloneIDs(cl.Vehicles)
	cl.Shops = cloneIDs(cl.Shops)
	return cl
}

func (c *Clients) InsertClient(_ context.Context, client *models.Client) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.taxIDTaken(client.TaxID, primitive.NilObjectID) {
		return apierror.InvalidField("cpf", "CPF já cadastrado")
	}
	client.ID = primitive.NewObjectID()
	client.CreatedAt = c.m.now()
	client.UpdatedAt = client.CreatedAt
	client.InitSets()
	c.m.clients[client.ID] = cloneClient(*client)
	return nil
}

func (c *Clients) FindClients(_ context.Context) ([]models.Client, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	out := []models.Client{}
	for _, cl := range c.m.clients {
		out = append(out, cloneClient(cl))
	}
	sortByCreation(out, func(cl models.Client) time.Time { return cl.CreatedAt })
	return out, nil
}

func (c *Clients) FindClientByID(_ context.Context, id string) (*models.Client, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	cl, _, err := lookup(c.m.clients, id, db.ClientNotFound)
	if err != nil {
		return nil, err
	}
	cl = cloneClient(cl)
	return &cl, nil
}

func (c *Clients) FindClientsByIDs(_ context.Context, ids []primitive.ObjectID, _ ...string) ([]models.Client, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	out := byIDs(c.m.clients, ids)
	for i := range out {
		out[i] = cloneClient(out[i])
	}
	return out, nil
}

func (c *Clients) UpdateClient(_ context.Context, client *models.Client) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	stored, ok := c.m.clients[client.ID]
	if !ok {
		return apierror.NotFound(db.ClientNotFound)
	}
	if c.taxIDTaken(client.TaxID, client.ID) {
		return apierror.InvalidField("cpf", "CPF já cadastrado")
	}
	client.UpdatedAt = c.m.now()
	stored.Name, stored.TaxID, stored.Phone, stored.Email = client.Name, client.TaxID, client.Phone, client.Email
	stored.UpdatedAt = client.UpdatedAt
	c.m.clients[client.ID] = stored
	return nil
}

func (c *Clients) DeleteClient(_ context.Context, id string) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	_, oid, err := lookup(c.m.clients, id, db.ClientNotFound)
	if err != nil {
		return err
	}
	delete(c.m.clients, oid)
	return nil
}

func (c *Clients) AddRef(_ context.Context, id primitive.ObjectID, set db.RefSet, ref primitive.ObjectID) error {
	return c.updateSet(id, set, func(ids []primitive.ObjectID) []primitive.ObjectID { return addID(ids, ref) })
}

func (c *Clients) PullRef(_ context.Context, id primitive.ObjectID, set db.RefSet, ref primitive.ObjectID) error {
	return c.updateSet(id, set, func(ids []primitive.ObjectID) []primitive.ObjectID { return removeID(ids, ref) })
}

func (c *Clients) updateSet(id primitive.ObjectID, set db.RefSet, fn func([]primitive.ObjectID) []primitive.ObjectID) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	cl, ok := c.m.clients[id]
	if !ok {
		return apierror.NotFound(db.ClientNotFound)
	}
	switch set {
	case db.ClientVehicles:
		cl.Vehicles = fn(cloneIDs(cl.Vehicles))
	case db.ClientShops:
		cl.Shops = fn(cloneIDs(cl.Shops))
	}
	cl.UpdatedAt = c.m.now()
	c.m.clients[id] = cl
	return nil
}

func (c *Clients) PullVehicleFromOthers(_ context.Context, vehicleID, keep primitive.ObjectID) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for id, cl := range c.m.clients {
		if id == keep {
			continue
		}
		cl.Vehicles = removeID(cl.Vehicles, vehicleID)
		c.m.clients[id] = cl
	}
	return nil
}

// Vehicles implements db.VehicleCollection.
type Vehicles struct{ m *Memory }

func (v *Vehicles) InsertVehicle(_ context.Context, vehicle *models.Vehicle) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = v.m.now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	v.m.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (v *Vehicles) FindVehicles(_ context.Context, filter db.VehicleFilter) ([]models.Vehicle, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	out := []models.Vehicle{}
	for _, vehicle := range v.m.vehicles {
		if filter.Matches(vehicle) {
			out = append(out, vehicle)
		}
	}
	sortByCreation(out, func(vh models.Vehicle) time.Time { return vh.CreatedAt })
	return out, nil
}

func (v *Vehicles) FindVehicleByID(_ context.Context, id string) (*models.Vehicle, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	vehicle, _, err := lookup(v.m.vehicles, id, db.VehicleNotFound)
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (v *Vehicles) FindVehiclesByIDs(_ context.Context, ids []primitive.ObjectID, _ ...string) ([]models.Vehicle, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	return byIDs(v.m.vehicles, ids), nil
}

func (v *Vehicles) UpdateVehicle(_ context.Context, vehicle *models.Vehicle) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	stored, ok := v.m.vehicles[vehicle.ID]
	if !ok {
		return apierror.NotFound(db.VehicleNotFound)
	}
	vehicle.UpdatedAt = v.m.now()
	vehicle.CreatedAt = stored.CreatedAt
	v.m.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (v *Vehicles) DeleteVehicle(_ context.Context, id string) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	_, oid, err := lookup(v.m.vehicles, id, db.VehicleNotFound)
	if err != nil {
		return err
	}
	delete(v.m.vehicles, oid)
	return nil
}

func (v *Vehicles) SetVehicleOwner(_ context.Context, vehicleID, clientID primitive.ObjectID) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	vehicle, ok := v.m.vehicles[vehicleID]
	if !ok {
		return apierror.NotFound(db.VehicleNotFound)
	}
	vehicle.ClientID = clientID
	vehicle.UpdatedAt = v.m.now()
	v.m.vehicles[vehicleID] = vehicle
	return nil
}

// Shops implements db.ShopCollection.
type Shops struct{ m *Memory }

func cloneShop(s models.Shop) models.Shop {
	s.Clients = cloneIDs(s.Clients)
	s.Orders = cloneIDs(s.Orders)
	return s
}

func (s *Shops) InsertShop(_ context.Context, shop *models.Shop) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	shop.ID = primitive.NewObjectID()
	shop.CreatedAt = s.m.now()
	shop.UpdatedAt = shop.CreatedAt
	shop.InitSets()
	s.m.shops[shop.ID] = cloneShop(*shop)
	return nil
}

func (s *Shops) FindShops(_ context.Context, filter db.ShopFilter) ([]models.Shop, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Shop{}
	for _, shop := range s.m.shops {
		if filter.Matches(shop) {
			out = append(out, cloneShop(shop))
		}
	}
	sortByCreation(out, func(sh models.Shop) time.Time { return sh.CreatedAt })
	return out, nil
}

func (s *Shops) FindShopByID(_ context.Context, id string) (*models.Shop, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	shop, _, err := lookup(s.m.shops, id, db.ShopNotFound)
	if err != nil {
		return nil, err
	}
	shop = cloneShop(shop)
	return &shop, nil
}

func (s *Shops) FindShopsByIDs(_ context.Context, ids []primitive.ObjectID, _ ...string) ([]models.Shop, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := byIDs(s.m.shops, ids)
	for i := range out {
		out[i] = cloneShop(out[i])
	}
	return out, nil
}

func (s *Shops) UpdateShop(_ context.Context, shop *models.Shop) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	stored, ok := s.m.shops[shop.ID]
	if !ok {
		return apierror.NotFound(db.ShopNotFound)
	}
	shop.UpdatedAt = s.m.now()
	stored.Name, stored.Address, stored.Phone, stored.Email = shop.Name, shop.Address, shop.Phone, shop.Email
	stored.UpdatedAt = shop.UpdatedAt
	s.m.shops[shop.ID] = stored
	return nil
}

func (s *Shops) DeleteShop(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	_, oid, err := lookup(s.m.shops, id, db.ShopNotFound)
	if err != nil {
		return err
	}
	delete(s.m.shops, oid)
	return nil
}

func (s *Shops) AddRef(_ context.Context, id primitive.ObjectID, set db.RefSet, ref primitive.ObjectID) error {
	return s.updateSet(id, set, func(ids []primitive.ObjectID) []primitive.ObjectID { return addID(ids, ref) })
}

func (s *Shops) PullRef(_ context.Context, id primitive.ObjectID, set db.RefSet, ref primitive.ObjectID) error {
	return s.updateSet(id, set, func(ids []primitive.ObjectID) []primitive.ObjectID { return removeID(ids, ref) })
}

func (s *Shops) updateSet(id primitive.ObjectID, set db.RefSet, fn func([]primitive.ObjectID) []primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	shop, ok := s.m.shops[id]
	if !ok {
		return apierror.NotFound(db.ShopNotFound)
	}
	switch set {
	case db.ShopClients:
		shop.Clients = fn(cloneIDs(shop.Clients))
	case db.ShopOrders:
		shop.Orders = fn(cloneIDs(shop.Orders))
	}
	shop.UpdatedAt = s.m.now()
	s.m.shops[id] = shop
	return nil
}

// Services implements db.ServiceCollection.
type Services struct{ m *Memory }

func (s *Services) InsertService(_ context.Context, service *models.Service) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	service.ID = primitive.NewObjectID()
	service.CreatedAt = s.m.now()
	service.UpdatedAt = service.CreatedAt
	s.m.services[service.ID] = *service
	return nil
}

func (s *Services) FindServices(_ context.Context, filter db.ServiceFilter) ([]models.Service, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Service{}
	for _, service := range s.m.services {
		if filter.Matches(service) {
			out = append(out, service)
		}
	}
	sortByCreation(out, func(sv models.Service) time.Time { return sv.CreatedAt })
	return out, nil
}

func (s *Services) FindServiceByID(_ context.Context, id string) (*models.Service, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	service, _, err := lookup(s.m.services, id, db.ServiceNotFound)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (s *Services) FindServicesByIDs(_ context.Context, ids []primitive.ObjectID, _ ...string) ([]models.Service, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return byIDs(s.m.services, ids), nil
}

func (s *Services) UpdateService(_ context.Context, service *models.Service) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	stored, ok := s.m.services[service.ID]
	if !ok {
		return apierror.NotFound(db.ServiceNotFound)
	}
	service.UpdatedAt = s.m.now()
	service.CreatedAt = stored.CreatedAt
	s.m.services[service.ID] = *service
	return nil
}

func (s *Services) DeleteService(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	_, oid, err := lookup(s.m.services, id, db.ServiceNotFound)
	if err != nil {
		return err
	}
	delete(s.m.services, oid)
	return nil
}

// Parts implements db.PartCollection.
type Parts struct{ m *Memory }

func (p *Parts) InsertPart(_ context.Context, part *models.Part) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	part.ID = primitive.NewObjectID()
	part.CreatedAt = p.m.now()
	part.UpdatedAt = part.CreatedAt
	p.m.parts[part.ID] = *part
	return nil
}

func (p *Parts) FindParts(_ context.Context, filter db.PartFilter) ([]models.Part, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	out := []models.Part{}
	for _, part := range p.m.parts {
		if filter.Matches(part) {
			out = append(out, part)
		}
	}
	sortByCreation(out, func(pt models.Part) time.Time { return pt.CreatedAt })
	return out, nil
}

func (p *Parts) FindPartByID(_ context.Context, id string) (*models.Part, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	part, _, err := lookup(p.m.parts, id, db.PartNotFound)
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (p *Parts) FindPartsByIDs(_ context.Context, ids []primitive.ObjectID, _ ...string) ([]models.Part, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	return byIDs(p.m.parts, ids), nil
}

func (p *Parts) UpdatePart(_ context.Context, part *models.Part) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	stored, ok := p.m.parts[part.ID]
	if !ok {
		return apierror.NotFound(db.PartNotFound)
	}
	part.UpdatedAt = p.m.now()
	part.CreatedAt = stored.CreatedAt
	p.m.parts[part.ID] = *part
	return nil
}

func (p *Parts) DeletePart(_ context.Context, id string) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	_, oid, err := lookup(p.m.parts, id, db.PartNotFound)
	if err != nil {
		return err
	}
	delete(p.m.parts, oid)
	return nil
}

func (p *Parts) SetPartStock(_ context.Context, id string, quantity int) (*models.Part, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	part, oid, err := lookup(p.m.parts, id, db.PartNotFound)
	if err != nil {
		return nil, err
	}
	part.Stock = quantity
	part.UpdatedAt = p.m.now()
	p.m.parts[oid] = part
	return &part, nil
}

// Orders implements db.OrderCollection.
type Orders struct{ m *Memory }

func cloneOrder(o models.ServiceOrder) models.ServiceOrder {
	o.Services = append([]models.ServiceLine{}, o.Services...)
	o.Parts = append([]models.PartLine{}, o.Parts...)
	if o.ExitDate != nil {
		exit := *o.ExitDate
		o.ExitDate = &exit
	}
	return o
}

func sortNewestFirst(orders []models.ServiceOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].EntryDate.After(orders[j].EntryDate)
	})
}

func (o *Orders) InsertOrder(_ context.Context, order *models.ServiceOrder) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = o.m.now()
	order.UpdatedAt = order.CreatedAt
	order.ApplyDefaults(order.CreatedAt)
	o.m.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (o *Orders) FindOrders(_ context.Context, filter db.OrderFilter) ([]models.ServiceOrder, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	out := []models.ServiceOrder{}
	for _, order := range o.m.orders {
		if filter.Matches(order) {
			out = append(out, cloneOrder(order))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (o *Orders) FindOrderByID(_ context.Context, id string) (*models.ServiceOrder, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	order, _, err := lookup(o.m.orders, id, db.OrderNotFound)
	if err != nil {
		return nil, err
	}
	order = cloneOrder(order)
	return &order, nil
}

func (o *Orders) FindOrdersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.ServiceOrder, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	out := byIDs(o.m.orders, ids)
	for i := range out {
		out[i] = cloneOrder(out[i])
	}
	sortNewestFirst(out)
	return out, nil
}

func (o *Orders) UpdateOrder(_ context.Context, order *models.ServiceOrder) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	stored, ok := o.m.orders[order.ID]
	if !ok {
		return apierror.NotFound(db.OrderNotFound)
	}
	order.UpdatedAt = o.m.now()
	order.CreatedAt = stored.CreatedAt
	o.m.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (o *Orders) DeleteOrder(_ context.Context, id string) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	_, oid, err := lookup(o.m.orders, id, db.OrderNotFound)
	if err != nil {
		return err
	}
	delete(o.m.orders, oid)
	return nil
}

func (o *Orders) SetOrderStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, stampExit bool, at time.Time) (*models.ServiceOrder, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	order, ok := o.m.orders[id]
	if !ok {
		return nil, apierror.NotFound(db.OrderNotFound)
	}
	order = cloneOrder(order)
	order.Status = status
	order.UpdatedAt = at
	if stampExit && order.ExitDate == nil {
		exit := at
		order.ExitDate = &exit
	}
	o.m.orders[id] = order
	out := cloneOrder(order)
	return &out, nil
}

func (o *Orders) PushServiceLine(_ context.Context, id primitive.ObjectID, line models.ServiceLine) error {
	return o.mutate(id, func(order *models.ServiceOrder) error {
		order.Services = append(order.Services, line)
		return nil
	})
}

func (o *Orders) PushPartLine(_ context.Context, id primitive.ObjectID, line models.PartLine) error {
	return o.mutate(id, func(order *models.ServiceOrder) error {
		order.Parts = append(order.Parts, line)
		return nil
	})
}

func (o *Orders) PullLine(_ context.Context, id primitive.ObjectID, field db.LineField, lineID primitive.ObjectID, index int) error {
	return o.mutate(id, func(order *models.ServiceOrder) error {
		ids := lineIDs(order, field)
		pos := -1
		for i, existing := range ids {
			if existing == lineID {
				pos = i
				break
			}
		}
		if index >= 0 && pos != index {
			return apierror.Conflict("o item %d da ordem foi alterado por outra requisição", index)
		}
		if pos < 0 {
			return apierror.NotFound("Item não encontrado na ordem de serviço")
		}
		switch field {
		case db.ServiceLines:
			order.Services = append(order.Services[:pos], order.Services[pos+1:]...)
		case db.PartLines:
			order.Parts = append(order.Parts[:pos], order.Parts[pos+1:]...)
		}
		return nil
	})
}

func (o *Orders) SetOrderTotal(_ context.Context, id primitive.ObjectID, total decimal.Decimal) error {
	return o.mutate(id, func(order *models.ServiceOrder) error {
		order.Total = total
		return nil
	})
}

func (o *Orders) mutate(id primitive.ObjectID, fn func(*models.ServiceOrder) error) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	stored, ok := o.m.orders[id]
	if !ok {
		return apierror.NotFound(db.OrderNotFound)
	}
	order := cloneOrder(stored)
	if err := fn(&order); err != nil {
		return err
	}
	order.UpdatedAt = o.m.now()
	o.m.orders[id] = order
	return nil
}

func lineIDs(order *models.ServiceOrder, field db.LineField) []primitive.ObjectID {
	var ids []primitive.ObjectID
	switch field {
	case db.ServiceLines:
		for _, l := range order.Services {
			ids = append(ids, l.ID)
		}
	case db.PartLines:
		for _, l := range order.Parts {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// SetClock replaces the time source used for timestamps.
func (m *Memory) SetClock(clock func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
}

func sortByCreation[T any](docs []T, created func(T) time.Time) {
	sort.SliceStable(docs, func(i, j int) bool {
		return created(docs[i]).Before(created(docs[j]))
	})
}
