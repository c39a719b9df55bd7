package db

import (
	"context"
	"fmt"

	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Selection lists the fields of a referenced document to resolve. An empty
// selection resolves the id only.
type Selection []string

// Has reports whether field is selected.
func (s Selection) Has(field string) bool {
	for _, f := range s {
		if f == field {
			return true
		}
	}
	return false
}

// OrderJoin says which fields to resolve for each reference of an order.
// ClientVehicles, when set, also resolves the client's own vehicles.
type OrderJoin struct {
	Client         Selection
	Vehicle        Selection
	Shop           Selection
	Service        Selection
	Part           Selection
	ClientVehicles Selection
}

var (
	// DefaultOrderJoin is used by every order route.
	DefaultOrderJoin = OrderJoin{
		Client:  Selection{"nome", "email", "telefone"},
		Vehicle: Selection{"marca", "modelo", "ano", "placa"},
		Shop:    Selection{"nome", "telefone", "email"},
		Service: Selection{"nome", "descricao", "preco"},
		Part:    Selection{"nome", "marca", "preco_unitario"},
	}
	// ShopDetailOrderJoin is used for orders nested under a shop.
	ShopDetailOrderJoin = OrderJoin{
		Client:  Selection{"nome", "email", "telefone", "cpf"},
		Vehicle: Selection{"marca", "modelo", "ano", "placa"},
		Shop:    Selection{},
		Service: Selection{"nome", "descricao", "preco"},
		Part:    Selection{"nome", "marca", "preco_unitario", "quantidade_estoque"},
	}
	// ShopOrdersJoin additionally resolves each client's vehicles.
	ShopOrdersJoin = OrderJoin{
		Client:         ShopDetailOrderJoin.Client,
		Vehicle:        ShopDetailOrderJoin.Vehicle,
		Shop:           ShopDetailOrderJoin.Shop,
		Service:        ShopDetailOrderJoin.Service,
		Part:           ShopDetailOrderJoin.Part,
		ClientVehicles: Selection{"marca", "modelo", "ano", "placa"},
	}
	vehicleClientSelection = Selection{"nome", "email"}
)

// Populator resolves references after the primary fetch: one lookup per
// referenced collection, whatever the number of documents.
type Populator struct {
	store *Store
}

// NewPopulator returns a Populator reading from store.
func NewPopulator(store *Store) *Populator {
	return &Populator{store: store}
}

// Order resolves the references of a single order.
func (p *Populator) Order(ctx context.Context, order *models.ServiceOrder, join OrderJoin) (*models.ServiceOrderView, error) {
	views, err := p.Orders(ctx, []models.ServiceOrder{*order}, join)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Orders resolves the references of orders, keeping their order.
func (p *Populator) Orders(ctx context.Context, orders []models.ServiceOrder, join OrderJoin) ([]models.ServiceOrderView, error) {
	var clientIDs, vehicleIDs, shopIDs, serviceIDs, partIDs idSet
	for _, o := range orders {
		clientIDs.add(o.ClientID)
		vehicleIDs.add(o.VehicleID)
		shopIDs.add(o.ShopID)
		for _, l := range o.Services {
			serviceIDs.add(l.ServiceID)
		}
		for _, l := range o.Parts {
			partIDs.add(l.PartID)
		}
	}

	clientFields := append(Selection{}, join.Client...)
	if join.ClientVehicles != nil {
		clientFields = append(clientFields, "veiculos")
	}
	clients, err := p.store.Clients.FindClientsByIDs(ctx, clientIDs.ids, clientFields...)
	if err != nil {
		return nil, fmt.Errorf("populate clients: %w", err)
	}
	vehicles, err := p.store.Vehicles.FindVehiclesByIDs(ctx, vehicleIDs.ids, join.Vehicle...)
	if err != nil {
		return nil, fmt.Errorf("populate vehicles: %w", err)
	}
	shops := []models.Shop{}
	if len(join.Shop) > 0 {
		if shops, err = p.store.Shops.FindShopsByIDs(ctx, shopIDs.ids, join.Shop...); err != nil {
			return nil, fmt.Errorf("populate shops: %w", err)
		}
	}
	services, err := p.store.Services.FindServicesByIDs(ctx, serviceIDs.ids, join.Service...)
	if err != nil {
		return nil, fmt.Errorf("populate services: %w", err)
	}
	parts, err := p.store.Parts.FindPartsByIDs(ctx, partIDs.ids, join.Part...)
	if err != nil {
		return nil, fmt.Errorf("populate parts: %w", err)
	}

	clientRefs := make(map[primitive.ObjectID]*models.ClientRef, len(clients))
	var ownedIDs idSet
	for _, c := range clients {
		clientRefs[c.ID] = clientRef(c, join.Client)
		for _, v := range c.Vehicles {
			ownedIDs.add(v)
		}
	}
	if join.ClientVehicles != nil {
		owned, err := p.store.Vehicles.FindVehiclesByIDs(ctx, ownedIDs.ids, join.ClientVehicles...)
		if err != nil {
			return nil, fmt.Errorf("populate client vehicles: %w", err)
		}
		ownedByID := indexVehicles(owned)
		for _, c := range clients {
			refs := []models.VehicleRef{}
			for _, v := range c.Vehicles {
				if vehicle, ok := ownedByID[v]; ok {
					refs = append(refs, *vehicleRef(vehicle, join.ClientVehicles))
				}
			}
			clientRefs[c.ID].Vehicles = refs
		}
	}
	vehiclesByID := indexVehicles(vehicles)
	shopsByID := make(map[primitive.ObjectID]models.Shop, len(shops))
	for _, s := range shops {
		shopsByID[s.ID] = s
	}
	servicesByID := make(map[primitive.ObjectID]models.Service, len(services))
	for _, s := range services {
		servicesByID[s.ID] = s
	}
	partsByID := make(map[primitive.ObjectID]models.Part, len(parts))
	for _, pt := range parts {
		partsByID[pt.ID] = pt
	}

	views := make([]models.ServiceOrderView, 0, len(orders))
	for _, o := range orders {
		view := models.ServiceOrderView{
			ServiceOrder: o,
			Client:       clientRefs[o.ClientID],
			Services:     make([]models.ServiceLineView, 0, len(o.Services)),
			Parts:        make([]models.PartLineView, 0, len(o.Parts)),
		}
		if v, ok := vehiclesByID[o.VehicleID]; ok {
			view.Vehicle = vehicleRef(v, join.Vehicle)
		}
		if len(join.Shop) == 0 {
			view.Shop = &models.ShopRef{ID: o.ShopID}
		} else if s, ok := shopsByID[o.ShopID]; ok {
			view.Shop = shopRef(s, join.Shop)
		}
		for _, l := range o.Services {
			line := models.ServiceLineView{ID: l.ID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
			if s, ok := servicesByID[l.ServiceID]; ok {
				line.Service = serviceRef(s, join.Service)
			}
			view.Services = append(view.Services, line)
		}
		for _, l := range o.Parts {
			line := models.PartLineView{ID: l.ID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
			if pt, ok := partsByID[l.PartID]; ok {
				line.Part = partRef(pt, join.Part)
			}
			view.Parts = append(view.Parts, line)
		}
		views = append(views, view)
	}
	return views, nil
}

// Vehicles resolves the owning client of each vehicle.
func (p *Populator) Vehicles(ctx context.Context, vehicles []models.Vehicle) ([]models.VehicleView, error) {
	var clientIDs idSet
	for _, v := range vehicles {
		clientIDs.add(v.ClientID)
	}
	clients, err := p.store.Clients.FindClientsByIDs(ctx, clientIDs.ids, vehicleClientSelection...)
	if err != nil {
		return nil, fmt.Errorf("populate clients: %w", err)
	}
	refs := make(map[primitive.ObjectID]*models.ClientRef, len(clients))
	for _, c := range clients {
		refs[c.ID] = clientRef(c, vehicleClientSelection)
	}
	views := make([]models.VehicleView, 0, len(vehicles))
	for _, v := range vehicles {
		views = append(views, models.VehicleView{Vehicle: v, Client: refs[v.ClientID]})
	}
	return views, nil
}

// Vehicle resolves the owning client of a single vehicle.
func (p *Populator) Vehicle(ctx context.Context, vehicle *models.Vehicle) (*models.VehicleView, error) {
	views, err := p.Vehicles(ctx, []models.Vehicle{*vehicle})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ClientDetail resolves a client's vehicles and shops in full. Ids that no
// longer resolve are left out.
func (p *Populator) ClientDetail(ctx context.Context, client *models.Client) (*models.ClientDetail, error) {
	vehicles, err := p.store.Vehicles.FindVehiclesByIDs(ctx, client.Vehicles)
	if err != nil {
		return nil, fmt.Errorf("populate vehicles: %w", err)
	}
	shops, err := p.store.Shops.FindShopsByIDs(ctx, client.Shops)
	if err != nil {
		return nil, fmt.Errorf("populate shops: %w", err)
	}
	shopsByID := make(map[primitive.ObjectID]models.Shop, len(shops))
	for _, s := range shops {
		shopsByID[s.ID] = s
	}
	detail := &models.ClientDetail{
		Client:   *client,
		Vehicles: orderedVehicles(client.Vehicles, indexVehicles(vehicles)),
		Shops:    []models.Shop{},
	}
	for _, id := range client.Shops {
		if s, ok := shopsByID[id]; ok {
			detail.Shops = append(detail.Shops, s)
		}
	}
	return detail, nil
}

// ShopDetail resolves a shop's clients (with their vehicles) and its orders.
func (p *Populator) ShopDetail(ctx context.Context, shop *models.Shop) (*models.ShopDetail, error) {
	clients, err := p.store.Clients.FindClientsByIDs(ctx, shop.Clients)
	if err != nil {
		return nil, fmt.Errorf("populate clients: %w", err)
	}
	var vehicleIDs idSet
	for _, c := range clients {
		for _, v := range c.Vehicles {
			vehicleIDs.add(v)
		}
	}
	vehicles, err := p.store.Vehicles.FindVehiclesByIDs(ctx, vehicleIDs.ids)
	if err != nil {
		return nil, fmt.Errorf("populate vehicles: %w", err)
	}
	vehiclesByID := indexVehicles(vehicles)
	clientsByID := make(map[primitive.ObjectID]models.Client, len(clients))
	for _, c := range clients {
		clientsByID[c.ID] = c
	}

	orders, err := p.ShopOrders(ctx, shop, ShopDetailOrderJoin)
	if err != nil {
		return nil, err
	}

	detail := &models.ShopDetail{Shop: *shop, Clients: []models.ClientWithVehicles{}, Orders: orders}
	for _, id := range shop.Clients {
		c, ok := clientsByID[id]
		if !ok {
			continue
		}
		detail.Clients = append(detail.Clients, models.ClientWithVehicles{
			Client:   c,
			Vehicles: orderedVehicles(c.Vehicles, vehiclesByID),
		})
	}
	return detail, nil
}

// ShopOrders resolves the orders listed in a shop's order set.
func (p *Populator) ShopOrders(ctx context.Context, shop *models.Shop, join OrderJoin) ([]models.ServiceOrderView, error) {
	orders, err := p.store.Orders.FindOrdersByIDs(ctx, shop.Orders)
	if err != nil {
		return nil, fmt.Errorf("populate orders: %w", err)
	}
	return p.Orders(ctx, orders, join)
}

type idSet struct {
	seen map[primitive.ObjectID]struct{}
	ids  []primitive.ObjectID
}

func (s *idSet) add(id primitive.ObjectID) {
	if id.IsZero() {
		return
	}
	if s.seen == nil {
		s.seen = make(map[primitive.ObjectID]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func indexVehicles(vehicles []models.Vehicle) map[primitive.ObjectID]models.Vehicle {
	byID := make(map[primitive.ObjectID]models.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}
	return byID
}

func orderedVehicles(ids []primitive.ObjectID, byID map[primitive.ObjectID]models.Vehicle) []models.Vehicle {
	out := []models.Vehicle{}
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func clientRef(c models.Client, sel Selection) *models.ClientRef {
	ref := &models.ClientRef{ID: c.ID}
	if sel.Has("nome") {
		ref.Name = c.Name
	}
	if sel.Has("cpf") {
		ref.TaxID = c.TaxID
	}
	if sel.Has("telefone") {
		ref.Phone = c.Phone
	}
	if sel.Has("email") {
		ref.Email = c.Email
	}
	return ref
}

func vehicleRef(v models.Vehicle, sel Selection) *models.VehicleRef {
	ref := &models.VehicleRef{ID: v.ID}
	if sel.Has("marca") {
		ref.Brand = v.Brand
	}
	if sel.Has("modelo") {
		ref.Model = v.Model
	}
	if sel.Has("ano") {
		ref.Year = v.Year
	}
	if sel.Has("placa") {
		ref.Plate = v.Plate
	}
	return ref
}

func shopRef(s models.Shop, sel Selection) *models.ShopRef {
	ref := &models.ShopRef{ID: s.ID}
	if sel.Has("nome") {
		ref.Name = s.Name
	}
	if sel.Has("telefone") {
		ref.Phone = s.Phone
	}
	if sel.Has("email") {
		ref.Email = s.Email
	}
	return ref
}

func serviceRef(s models.Service, sel Selection) *models.ServiceRef {
	ref := &models.ServiceRef{ID: s.ID}
	if sel.Has("nome") {
		ref.Name = s.Name
	}
	if sel.Has("descricao") {
		ref.Description = s.Description
	}
	if sel.Has("preco") {
		price := s.Price
		ref.Price = &price
	}
	return ref
}

func partRef(p models.Part, sel Selection) *models.PartRef {
	ref := &models.PartRef{ID: p.ID}
	if sel.Has("nome") {
		ref.Name = p.Name
	}
	if sel.Has("marca") {
		ref.Brand = p.Brand
	}
	if sel.Has("preco_unitario") {
		price := p.UnitPrice
		ref.UnitPrice = &price
	}
	if sel.Has("quantidade_estoque") {
		stock := p.Stock
		ref.Stock = &stock
	}
	return ref
}
