package orders

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Manager runs every service-order operation. Mutations are single-document
// atomic updates; the order is re-read and populated before it is returned.
type Manager struct {
	store     *db.Store
	populator *db.Populator
	now       func() time.Time
}

// NewManager returns a Manager over store.
func NewManager(store *db.Store) *Manager {
	return &Manager{
		store:     store,
		populator: db.NewPopulator(store),
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// LineRequest is a line item to append. Quantity defaults to 1; UnitPrice,
// when set, is captured on the line and used instead of the catalog price.
type LineRequest struct {
	RefID     string
	Quantity  int
	UnitPrice *decimal.Decimal
}

func (r LineRequest) validate(refField string) (int, error) {
	if r.RefID == "" {
		return 0, apierror.InvalidField(refField, "campo obrigatório")
	}
	qty := r.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return 0, apierror.InvalidField("quantidade", "deve ser maior ou igual a 1")
	}
	if r.UnitPrice != nil && r.UnitPrice.IsNegative() {
		return 0, apierror.InvalidField("preco_unitario", "deve ser maior ou igual a 0")
	}
	return qty, nil
}

// Create inserts a new order and links it into its shop. The link is a
// separate write: when it fails the order stays unlinked and the error is
// only logged.
func (m *Manager) Create(ctx context.Context, order *models.ServiceOrder) (*models.ServiceOrderView, error) {
	at := m.now()
	if order.Status != "" {
		status, ok := models.ParseStatus(string(order.Status))
		if !ok {
			return nil, apierror.InvalidField("status", "status inválido")
		}
		order.Status = status
	}
	order.ApplyDefaults(at)
	if order.Status == models.StatusFinished && order.ExitDate == nil {
		order.ExitDate = &at
	}
	if err := models.Validate(order); err != nil {
		return nil, err
	}
	if err := m.store.Orders.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := m.store.Shops.AddRef(ctx, order.ShopID, db.ShopOrders, order.ID); err != nil {
		log.WithFields(log.Fields{
			"order_id": order.ID.Hex(),
			"shop_id":  order.ShopID.Hex(),
			"error":    err,
		}).Warn("Failed to link service order to shop")
	}
	log.WithFields(log.Fields{"order_id": order.ID.Hex(), "client_id": order.ClientID.Hex()}).Info("Service order created")
	return m.populator.Order(ctx, order, db.DefaultOrderJoin)
}

// Find returns the stored order without populating it.
func (m *Manager) Find(ctx context.Context, id string) (*models.ServiceOrder, error) {
	return m.store.Orders.FindOrderByID(ctx, id)
}

// Get returns the populated order.
func (m *Manager) Get(ctx context.Context, id string) (*models.ServiceOrderView, error) {
	order, err := m.store.Orders.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.populator.Order(ctx, order, db.DefaultOrderJoin)
}

// List returns the populated orders matching filter, most recent first.
func (m *Manager) List(ctx context.Context, filter db.OrderFilter) ([]models.ServiceOrderView, error) {
	orders, err := m.store.Orders.FindOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return m.populator.Orders(ctx, orders, db.DefaultOrderJoin)
}

// Update stores an edited copy of an order. A status change goes through
// the lifecycle machine like SetStatus does. Concurrent updates of the same
// order are last-writer-wins.
func (m *Manager) Update(ctx context.Context, order *models.ServiceOrder) (*models.ServiceOrderView, error) {
	stored, err := m.store.Orders.FindOrderByID(ctx, order.ID.Hex())
	if err != nil {
		return nil, err
	}
	target, ok := models.ParseStatus(string(order.Status))
	if !ok {
		return nil, apierror.InvalidField("status", "status inválido")
	}
	if target != stored.Status {
		t, err := Plan(ctx, stored.Status, target)
		if err != nil {
			return nil, err
		}
		if t.StampExit && order.ExitDate == nil {
			at := m.now()
			order.ExitDate = &at
		}
		recordTransition(t)
	}
	order.Status = target
	for i := range order.Services {
		if order.Services[i].ID.IsZero() {
			order.Services[i].ID = primitive.NewObjectID()
		}
	}
	for i := range order.Parts {
		if order.Parts[i].ID.IsZero() {
			order.Parts[i].ID = primitive.NewObjectID()
		}
	}
	if err := models.Validate(order); err != nil {
		return nil, err
	}
	if err := m.store.Orders.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	if order.ShopID != stored.ShopID {
		if err := m.store.Shops.AddRef(ctx, order.ShopID, db.ShopOrders, order.ID); err != nil {
			log.WithFields(log.Fields{"order_id": order.ID.Hex(), "shop_id": order.ShopID.Hex(), "error": err}).
				Warn("Failed to link service order to new shop")
		}
	}
	return m.Get(ctx, order.ID.Hex())
}

// Delete removes an order. Shops listing it keep the dangling id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Orders.DeleteOrder(ctx, id)
}

// SetStatus moves the order to the status named by raw (any accepted
// spelling). Finishing stamps the exit date unless it is already set.
func (m *Manager) SetStatus(ctx context.Context, id, raw string) (*models.ServiceOrderView, error) {
	target, ok := models.ParseStatus(raw)
	if !ok {
		return nil, apierror.InvalidField("status", "status inválido")
	}
	stored, err := m.store.Orders.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := Plan(ctx, stored.Status, target)
	if err != nil {
		return nil, err
	}
	updated, err := m.store.Orders.SetOrderStatus(ctx, stored.ID, t.To, t.StampExit, m.now())
	if err != nil {
		return nil, err
	}
	recordTransition(t)
	log.WithFields(log.Fields{"order_id": id, "from": t.From, "to": t.To}).Info("Service order status changed")
	return m.populator.Order(ctx, updated, db.DefaultOrderJoin)
}

// AddServiceLine appends a service line. The service must exist.
func (m *Manager) AddServiceLine(ctx context.Context, id string, req LineRequest) (*models.ServiceOrderView, error) {
	qty, err := req.validate("servico_id")
	if err != nil {
		return nil, err
	}
	oid, err := db.ParseID(id, db.OrderNotFound)
	if err != nil {
		return nil, err
	}
	service, err := m.store.Services.FindServiceByID(ctx, req.RefID)
	if err != nil {
		return nil, err
	}
	line := models.ServiceLine{ID: primitive.NewObjectID(), ServiceID: service.ID, Quantity: qty, UnitPrice: req.UnitPrice}
	if err := m.store.Orders.PushServiceLine(ctx, oid, line); err != nil {
		return nil, err
	}
	recordLineItem("servico", "add")
	return m.Get(ctx, id)
}

// AddPartLine appends a part line. The part must exist; its stock count is
// not changed.
func (m *Manager) AddPartLine(ctx context.Context, id string, req LineRequest) (*models.ServiceOrderView, error) {
	qty, err := req.validate("peca_id")
	if err != nil {
		return nil, err
	}
	oid, err := db.ParseID(id, db.OrderNotFound)
	if err != nil {
		return nil, err
	}
	part, err := m.store.Parts.FindPartByID(ctx, req.RefID)
	if err != nil {
		return nil, err
	}
	line := models.PartLine{ID: primitive.NewObjectID(), PartID: part.ID, Quantity: qty, UnitPrice: req.UnitPrice}
	if err := m.store.Orders.PushPartLine(ctx, oid, line); err != nil {
		return nil, err
	}
	recordLineItem("peca", "add")
	return m.Get(ctx, id)
}

// RemoveServiceLine removes a service line named by selector: a zero-based
// index or the line's id.
func (m *Manager) RemoveServiceLine(ctx context.Context, id, selector string) (*models.ServiceOrderView, error) {
	return m.removeLine(ctx, id, db.ServiceLines, selector)
}

// RemovePartLine removes a part line named by selector: a zero-based index
// or the line's id.
func (m *Manager) RemovePartLine(ctx context.Context, id, selector string) (*models.ServiceOrderView, error) {
	return m.removeLine(ctx, id, db.PartLines, selector)
}

var lineIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

func (m *Manager) removeLine(ctx context.Context, id string, field db.LineField, selector string) (*models.ServiceOrderView, error) {
	order, err := m.store.Orders.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := lineIDs(order, field)

	var lineID primitive.ObjectID
	index := -1
	switch {
	case lineIDPattern.MatchString(selector):
		lineID, _ = primitive.ObjectIDFromHex(selector)
	default:
		i, convErr := strconv.Atoi(selector)
		if convErr != nil {
			return nil, apierror.InvalidField("linha", "índice ou id de linha inválido")
		}
		if i < 0 || i >= len(ids) {
			return nil, apierror.Validation("índice %d fora do intervalo: a ordem tem %d item(ns) em %s", i, len(ids), field)
		}
		lineID, index = ids[i], i
	}

	if err := m.store.Orders.PullLine(ctx, order.ID, field, lineID, index); err != nil {
		return nil, err
	}
	recordLineItem(lineKind(field), "remove")
	return m.Get(ctx, id)
}

func lineIDs(order *models.ServiceOrder, field db.LineField) []primitive.ObjectID {
	var ids []primitive.ObjectID
	if field == db.ServiceLines {
		for _, l := range order.Services {
			ids = append(ids, l.ID)
		}
		return ids
	}
	for _, l := range order.Parts {
		ids = append(ids, l.ID)
	}
	return ids
}

func lineKind(field db.LineField) string {
	if field == db.ServiceLines {
		return "servico"
	}
	return "peca"
}

// ComputeTotal prices the order with current catalog prices (or the prices
// captured on its lines) and persists the result as valor_total.
func (m *Manager) ComputeTotal(ctx context.Context, id string) (decimal.Decimal, error) {
	order, err := m.store.Orders.FindOrderByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	serviceIDs := make([]primitive.ObjectID, 0, len(order.Services))
	for _, l := range order.Services {
		serviceIDs = append(serviceIDs, l.ServiceID)
	}
	partIDs := make([]primitive.ObjectID, 0, len(order.Parts))
	for _, l := range order.Parts {
		partIDs = append(partIDs, l.PartID)
	}
	services, err := m.store.Services.FindServicesByIDs(ctx, serviceIDs, "preco")
	if err != nil {
		return decimal.Zero, err
	}
	parts, err := m.store.Parts.FindPartsByIDs(ctx, partIDs, "preco_unitario")
	if err != nil {
		return decimal.Zero, err
	}

	catalog := Catalog{
		ServicePrices: make(map[primitive.ObjectID]decimal.Decimal, len(services)),
		PartPrices:    make(map[primitive.ObjectID]decimal.Decimal, len(parts)),
	}
	for _, s := range services {
		catalog.ServicePrices[s.ID] = s.Price
	}
	for _, p := range parts {
		catalog.PartPrices[p.ID] = p.UnitPrice
	}

	total, err := Total(order, catalog)
	if err != nil {
		return decimal.Zero, err
	}
	if err := m.store.Orders.SetOrderTotal(ctx, order.ID, total); err != nil {
		return decimal.Zero, err
	}
	order.Total = total
	recordTotal(order)
	log.WithFields(log.Fields{"order_id": id, "total": total.StringFixed(2)}).Debug("Service order total computed")
	return total, nil
}
