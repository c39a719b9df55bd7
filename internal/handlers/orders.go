package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/models"
	"github.com/ukydev/oficina/internal/orders"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderHandler handles service order requests
type OrderHandler struct {
	manager *orders.Manager
}

// NewOrderHandler creates a new service order handler
func NewOrderHandler(manager *orders.Manager) *OrderHandler {
	return &OrderHandler{manager: manager}
}

// orderUpdate lists the fields a PUT may change. Absent or null fields keep
// their stored value; line arrays, when present, replace the stored ones.
type orderUpdate struct {
	ClientID  *primitive.ObjectID   `json:"cliente_id"`
	VehicleID *primitive.ObjectID   `json:"veiculo_id"`
	ShopID    *primitive.ObjectID   `json:"oficina_id"`
	EntryDate *time.Time            `json:"data_entrada"`
	ExitDate  *time.Time            `json:"data_saida"`
	Services  *[]models.ServiceLine `json:"servicos"`
	Parts     *[]models.PartLine    `json:"pecas"`
	Total     *decimal.Decimal      `json:"valor_total"`
	Status    *string               `json:"status"`
}

func (u orderUpdate) apply(order *models.ServiceOrder) {
	if u.ClientID != nil {
		order.ClientID = *u.ClientID
	}
	if u.VehicleID != nil {
		order.VehicleID = *u.VehicleID
	}
	if u.ShopID != nil {
		order.ShopID = *u.ShopID
	}
	if u.EntryDate != nil {
		order.EntryDate = *u.EntryDate
	}
	if u.ExitDate != nil {
		order.ExitDate = u.ExitDate
	}
	if u.Services != nil {
		order.Services = *u.Services
	}
	if u.Parts != nil {
		order.Parts = *u.Parts
	}
	if u.Total != nil {
		order.Total = *u.Total
	}
	if u.Status != nil {
		order.Status = models.OrderStatus(*u.Status)
	}
}

type lineRequest struct {
	ServiceID string           `json:"servico_id"`
	PartID    string           `json:"peca_id"`
	Quantity  int              `json:"quantidade"`
	UnitPrice *decimal.Decimal `json:"preco_unitario"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Create opens a new order and lists it under its shop
func (h *OrderHandler) Create(c *gin.Context) {
	var order models.ServiceOrder
	if !bindJSON(c, &order) {
		return
	}
	order.ID = primitive.NilObjectID
	view, err := h.manager.Create(c.Request.Context(), &order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// List returns every order, most recent first
func (h *OrderHandler) List(c *gin.Context) {
	h.list(c, db.OrderFilter{})
}

func (h *OrderHandler) ByClient(c *gin.Context) {
	id, ok := filterID(c, "id")
	if !ok {
		return
	}
	h.list(c, db.OrderFilter{ClientID: id})
}

func (h *OrderHandler) ByVehicle(c *gin.Context) {
	id, ok := filterID(c, "id")
	if !ok {
		return
	}
	h.list(c, db.OrderFilter{VehicleID: id})
}

func (h *OrderHandler) ByShop(c *gin.Context) {
	id, ok := filterID(c, "id")
	if !ok {
		return
	}
	h.list(c, db.OrderFilter{ShopID: id})
}

// ByStatus accepts any spelling ParseStatus knows
func (h *OrderHandler) ByStatus(c *gin.Context) {
	status, ok := models.ParseStatus(c.Param("status"))
	if !ok {
		respondError(c, apierror.InvalidField("status", "status inválido"))
		return
	}
	h.list(c, db.OrderFilter{Status: status})
}

// ByPeriod returns orders whose entry date is within [inicio, fim]
func (h *OrderHandler) ByPeriod(c *gin.Context) {
	from, to, err := db.ParseDateRange(c.Param("inicio"), c.Param("fim"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.list(c, db.OrderFilter{From: &from, To: &to})
}

// Open returns orders without an exit date
func (h *OrderHandler) Open(c *gin.Context) {
	h.list(c, db.OrderFilter{OpenOnly: true})
}

func (h *OrderHandler) list(c *gin.Context, filter db.OrderFilter) {
	views, err := h.manager.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *OrderHandler) Get(c *gin.Context) {
	view, err := h.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update applies a partial edit. A status change runs through the same
// lifecycle as PATCH /:id/status.
func (h *OrderHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.manager.Find(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req orderUpdate
	if !bindJSON(c, &req) {
		return
	}
	req.apply(order)
	view, err := h.manager.Update(ctx, order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.manager.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, "Ordem de serviço removida com sucesso")
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.manager.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) AddService(c *gin.Context) {
	var req lineRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.manager.AddServiceLine(c.Request.Context(), c.Param("id"), orders.LineRequest{
		RefID: req.ServiceID, Quantity: req.Quantity, UnitPrice: req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) AddPart(c *gin.Context) {
	var req lineRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.manager.AddPartLine(c.Request.Context(), c.Param("id"), orders.LineRequest{
		RefID: req.PartID, Quantity: req.Quantity, UnitPrice: req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveService removes the line named by :linha, an index or a line id
func (h *OrderHandler) RemoveService(c *gin.Context) {
	view, err := h.manager.RemoveServiceLine(c.Request.Context(), c.Param("id"), c.Param("linha"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemovePart removes the line named by :linha, an index or a line id
func (h *OrderHandler) RemovePart(c *gin.Context) {
	view, err := h.manager.RemovePartLine(c.Request.Context(), c.Param("id"), c.Param("linha"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ComputeTotal prices the order, stores valor_total and returns it
func (h *OrderHandler) ComputeTotal(c *gin.Context) {
	total, err := h.manager.ComputeTotal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valor_total": total})
}
