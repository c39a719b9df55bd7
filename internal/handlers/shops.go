package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/models"
	"github.com/ukydev/oficina/internal/relations"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShopHandler handles repair shop requests
type ShopHandler struct {
	shops     db.ShopCollection
	populator *db.Populator
	relations *relations.Maintainer
}

// NewShopHandler creates a new shop handler
func NewShopHandler(store *db.Store, rel *relations.Maintainer) *ShopHandler {
	return &ShopHandler{
		shops:     store.Shops,
		populator: db.NewPopulator(store),
		relations: rel,
	}
}

// Create stores a new shop
func (h *ShopHandler) Create(c *gin.Context) {
	var shop models.Shop
	if !bindJSON(c, &shop) {
		return
	}
	shop.ID = primitive.NilObjectID
	if err := models.Validate(&shop); err != nil {
		respondError(c, err)
		return
	}
	if err := h.shops.InsertShop(c.Request.Context(), &shop); err != nil {
		respondError(c, err)
		return
	}
	log.WithFields(log.Fields{"shop_id": shop.ID.Hex()}).Info("Shop created")
	c.JSON(http.StatusCreated, shop)
}

// List returns every shop
func (h *ShopHandler) List(c *gin.Context) {
	h.list(c, db.ShopFilter{})
}

// ByCity returns the shops whose city contains the given text
func (h *ShopHandler) ByCity(c *gin.Context) {
	h.list(c, db.ShopFilter{City: c.Param("cidade")})
}

// ByState returns the shops whose state contains the given text
func (h *ShopHandler) ByState(c *gin.Context) {
	h.list(c, db.ShopFilter{State: c.Param("estado")})
}

func (h *ShopHandler) list(c *gin.Context, filter db.ShopFilter) {
	shops, err := h.shops.FindShops(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shops)
}

// Get returns a shop by id
func (h *ShopHandler) Get(c *gin.Context) {
	shop, err := h.shops.FindShopByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

// Update merges the body into the stored shop. The client and order sets
// are not touched.
func (h *ShopHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	shop, err := h.shops.FindShopByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	id := shop.ID
	if !bindJSON(c, shop) {
		return
	}
	shop.ID = id
	if err := models.Validate(shop); err != nil {
		respondError(c, err)
		return
	}
	if err := h.shops.UpdateShop(ctx, shop); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.shops.FindShopByID(ctx, id.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a shop
func (h *ShopHandler) Delete(c *gin.Context) {
	if err := h.shops.DeleteShop(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, "Oficina removida com sucesso")
}

// Detail returns the shop with its clients, their vehicles and its orders
func (h *ShopHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	shop, err := h.shops.FindShopByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.populator.ShopDetail(ctx, shop)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Orders returns the orders listed in the shop's ordensServico set
func (h *ShopHandler) Orders(c *gin.Context) {
	ctx := c.Request.Context()
	shop, err := h.shops.FindShopByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := h.populator.ShopOrders(ctx, shop, db.ShopOrdersJoin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// AddClient links a client to the shop
func (h *ShopHandler) AddClient(c *gin.Context) {
	detail, err := h.relations.AddClient(c.Request.Context(), c.Param("id"), c.Param("clienteId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RemoveClient unlinks a client from the shop
func (h *ShopHandler) RemoveClient(c *gin.Context) {
	detail, err := h.relations.RemoveClient(c.Request.Context(), c.Param("id"), c.Param("clienteId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AddOrder lists an order under the shop
func (h *ShopHandler) AddOrder(c *gin.Context) {
	detail, err := h.relations.AddOrder(c.Request.Context(), c.Param("id"), c.Param("ordemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RemoveOrder drops an order from the shop's set
func (h *ShopHandler) RemoveOrder(c *gin.Context) {
	detail, err := h.relations.RemoveOrder(c.Request.Context(), c.Param("id"), c.Param("ordemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
