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

// ClientHandler handles client requests
type ClientHandler struct {
	clients   db.ClientCollection
	populator *db.Populator
	relations *relations.Maintainer
}

// NewClientHandler creates a new client handler
func NewClientHandler(store *db.Store, rel *relations.Maintainer) *ClientHandler {
	return &ClientHandler{
		clients:   store.Clients,
		populator: db.NewPopulator(store),
		relations: rel,
	}
}

// Create handles client creation
func (h *ClientHandler) Create(c *gin.Context) {
	var client models.Client
	if !bindJSON(c, &client) {
		return
	}
	client.ID = primitive.NilObjectID
	if err := models.Validate(&client); err != nil {
		respondError(c, err)
		return
	}
	if err := h.clients.InsertClient(c.Request.Context(), &client); err != nil {
		respondError(c, err)
		return
	}
	log.WithFields(log.Fields{"client_id": client.ID.Hex()}).Info("Client created")
	c.JSON(http.StatusCreated, client)
}

// List returns every client
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.FindClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Get returns a client by id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.FindClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Update merges the body into the stored client and re-validates the result.
// The vehicle and shop sets are not touched.
func (h *ClientHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	client, err := h.clients.FindClientByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	id := client.ID
	if !bindJSON(c, client) {
		return
	}
	client.ID = id
	if err := models.Validate(client); err != nil {
		respondError(c, err)
		return
	}
	if err := h.clients.UpdateClient(ctx, client); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.clients.FindClientByID(ctx, id.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a client. References to it elsewhere are left dangling.
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.clients.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, "Cliente removido com sucesso")
}

// Detail returns the client with its vehicles and shops resolved
func (h *ClientHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	client, err := h.clients.FindClientByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.populator.ClientDetail(ctx, client)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AddVehicle makes the client the owner of a vehicle
func (h *ClientHandler) AddVehicle(c *gin.Context) {
	detail, err := h.relations.AddVehicle(c.Request.Context(), c.Param("id"), c.Param("veiculoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RemoveVehicle drops a vehicle from the client's set
func (h *ClientHandler) RemoveVehicle(c *gin.Context) {
	detail, err := h.relations.RemoveVehicle(c.Request.Context(), c.Param("id"), c.Param("veiculoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AddShop links the client and a shop
func (h *ClientHandler) AddShop(c *gin.Context) {
	detail, err := h.relations.AddShop(c.Request.Context(), c.Param("id"), c.Param("oficinaId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RemoveShop unlinks the client and a shop
func (h *ClientHandler) RemoveShop(c *gin.Context) {
	detail, err := h.relations.RemoveShop(c.Request.Context(), c.Param("id"), c.Param("oficinaId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
