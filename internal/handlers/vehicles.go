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

// VehicleHandler handles vehicle requests
type VehicleHandler struct {
	vehicles  db.VehicleCollection
	populator *db.Populator
	relations *relations.Maintainer
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(store *db.Store, rel *relations.Maintainer) *VehicleHandler {
	return &VehicleHandler{
		vehicles:  store.Vehicles,
		populator: db.NewPopulator(store),
		relations: rel,
	}
}

// Create stores a new vehicle. The owner's vehicle set is not updated; use
// POST /clientes/:id/veiculos/:veiculoId for that.
func (h *VehicleHandler) Create(c *gin.Context) {
	var vehicle models.Vehicle
	if !bindJSON(c, &vehicle) {
		return
	}
	vehicle.ID = primitive.NilObjectID
	if err := models.Validate(&vehicle); err != nil {
		respondError(c, err)
		return
	}
	if err := h.vehicles.InsertVehicle(c.Request.Context(), &vehicle); err != nil {
		respondError(c, err)
		return
	}
	log.WithFields(log.Fields{"vehicle_id": vehicle.ID.Hex(), "client_id": vehicle.ClientID.Hex()}).Info("Vehicle created")
	c.JSON(http.StatusCreated, vehicle)
}

// List returns every vehicle with its owner resolved
func (h *VehicleHandler) List(c *gin.Context) {
	h.list(c, db.VehicleFilter{})
}

// ByClient returns the vehicles whose cliente_id is the given client
func (h *VehicleHandler) ByClient(c *gin.Context) {
	clientID, ok := filterID(c, "clienteId")
	if !ok {
		return
	}
	h.list(c, db.VehicleFilter{ClientID: clientID})
}

func (h *VehicleHandler) list(c *gin.Context, filter db.VehicleFilter) {
	ctx := c.Request.Context()
	vehicles, err := h.vehicles.FindVehicles(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.populator.Vehicles(ctx, vehicles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Get returns a vehicle with its owner resolved
func (h *VehicleHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	vehicle, err := h.vehicles.FindVehicleByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.populator.Vehicle(ctx, vehicle)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update merges the body into the stored vehicle. A new cliente_id moves
// the vehicle to that client the same way the client vehicle routes do.
func (h *VehicleHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	vehicle, err := h.vehicles.FindVehicleByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	id, owner := vehicle.ID, vehicle.ClientID
	if !bindJSON(c, vehicle) {
		return
	}
	vehicle.ID = id
	if err := models.Validate(vehicle); err != nil {
		respondError(c, err)
		return
	}
	if vehicle.ClientID != owner {
		if _, err := h.relations.AddVehicle(ctx, vehicle.ClientID.Hex(), id.Hex()); err != nil {
			respondError(c, err)
			return
		}
	}
	if err := h.vehicles.UpdateVehicle(ctx, vehicle); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.vehicles.FindVehicleByID(ctx, id.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.populator.Vehicle(ctx, updated)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete removes a vehicle. Clients listing it keep the dangling id.
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicles.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, "Veículo removido com sucesso")
}
