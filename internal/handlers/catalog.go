package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/models"
)

// ServiceHandler handles catalog service requests
type ServiceHandler struct {
	services db.ServiceCollection
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(services db.ServiceCollection) *ServiceHandler {
	return &ServiceHandler{services: services}
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var in models.ServiceInput
	if !bindJSON(c, &in) {
		return
	}
	if err := models.Validate(&in); err != nil {
		respondError(c, err)
		return
	}
	service := in.Service()
	if err := models.Validate(&service); err != nil {
		respondError(c, err)
		return
	}
	if err := h.services.InsertService(c.Request.Context(), &service); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) List(c *gin.Context) {
	h.list(c, db.ServiceFilter{})
}

// Search matches a case-insensitive substring of the name
func (h *ServiceHandler) Search(c *gin.Context) {
	h.list(c, db.ServiceFilter{Name: c.Param("nome")})
}

// ByPrice returns services priced within [min, max]
func (h *ServiceHandler) ByPrice(c *gin.Context) {
	price, err := db.ParsePriceRange(c.Param("min"), c.Param("max"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.list(c, db.ServiceFilter{Price: price})
}

func (h *ServiceHandler) list(c *gin.Context, filter db.ServiceFilter) {
	services, err := h.services.FindServices(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	service, err := h.services.FindServiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	service, err := h.services.FindServiceByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	id := service.ID
	if !bindJSON(c, service) {
		return
	}
	service.ID = id
	if err := models.Validate(service); err != nil {
		respondError(c, err)
		return
	}
	if err := h.services.UpdateService(ctx, service); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.services.FindServiceByID(ctx, id.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	if err := h.services.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, "Serviço removido com sucesso")
}

// PartHandler handles catalog part requests
type PartHandler struct {
	parts db.PartCollection
}

// NewPartHandler creates a new part handler
func NewPartHandler(parts db.PartCollection) *PartHandler {
	return &PartHandler{parts: parts}
}

func (h *PartHandler) Create(c *gin.Context) {
	var in models.PartInput
	if !bindJSON(c, &in) {
		return
	}
	if err := models.Validate(&in); err != nil {
		respondError(c, err)
		return
	}
	part := in.Part()
	if err := models.Validate(&part); err != nil {
		respondError(c, err)
		return
	}
	if err := h.parts.InsertPart(c.Request.Context(), &part); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, part)
}

func (h *PartHandler) List(c *gin.Context) {
	h.list(c, db.PartFilter{})
}

// Search matches a case-insensitive substring of the name
func (h *PartHandler) Search(c *gin.Context) {
	h.list(c, db.PartFilter{Name: c.Param("nome")})
}

// ByBrand matches a case-insensitive substring of the brand
func (h *PartHandler) ByBrand(c *gin.Context) {
	h.list(c, db.PartFilter{Brand: c.Param("marca")})
}

// InStock returns parts with a positive stock count
func (h *PartHandler) InStock(c *gin.Context) {
	h.list(c, db.PartFilter{InStock: true})
}

// LowStock returns parts whose stock is at or below :quantidade
func (h *PartHandler) LowStock(c *gin.Context) {
	threshold, err := strconv.Atoi(c.Param("quantidade"))
	if err != nil {
		respondError(c, apierror.InvalidField("quantidade", "deve ser um número inteiro"))
		return
	}
	h.list(c, db.PartFilter{MaxStock: &threshold})
}

// ByPrice returns parts whose unit price is within [min, max]
func (h *PartHandler) ByPrice(c *gin.Context) {
	price, err := db.ParsePriceRange(c.Param("min"), c.Param("max"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.list(c, db.PartFilter{Price: price})
}

func (h *PartHandler) list(c *gin.Context, filter db.PartFilter) {
	parts, err := h.parts.FindParts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (h *PartHandler) Get(c *gin.Context) {
	part, err := h.parts.FindPartByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (h *PartHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	part, err := h.parts.FindPartByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	id := part.ID
	if !bindJSON(c, part) {
		return
	}
	part.ID = id
	if err := models.Validate(part); err != nil {
		respondError(c, err)
		return
	}
	if err := h.parts.UpdatePart(ctx, part); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.parts.FindPartByID(ctx, id.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type stockRequest struct {
	Stock *int `json:"quantidade_estoque"`
}

// SetStock overwrites the stock count
func (h *PartHandler) SetStock(c *gin.Context) {
	var req stockRequest
	if !bindJSON(c, &req) {
		return
	}
	switch {
	case req.Stock == nil:
		respondError(c, apierror.InvalidField("quantidade_estoque", "campo obrigatório"))
		return
	case *req.Stock < 0:
		respondError(c, apierror.InvalidField("quantidade_estoque", "deve ser maior ou igual a 0"))
		return
	}
	part, err := h.parts.SetPartStock(c.Request.Context(), c.Param("id"), *req.Stock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (h *PartHandler) Delete(c *gin.Context) {
	if err := h.parts.DeletePart(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, "Peça removida com sucesso")
}
