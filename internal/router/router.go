// Package router is the composition root of the HTTP API: it wires the
// store into the domain packages, the domain packages into handlers and the
// handlers into gin routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/handlers"
	"github.com/ukydev/oficina/internal/middleware"
	"github.com/ukydev/oficina/internal/orders"
	"github.com/ukydev/oficina/internal/relations"
)

// New builds the gin engine serving every route of the API. health may be
// nil, in which case /live and /ready are not registered.
func New(store *db.Store, health healthcheck.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(), middleware.CORS(), middleware.Metrics())

	rel := relations.NewMaintainer(store)
	clients := handlers.NewClientHandler(store, rel)
	vehicles := handlers.NewVehicleHandler(store, rel)
	shops := handlers.NewShopHandler(store, rel)
	services := handlers.NewServiceHandler(store.Services)
	parts := handlers.NewPartHandler(store.Parts)
	serviceOrders := handlers.NewOrderHandler(orders.NewManager(store))

	r.GET("/", handlers.Index)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if health != nil {
		r.GET("/live", gin.WrapF(health.LiveEndpoint))
		r.GET("/ready", gin.WrapF(health.ReadyEndpoint))
	}

	c := r.Group("/clientes")
	{
		c.POST("", clients.Create)
		c.GET("", clients.List)
		c.GET("/:id", clients.Get)
		c.PUT("/:id", clients.Update)
		c.DELETE("/:id", clients.Delete)
		c.GET("/:id/completo", clients.Detail)
		c.POST("/:id/veiculos/:veiculoId", clients.AddVehicle)
		c.DELETE("/:id/veiculos/:veiculoId", clients.RemoveVehicle)
		c.POST("/:id/oficinas/:oficinaId", clients.AddShop)
		c.DELETE("/:id/oficinas/:oficinaId", clients.RemoveShop)
	}

	v := r.Group("/veiculos")
	{
		v.POST("", vehicles.Create)
		v.GET("", vehicles.List)
		v.GET("/cliente/:clienteId", vehicles.ByClient)
		v.GET("/:id", vehicles.Get)
		v.PUT("/:id", vehicles.Update)
		v.DELETE("/:id", vehicles.Delete)
	}

	o := r.Group("/oficinas")
	{
		o.POST("", shops.Create)
		o.GET("", shops.List)
		o.GET("/cidade/:cidade", shops.ByCity)
		o.GET("/estado/:estado", shops.ByState)
		o.GET("/:id", shops.Get)
		o.PUT("/:id", shops.Update)
		o.DELETE("/:id", shops.Delete)
		o.GET("/:id/completo", shops.Detail)
		o.POST("/:id/clientes/:clienteId", shops.AddClient)
		o.DELETE("/:id/clientes/:clienteId", shops.RemoveClient)
		o.GET("/:id/ordens", shops.Orders)
		o.POST("/:id/ordens/:ordemId", shops.AddOrder)
		o.DELETE("/:id/ordens/:ordemId", shops.RemoveOrder)
	}

	s := r.Group("/servicos")
	{
		s.POST("", services.Create)
		s.GET("", services.List)
		s.GET("/buscar/:nome", services.Search)
		s.GET("/preco/:min/:max", services.ByPrice)
		s.GET("/:id", services.Get)
		s.PUT("/:id", services.Update)
		s.DELETE("/:id", services.Delete)
	}

	p := r.Group("/pecas")
	{
		p.POST("", parts.Create)
		p.GET("", parts.List)
		p.GET("/buscar/:nome", parts.Search)
		p.GET("/marca/:marca", parts.ByBrand)
		p.GET("/estoque/disponivel", parts.InStock)
		p.GET("/estoque/baixo/:quantidade", parts.LowStock)
		p.GET("/preco/:min/:max", parts.ByPrice)
		p.GET("/:id", parts.Get)
		p.PUT("/:id", parts.Update)
		p.PATCH("/:id/estoque", parts.SetStock)
		p.DELETE("/:id", parts.Delete)
	}

	so := r.Group("/ordens-servico")
	{
		so.POST("", serviceOrders.Create)
		so.GET("", serviceOrders.List)
		so.GET("/cliente/:id", serviceOrders.ByClient)
		so.GET("/veiculo/:id", serviceOrders.ByVehicle)
		so.GET("/oficina/:id", serviceOrders.ByShop)
		so.GET("/status/:status", serviceOrders.ByStatus)
		so.GET("/periodo/:inicio/:fim", serviceOrders.ByPeriod)
		so.GET("/abertas/lista", serviceOrders.Open)
		so.GET("/:id", serviceOrders.Get)
		so.PUT("/:id", serviceOrders.Update)
		so.DELETE("/:id", serviceOrders.Delete)
		so.PATCH("/:id/status", serviceOrders.SetStatus)
		so.POST("/:id/servicos", serviceOrders.AddService)
		so.POST("/:id/pecas", serviceOrders.AddPart)
		so.DELETE("/:id/servicos/:linha", serviceOrders.RemoveService)
		so.DELETE("/:id/pecas/:linha", serviceOrders.RemovePart)
		so.GET("/:id/calcular-total", serviceOrders.ComputeTotal)
	}

	return r
}
