package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/oficina/internal/db"
	"github.com/ukydev/oficina/internal/db/dbtest"
	"github.com/ukydev/oficina/internal/models"
	"github.com/ukydev/oficina/internal/orders"
	"github.com/ukydev/oficina/internal/relations"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockClientCollection is a mock implementation of ClientCollection
type MockClientCollection struct {
	mock.Mock
}

func (m *MockClientCollection) InsertClient(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientCollection) FindClients(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockClientCollection) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientCollection) FindClientsByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Client, error) {
	args := m.Called(ctx, ids, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockClientCollection) UpdateClient(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientCollection) DeleteClient(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientCollection) AddRef(ctx context.Context, id primitive.ObjectID, set db.RefSet, ref primitive.ObjectID) error {
	args := m.Called(ctx, id, set, ref)
	return args.Error(0)
}

func (m *MockClientCollection) PullRef(ctx context.Context, id primitive.ObjectID, set db.RefSet, ref primitive.ObjectID) error {
	args := m.Called(ctx, id, set, ref)
	return args.Error(0)
}

func (m *MockClientCollection) PullVehicleFromOthers(ctx context.Context, vehicleID, keep primitive.ObjectID) error {
	args := m.Called(ctx, vehicleID, keep)
	return args.Error(0)
}

type testAPI struct {
	engine *gin.Engine
	store  *db.Store
}

func newTestAPI(store *db.Store) *testAPI {
	rel := relations.NewMaintainer(store)
	clients := NewClientHandler(store, rel)
	vehicles := NewVehicleHandler(store, rel)
	shops := NewShopHandler(store, rel)
	parts := NewPartHandler(store.Parts)
	services := NewServiceHandler(store.Services)
	orderHandler := NewOrderHandler(orders.NewManager(store))

	r := gin.New()
	r.GET("/", Index)
	r.POST("/clientes", clients.Create)
	r.GET("/clientes", clients.List)
	r.GET("/clientes/:id", clients.Get)
	r.PUT("/clientes/:id", clients.Update)
	r.DELETE("/clientes/:id", clients.Delete)
	r.GET("/clientes/:id/completo", clients.Detail)
	r.POST("/clientes/:id/veiculos/:veiculoId", clients.AddVehicle)
	r.POST("/veiculos", vehicles.Create)
	r.GET("/veiculos/cliente/:clienteId", vehicles.ByClient)
	r.PUT("/veiculos/:id", vehicles.Update)
	r.POST("/oficinas", shops.Create)
	r.GET("/oficinas/:id/completo", shops.Detail)
	r.POST("/servicos", services.Create)
	r.GET("/servicos/preco/:min/:max", services.ByPrice)
	r.POST("/pecas", parts.Create)
	r.GET("/pecas/estoque/baixo/:quantidade", parts.LowStock)
	r.PATCH("/pecas/:id/estoque", parts.SetStock)
	r.DELETE("/pecas/:id", parts.Delete)
	r.POST("/ordens-servico", orderHandler.Create)
	r.GET("/ordens-servico/:id", orderHandler.Get)
	r.PUT("/ordens-servico/:id", orderHandler.Update)
	r.GET("/ordens-servico/status/:status", orderHandler.ByStatus)
	r.POST("/ordens-servico/:id/servicos", orderHandler.AddService)
	r.POST("/ordens-servico/:id/pecas", orderHandler.AddPart)
	r.DELETE("/ordens-servico/:id/pecas/:linha", orderHandler.RemovePart)
	r.GET("/ordens-servico/:id/calcular-total", orderHandler.ComputeTotal)
	return &testAPI{engine: r, store: store}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestIndex(t *testing.T) {
	api := newTestAPI(dbtest.NewStore())
	w := api.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "API Oficina Mecânica OK", body["status"])
	assert.Equal(t, "/ordens-servico", body["endpoints"].(map[string]interface{})["ordensServico"])
}

func TestClientHandler(t *testing.T) {
	api := newTestAPI(dbtest.NewStore())
	joao := map[string]interface{}{"nome": "João Silva", "cpf": "123.456.789-00", "telefone": "11 9999-0000", "email": "joao@example.com"}

	t.Run("create", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/clientes", joao)
		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, "João Silva", body["nome"])
		assert.Equal(t, []interface{}{}, body["veiculos"])
	})

	t.Run("duplicate cpf", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/clientes", joao)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["message"], "cpf")
	})

	t.Run("missing required fields", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/clientes", map[string]string{"nome": "Maria"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		msg := decode(t, w)["message"].(string)
		assert.Contains(t, msg, "cpf: campo obrigatório")
		assert.Contains(t, msg, "email: campo obrigatório")
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/clientes", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		api.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown and invalid ids", func(t *testing.T) {
		for _, id := range []string{primitive.NewObjectID().Hex(), "abc"} {
			w := api.do(t, http.MethodGet, "/clientes/"+id, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "Cliente não encontrado", decode(t, w)["message"])
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		clients, err := api.store.Clients.FindClients(context.Background())
		require.NoError(t, err)
		require.Len(t, clients, 1)
		w := api.do(t, http.MethodPut, "/clientes/"+clients[0].ID.Hex(), map[string]string{"telefone": "11 8888-0000"})
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "11 8888-0000", body["telefone"])
		assert.Equal(t, "João Silva", body["nome"])

		w = api.do(t, http.MethodPut, "/clientes/"+clients[0].ID.Hex(), map[string]string{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		clients, err := api.store.Clients.FindClients(context.Background())
		require.NoError(t, err)
		w := api.do(t, http.MethodDelete, "/clientes/"+clients[0].ID.Hex(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Cliente removido com sucesso", decode(t, w)["message"])

		w = api.do(t, http.MethodDelete, "/clientes/"+clients[0].ID.Hex(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestClientHandler_BackendError(t *testing.T) {
	mockClients := new(MockClientCollection)
	store := dbtest.NewStore()
	store.Clients = db.ClientCollection(mockClients)
	api := newTestAPI(store)

	mockClients.On("FindClients", mock.Anything).Return(nil, assert.AnError)

	w := api.do(t, http.MethodGet, "/clientes", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, assert.AnError.Error(), decode(t, w)["message"])
	mockClients.AssertExpectations(t)
}

func TestVehicleHandler_UpdateMovesOwner(t *testing.T) {
	api := newTestAPI(dbtest.NewStore())
	ctx := context.Background()
	ana := &models.Client{Name: "Ana", TaxID: "1", Phone: "1", Email: "ana@example.com"}
	bia := &models.Client{Name: "Bia", TaxID: "2", Phone: "2", Email: "bia@example.com"}
	require.NoError(t, api.store.Clients.InsertClient(ctx, ana))
	require.NoError(t, api.store.Clients.InsertClient(ctx, bia))

	w := api.do(t, http.MethodPost, "/veiculos", map[string]interface{}{
		"cliente_id": ana.ID.Hex(), "marca": "Ford", "modelo": "Ka", "ano": 2018, "placa": "KAA1B22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vehicleID := decode(t, w)["_id"].(string)

	w = api.do(t, http.MethodPost, "/clientes/"+ana.ID.Hex()+"/veiculos/"+vehicleID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPut, "/veiculos/"+vehicleID, map[string]string{"cliente_id": bia.ID.Hex()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	owner := decode(t, w)["cliente_id"].(map[string]interface{})
	assert.Equal(t, "Bia", owner["nome"])

	w = api.do(t, http.MethodGet, "/clientes/"+ana.ID.Hex()+"/completo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["veiculos"])

	w = api.do(t, http.MethodGet, "/veiculos/cliente/"+bia.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = api.do(t, http.MethodGet, "/veiculos/cliente/xyz", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/veiculos/"+vehicleID, map[string]string{"cliente_id": primitive.NewObjectID().Hex()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPartHandler(t *testing.T) {
	api := newTestAPI(dbtest.NewStore())

	w := api.do(t, http.MethodPost, "/pecas", map[string]interface{}{"nome": "Filtro de óleo", "marca": "Bosch", "preco_unitario": 32.5, "quantidade_estoque": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, 32.5, body["preco_unitario"], "money is a JSON number")
	id := body["_id"].(string)

	w = api.do(t, http.MethodPost, "/pecas", map[string]interface{}{"nome": "Vela", "preco_unitario": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/pecas", map[string]interface{}{"nome": "Sem preço"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "preco_unitario: campo obrigatório")
	w = api.do(t, http.MethodPost, "/servicos", map[string]interface{}{"nome": "Sem preço"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "preco: campo obrigatório")

	w = api.do(t, http.MethodPatch, "/pecas/"+id+"/estoque", map[string]int{"quantidade_estoque": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["quantidade_estoque"])

	w = api.do(t, http.MethodPatch, "/pecas/"+id+"/estoque", map[string]int{"quantidade_estoque": -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(t, http.MethodPatch, "/pecas/"+id+"/estoque", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/pecas/estoque/baixo/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var low []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &low))
	assert.Len(t, low, 1)

	w = api.do(t, http.MethodGet, "/pecas/estoque/baixo/muitas", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodDelete, "/pecas/"+id, nil)
	assert.Equal(t, "Peça removida com sucesso", decode(t, w)["message"])
}

func TestServiceHandler_ByPrice(t *testing.T) {
	api := newTestAPI(dbtest.NewStore())
	for _, price := range []float64{30, 50, 80} {
		w := api.do(t, http.MethodPost, "/servicos", map[string]interface{}{"nome": "Serviço", "preco": price})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.do(t, http.MethodGet, "/servicos/preco/30/50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Len(t, found, 2, "bounds are inclusive")

	w = api.do(t, http.MethodGet, "/servicos/preco/90/10", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(t, http.MethodGet, "/servicos/preco/abc/10", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler(t *testing.T) {
	api := newTestAPI(dbtest.NewStore())
	ctx := context.Background()
	client := &models.Client{Name: "João Silva", TaxID: "1", Phone: "1", Email: "joao@example.com"}
	require.NoError(t, api.store.Clients.InsertClient(ctx, client))
	vehicle := &models.Vehicle{ClientID: client.ID, Brand: "VW", Model: "Gol", Year: 2015, Plate: "GOL2015"}
	require.NoError(t, api.store.Vehicles.InsertVehicle(ctx, vehicle))
	shop := &models.Shop{Name: "Oficina Central"}
	require.NoError(t, api.store.Shops.InsertShop(ctx, shop))

	w := api.do(t, http.MethodPost, "/servicos", map[string]interface{}{"nome": "Troca de óleo", "preco": 50})
	require.Equal(t, http.StatusCreated, w.Code)
	serviceID := decode(t, w)["_id"].(string)
	w = api.do(t, http.MethodPost, "/pecas", map[string]interface{}{"nome": "Óleo 5W30", "preco_unitario": 25})
	require.Equal(t, http.StatusCreated, w.Code)
	partID := decode(t, w)["_id"].(string)

	w = api.do(t, http.MethodPost, "/ordens-servico", map[string]string{
		"cliente_id": client.ID.Hex(), "veiculo_id": vehicle.ID.Hex(), "oficina_id": shop.ID.Hex(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode(t, w)
	orderID := order["_id"].(string)
	assert.Equal(t, "aberto", order["status"])
	assert.Equal(t, "João Silva", order["cliente_id"].(map[string]interface{})["nome"])
	assert.NotContains(t, order, "data_saida")

	w = api.do(t, http.MethodPost, "/ordens-servico/"+orderID+"/servicos", map[string]interface{}{"servico_id": serviceID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(t, http.MethodPost, "/ordens-servico/"+orderID+"/pecas", map[string]interface{}{"peca_id": partID, "quantidade": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	lines := decode(t, w)["pecas"].([]interface{})
	require.Len(t, lines, 1)
	assert.Equal(t, "Óleo 5W30", lines[0].(map[string]interface{})["peca_id"].(map[string]interface{})["nome"])

	w = api.do(t, http.MethodPost, "/ordens-servico/"+orderID+"/servicos", map[string]interface{}{"servico_id": primitive.NewObjectID().Hex()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/ordens-servico/"+orderID+"/calcular-total", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(125), decode(t, w)["valor_total"])

	w = api.do(t, http.MethodDelete, "/ordens-servico/"+orderID+"/pecas/7", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/ordens-servico/"+orderID, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "concluido", updated["status"])
	assert.Contains(t, updated, "data_saida")
	assert.Len(t, updated["servicos"], 1, "lines are kept when absent from the body")

	w = api.do(t, http.MethodGet, "/ordens-servico/status/finalizado", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var finished []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &finished))
	assert.Len(t, finished, 1)

	w = api.do(t, http.MethodGet, "/ordens-servico/status/pausado", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodDelete, "/ordens-servico/"+orderID+"/pecas/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["pecas"])

	w = api.do(t, http.MethodGet, "/oficinas/"+shop.ID.Hex()+"/completo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	shopOrders := decode(t, w)["ordensServico"].([]interface{})
	require.Len(t, shopOrders, 1)
	assert.Equal(t, orderID, shopOrders[0].(map[string]interface{})["_id"])
}
