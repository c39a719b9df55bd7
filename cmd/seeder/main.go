package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Demo catalogue loaded into a fresh installation.
var (
	firstNames = []string{"João", "Maria", "Ana", "Pedro", "Lucas", "Juliana", "Carlos", "Fernanda", "Rafael", "Beatriz"}
	lastNames  = []string{"Silva", "Santos", "Oliveira", "Souza", "Lima", "Pereira", "Costa", "Almeida"}

	brands        = []string{"Volkswagen", "Fiat", "Chevrolet", "Toyota", "Honda"}
	vehicleModels = map[string][]string{
		"Volkswagen": {"Gol", "Polo", "T-Cross"},
		"Fiat":       {"Uno", "Argo", "Strada"},
		"Chevrolet":  {"Onix", "Prisma", "S10"},
		"Toyota":     {"Corolla", "Hilux", "Etios"},
		"Honda":      {"Civic", "Fit", "HR-V"},
	}

	shops = []map[string]interface{}{
		{"nome": "Oficina Central", "telefone": "11 3333-1000", "email": "central@oficina.com.br",
			"endereco": map[string]string{"rua": "Av. Paulista, 1000", "cidade": "São Paulo", "estado": "SP", "cep": "01310-100"}},
		{"nome": "Auto Mecânica Rio", "telefone": "21 3222-2000", "email": "contato@mecanicario.com.br",
			"endereco": map[string]string{"rua": "Rua do Catete, 200", "cidade": "Rio de Janeiro", "estado": "RJ", "cep": "22220-000"}},
		{"nome": "Garagem Minas", "telefone": "31 3111-3000", "email": "garagem@minas.com.br",
			"endereco": map[string]string{"rua": "Av. Afonso Pena, 300", "cidade": "Belo Horizonte", "estado": "MG", "cep": "30130-000"}},
	}

	services = []map[string]interface{}{
		{"nome": "Troca de óleo", "descricao": "Troca de óleo e filtro", "preco": 80},
		{"nome": "Alinhamento", "descricao": "Alinhamento e balanceamento", "preco": 120},
		{"nome": "Revisão de freios", "descricao": "Inspeção de pastilhas e discos", "preco": 150},
		{"nome": "Diagnóstico elétrico", "descricao": "Scanner e verificação de chicote", "preco": 200},
	}

	parts = []map[string]interface{}{
		{"nome": "Filtro de óleo", "marca": "Bosch", "preco_unitario": 35.5, "quantidade_estoque": 40},
		{"nome": "Pastilha de freio", "marca": "Cobreq", "preco_unitario": 89.9, "quantidade_estoque": 12},
		{"nome": "Óleo 5W30", "marca": "Mobil", "preco_unitario": 42, "quantidade_estoque": 60},
		{"nome": "Vela de ignição", "marca": "NGK", "preco_unitario": 25, "quantidade_estoque": 3},
	}

	orderStatuses = []string{"aberto", "em_andamento", "concluido", "cancelado"}
)

// Seeder loads demo data through the public API.
type Seeder struct {
	APIURL string
	Client *http.Client
	rng    *rand.Rand
}

// NewSeeder returns a seeder posting to apiURL. The same seed yields the
// same data set.
func NewSeeder(apiURL string, seed int64) *Seeder {
	return &Seeder{
		APIURL: apiURL,
		Client: &http.Client{Timeout: 10 * time.Second},
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Summary counts the documents created by Run.
type Summary struct {
	Shops    int
	Services int
	Parts    int
	Clients  int
	Vehicles int
	Orders   int
}

func (s *Seeder) send(ctx context.Context, method, path string, body interface{}, want int) (map[string]interface{}, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to marshal %s body: %w", path, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, s.APIURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if resp.StatusCode != want {
		return nil, fmt.Errorf("%s %s failed with status %d: %v", method, path, resp.StatusCode, result["message"])
	}
	return result, nil
}

func (s *Seeder) create(ctx context.Context, path string, body interface{}) (string, error) {
	result, err := s.send(ctx, http.MethodPost, path, body, http.StatusCreated)
	if err != nil {
		return "", err
	}
	id, ok := result["_id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid _id in %s response", path)
	}
	return id, nil
}

func (s *Seeder) createAll(ctx context.Context, path string, docs []map[string]interface{}) ([]string, error) {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id, err := s.create(ctx, path, doc)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Seeder) pick(ids []string) string {
	return ids[s.rng.Intn(len(ids))]
}

func (s *Seeder) randomVehicle(clientID string, n int) map[string]interface{} {
	brand := brands[s.rng.Intn(len(brands))]
	models := vehicleModels[brand]
	return map[string]interface{}{
		"cliente_id": clientID,
		"marca":      brand,
		"modelo":     models[s.rng.Intn(len(models))],
		"ano":        2010 + s.rng.Intn(15),
		"placa":      fmt.Sprintf("BRA%d%c%02d", s.rng.Intn(10), 'A'+rune(s.rng.Intn(26)), n%100),
	}
}

// Run creates the catalogue and shops, then clients with one vehicle and
// one service order each.
func (s *Seeder) Run(ctx context.Context, clients int) (Summary, error) {
	var sum Summary

	shopIDs, err := s.createAll(ctx, "/oficinas", shops)
	if err != nil {
		return sum, err
	}
	sum.Shops = len(shopIDs)
	serviceIDs, err := s.createAll(ctx, "/servicos", services)
	if err != nil {
		return sum, err
	}
	sum.Services = len(serviceIDs)
	partIDs, err := s.createAll(ctx, "/pecas", parts)
	if err != nil {
		return sum, err
	}
	sum.Parts = len(partIDs)

	for i := 0; i < clients; i++ {
		first := firstNames[s.rng.Intn(len(firstNames))]
		last := lastNames[s.rng.Intn(len(lastNames))]
		clientID, err := s.create(ctx, "/clientes", map[string]string{
			"nome":     first + " " + last,
			"cpf":      fmt.Sprintf("%03d.%03d.%03d-%02d", s.rng.Intn(1000), s.rng.Intn(1000), i, s.rng.Intn(100)),
			"telefone": fmt.Sprintf("11 9%04d-%04d", s.rng.Intn(10000), s.rng.Intn(10000)),
			"email":    fmt.Sprintf("cliente%d@example.com", i+1),
		})
		if err != nil {
			return sum, err
		}
		sum.Clients++

		vehicleID, err := s.create(ctx, "/veiculos", s.randomVehicle(clientID, i))
		if err != nil {
			return sum, err
		}
		sum.Vehicles++

		shopID := s.pick(shopIDs)
		if _, err := s.send(ctx, http.MethodPost, "/clientes/"+clientID+"/veiculos/"+vehicleID, nil, http.StatusOK); err != nil {
			return sum, err
		}
		if _, err := s.send(ctx, http.MethodPost, "/clientes/"+clientID+"/oficinas/"+shopID, nil, http.StatusOK); err != nil {
			return sum, err
		}

		orderID, err := s.create(ctx, "/ordens-servico", map[string]string{
			"cliente_id": clientID, "veiculo_id": vehicleID, "oficina_id": shopID,
		})
		if err != nil {
			return sum, err
		}
		sum.Orders++

		base := "/ordens-servico/" + orderID
		if _, err := s.send(ctx, http.MethodPost, base+"/servicos", map[string]interface{}{"servico_id": s.pick(serviceIDs)}, http.StatusOK); err != nil {
			return sum, err
		}
		if _, err := s.send(ctx, http.MethodPost, base+"/pecas", map[string]interface{}{
			"peca_id": s.pick(partIDs), "quantidade": 1 + s.rng.Intn(3),
		}, http.StatusOK); err != nil {
			return sum, err
		}
		total, err := s.send(ctx, http.MethodGet, base+"/calcular-total", nil, http.StatusOK)
		if err != nil {
			return sum, err
		}
		status := orderStatuses[s.rng.Intn(len(orderStatuses))]
		if status != "aberto" {
			if _, err := s.send(ctx, http.MethodPatch, base+"/status", map[string]string{"status": status}, http.StatusOK); err != nil {
				return sum, err
			}
		}

		log.WithFields(log.Fields{
			"client":   first + " " + last,
			"order_id": orderID,
			"total":    total["valor_total"],
			"status":   status,
		}).Info("Seeded service order")
	}
	return sum, nil
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:3000"
	}

	clients := 10
	if val := os.Getenv("SEED_CLIENTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			clients = n
		}
	}

	seed := time.Now().UnixNano()
	if val := os.Getenv("SEED"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			seed = n
		}
	}

	log.WithFields(log.Fields{
		"api_url": apiURL,
		"clients": clients,
		"seed":    seed,
	}).Info("Starting demo data seeding")

	sum, err := NewSeeder(apiURL, seed).Run(context.Background(), clients)
	if err != nil {
		log.WithError(err).Fatal("Seeding failed")
	}
	log.WithFields(log.Fields{
		"shops":    sum.Shops,
		"services": sum.Services,
		"parts":    sum.Parts,
		"clients":  sum.Clients,
		"vehicles": sum.Vehicles,
		"orders":   sum.Orders,
	}).Info("Seeding completed")
}
