package db

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Each filter has a BSON form used against MongoDB and a Matches form with
// the same semantics for in-memory stores. Zero-valued fields do not filter.

// PriceRange is an inclusive decimal range; nil bounds are open.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// ParsePriceRange parses the two bounds of a price route.
func ParsePriceRange(min, max string) (PriceRange, error) {
	lo, err := decimal.NewFromString(min)
	if err != nil {
		return PriceRange{}, apierror.InvalidField("min", "valor numérico inválido")
	}
	hi, err := decimal.NewFromString(max)
	if err != nil {
		return PriceRange{}, apierror.InvalidField("max", "valor numérico inválido")
	}
	// bounds must also fit a Decimal128 to be usable in a Mongo query
	if _, err := ToDecimal128(lo); err != nil {
		return PriceRange{}, apierror.InvalidField("min", "valor fora do intervalo suportado")
	}
	if _, err := ToDecimal128(hi); err != nil {
		return PriceRange{}, apierror.InvalidField("max", "valor fora do intervalo suportado")
	}
	if lo.GreaterThan(hi) {
		return PriceRange{}, apierror.Validation("faixa de preço inválida: mínimo %s maior que máximo %s", lo, hi)
	}
	return PriceRange{Min: &lo, Max: &hi}, nil
}

func (r PriceRange) empty() bool { return r.Min == nil && r.Max == nil }

func (r PriceRange) bson() (bson.M, error) {
	cond := bson.M{}
	if r.Min != nil {
		d, err := ToDecimal128(*r.Min)
		if err != nil {
			return nil, err
		}
		cond["$gte"] = d
	}
	if r.Max != nil {
		d, err := ToDecimal128(*r.Max)
		if err != nil {
			return nil, err
		}
		cond["$lte"] = d
	}
	return cond, nil
}

func (r PriceRange) contains(v decimal.Decimal) bool {
	if r.Min != nil && v.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && v.GreaterThan(*r.Max) {
		return false
	}
	return true
}

// substring builds a case-insensitive match for a literal substring.
func substring(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ServiceFilter selects catalog services.
type ServiceFilter struct {
	Name  string
	Price PriceRange
}

func (f ServiceFilter) BSON() (bson.M, error) {
	filter := bson.M{}
	if f.Name != "" {
		filter["nome"] = substring(f.Name)
	}
	if !f.Price.empty() {
		cond, err := f.Price.bson()
		if err != nil {
			return nil, err
		}
		filter["preco"] = cond
	}
	return filter, nil
}

func (f ServiceFilter) Matches(s models.Service) bool {
	if f.Name != "" && !containsFold(s.Name, f.Name) {
		return false
	}
	return f.Price.contains(s.Price)
}

// PartFilter selects catalog parts. MaxStock keeps parts with stock at or
// below the threshold; InStock keeps parts with stock above zero.
type PartFilter struct {
	Name     string
	Brand    string
	Price    PriceRange
	MaxStock *int
	InStock  bool
}

func (f PartFilter) BSON() (bson.M, error) {
	filter := bson.M{}
	if f.Name != "" {
		filter["nome"] = substring(f.Name)
	}
	if f.Brand != "" {
		filter["marca"] = substring(f.Brand)
	}
	if !f.Price.empty() {
		cond, err := f.Price.bson()
		if err != nil {
			return nil, err
		}
		filter["preco_unitario"] = cond
	}
	stock := bson.M{}
	if f.MaxStock != nil {
		stock["$lte"] = *f.MaxStock
	}
	if f.InStock {
		stock["$gt"] = 0
	}
	if len(stock) > 0 {
		filter["quantidade_estoque"] = stock
	}
	return filter, nil
}

func (f PartFilter) Matches(p models.Part) bool {
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.Brand != "" && !containsFold(p.Brand, f.Brand) {
		return false
	}
	if f.MaxStock != nil && p.Stock > *f.MaxStock {
		return false
	}
	if f.InStock && p.Stock <= 0 {
		return false
	}
	return f.Price.contains(p.UnitPrice)
}

// ShopFilter selects shops by address substrings.
type ShopFilter struct {
	City  string
	State string
}

func (f ShopFilter) BSON() bson.M {
	filter := bson.M{}
	if f.City != "" {
		filter["endereco.cidade"] = substring(f.City)
	}
	if f.State != "" {
		filter["endereco.estado"] = substring(f.State)
	}
	return filter
}

func (f ShopFilter) Matches(s models.Shop) bool {
	if f.City != "" && !containsFold(s.Address.City, f.City) {
		return false
	}
	if f.State != "" && !containsFold(s.Address.State, f.State) {
		return false
	}
	return true
}

// VehicleFilter selects vehicles by owner.
type VehicleFilter struct {
	ClientID *primitive.ObjectID
}

func (f VehicleFilter) BSON() bson.M {
	filter := bson.M{}
	if f.ClientID != nil {
		filter["cliente_id"] = *f.ClientID
	}
	return filter
}

func (f VehicleFilter) Matches(v models.Vehicle) bool {
	return f.ClientID == nil || v.ClientID == *f.ClientID
}

// OrderFilter selects service orders. From and To bound the entry date,
// both inclusive. OpenOnly keeps orders without an exit date.
type OrderFilter struct {
	ClientID  *primitive.ObjectID
	VehicleID *primitive.ObjectID
	ShopID    *primitive.ObjectID
	Status    models.OrderStatus
	From      *time.Time
	To        *time.Time
	OpenOnly  bool
}

func (f OrderFilter) BSON() bson.M {
	filter := bson.M{}
	if f.ClientID != nil {
		filter["cliente_id"] = *f.ClientID
	}
	if f.VehicleID != nil {
		filter["veiculo_id"] = *f.VehicleID
	}
	if f.ShopID != nil {
		filter["oficina_id"] = *f.ShopID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	entry := bson.M{}
	if f.From != nil {
		entry["$gte"] = *f.From
	}
	if f.To != nil {
		entry["$lte"] = *f.To
	}
	if len(entry) > 0 {
		filter["data_entrada"] = entry
	}
	if f.OpenOnly {
		// matches both a null and a missing field
		filter["data_saida"] = nil
	}
	return filter
}

func (f OrderFilter) Matches(o models.ServiceOrder) bool {
	switch {
	case f.ClientID != nil && o.ClientID != *f.ClientID:
		return false
	case f.VehicleID != nil && o.VehicleID != *f.VehicleID:
		return false
	case f.ShopID != nil && o.ShopID != *f.ShopID:
		return false
	case f.Status != "" && o.Status != f.Status:
		return false
	case f.From != nil && o.EntryDate.Before(*f.From):
		return false
	case f.To != nil && o.EntryDate.After(*f.To):
		return false
	case f.OpenOnly && !o.IsOpen():
		return false
	}
	return true
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// ParseDateRange parses the bounds of an entry-date route. An end bound given
// as a bare date covers that whole day.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	from, _, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, apierror.InvalidField("inicio", "data inválida")
	}
	to, dateOnly, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, apierror.InvalidField("fim", "data inválida")
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Millisecond)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, apierror.Validation("período inválido: início posterior ao fim")
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, bool, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), layout == "2006-01-02", nil
		}
		lastErr = err
	}
	return time.Time{}, false, lastErr
}
