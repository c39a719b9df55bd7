package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderCollection implements OrderCollection for MongoDB.
type MongoOrderCollection struct {
	Collection *mongo.Collection
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "data_entrada", Value: -1}})
}

// InsertOrder inserts a service order, filling its creation defaults.
func (c *MongoOrderCollection) InsertOrder(ctx context.Context, order *models.ServiceOrder) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now()
	order.UpdatedAt = order.CreatedAt
	order.ApplyDefaults(order.CreatedAt)
	return insertOne(ctx, c.Collection, order)
}

// FindOrders queries service orders, most recent entry first.
func (c *MongoOrderCollection) FindOrders(ctx context.Context, filter OrderFilter) ([]models.ServiceOrder, error) {
	return findMany[models.ServiceOrder](ctx, c.Collection, filter.BSON(), newestFirst())
}

// FindOrderByID finds a service order by its ID.
func (c *MongoOrderCollection) FindOrderByID(ctx context.Context, id string) (*models.ServiceOrder, error) {
	return findByID[models.ServiceOrder](ctx, c.Collection, id, OrderNotFound)
}

func (c *MongoOrderCollection) FindOrdersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ServiceOrder, error) {
	if len(ids) == 0 {
		return []models.ServiceOrder{}, nil
	}
	return findMany[models.ServiceOrder](ctx, c.Collection, bson.M{"_id": bson.M{"$in": ids}}, newestFirst())
}

// UpdateOrder replaces the editable fields of a service order.
func (c *MongoOrderCollection) UpdateOrder(ctx context.Context, order *models.ServiceOrder) error {
	order.UpdatedAt = now()
	set := bson.M{
		"cliente_id":   order.ClientID,
		"veiculo_id":   order.VehicleID,
		"oficina_id":   order.ShopID,
		"data_entrada": order.EntryDate,
		"servicos":     order.Services,
		"pecas":        order.Parts,
		"valor_total":  order.Total,
		"status":       order.Status,
		"updated_at":   order.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if order.ExitDate != nil {
		set["data_saida"] = *order.ExitDate
	} else {
		update["$unset"] = bson.M{"data_saida": ""}
	}
	return updateByID(ctx, c.Collection, order.ID, update, OrderNotFound)
}

// DeleteOrder deletes a service order by its ID.
func (c *MongoOrderCollection) DeleteOrder(ctx context.Context, id string) error {
	return deleteByID(ctx, c.Collection, id, OrderNotFound)
}

// SetOrderStatus runs as a single pipeline update so the exit date is only
// written when the stored document has none.
func (c *MongoOrderCollection) SetOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, stampExit bool, at time.Time) (*models.ServiceOrder, error) {
	set := bson.D{
		{Key: "status", Value: string(status)},
		{Key: "updated_at", Value: at},
	}
	if stampExit {
		set = append(set, bson.E{Key: "data_saida", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$data_saida", at}}}})
	}
	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}

	var order models.ServiceOrder
	err := c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, notFoundOr(err, OrderNotFound)
	}
	return &order, nil
}

// PushServiceLine appends a service line to the order.
func (c *MongoOrderCollection) PushServiceLine(ctx context.Context, id primitive.ObjectID, line models.ServiceLine) error {
	update := bson.M{
		"$push": bson.M{string(ServiceLines): line},
		"$set":  bson.M{"updated_at": now()},
	}
	return updateByID(ctx, c.Collection, id, update, OrderNotFound)
}

// PushPartLine appends a part line to the order.
func (c *MongoOrderCollection) PushPartLine(ctx context.Context, id primitive.ObjectID, line models.PartLine) error {
	update := bson.M{
		"$push": bson.M{string(PartLines): line},
		"$set":  bson.M{"updated_at": now()},
	}
	return updateByID(ctx, c.Collection, id, update, OrderNotFound)
}

// PullLine removes a line item by its id. A non-negative index makes the
// removal conditional on the line still sitting at that position.
func (c *MongoOrderCollection) PullLine(ctx context.Context, id primitive.ObjectID, field LineField, lineID primitive.ObjectID, index int) error {
	filter := bson.M{"_id": id}
	if index >= 0 {
		filter[fmt.Sprintf("%s.%d._id", field, index)] = lineID
	} else {
		filter[string(field)+"._id"] = lineID
	}
	update := bson.M{
		"$pull": bson.M{string(field): bson.M{"_id": lineID}},
		"$set":  bson.M{"updated_at": now()},
	}
	result, err := c.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if index >= 0 {
			return apierror.Conflict("o item %d da ordem foi alterado por outra requisição", index)
		}
		return apierror.NotFound("Item não encontrado na ordem de serviço")
	}
	return nil
}

// SetOrderTotal persists a computed total.
func (c *MongoOrderCollection) SetOrderTotal(ctx context.Context, id primitive.ObjectID, total decimal.Decimal) error {
	update := bson.M{"$set": bson.M{"valor_total": total, "updated_at": now()}}
	return updateByID(ctx, c.Collection, id, update, OrderNotFound)
}
