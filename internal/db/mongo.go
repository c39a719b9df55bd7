package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/oficina/internal/apierror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	ClientsCollection  = "clientes"
	VehiclesCollection = "veiculos"
	ShopsCollection    = "oficinas"
	ServicesCollection = "servicos"
	PartsCollection    = "pecas"
	OrdersCollection   = "ordens_servico"
)

// Not-found messages reported to API callers.
const (
	ClientNotFound  = "Cliente não encontrado"
	VehicleNotFound = "Veículo não encontrado"
	ShopNotFound    = "Oficina não encontrada"
	ServiceNotFound = "Serviço não encontrado"
	PartNotFound    = "Peça não encontrada"
	OrderNotFound   = "Ordem de serviço não encontrada"
)

// ConnectMongo connects to MongoDB at uri and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetRegistry(NewRegistry()).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// NewStore wires the MongoDB implementation of every collection.
func NewStore(database *mongo.Database) *Store {
	return &Store{
		Clients:  &MongoClientCollection{Collection: database.Collection(ClientsCollection)},
		Vehicles: &MongoVehicleCollection{Collection: database.Collection(VehiclesCollection)},
		Shops:    &MongoShopCollection{Collection: database.Collection(ShopsCollection)},
		Services: &MongoServiceCollection{Collection: database.Collection(ServicesCollection)},
		Parts:    &MongoPartCollection{Collection: database.Collection(PartsCollection)},
		Orders:   &MongoOrderCollection{Collection: database.Collection(OrdersCollection)},
	}
}

// EnsureIndexes creates the unique cpf index and the indexes backing the
// foreign-key and date lookups. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ClientsCollection: {
			{Keys: bson.D{{Key: "cpf", Value: 1}}, Options: options.Index().SetUnique(true).SetName("cpf_unique")},
		},
		VehiclesCollection: {
			{Keys: bson.D{{Key: "cliente_id", Value: 1}}},
		},
		ShopsCollection: {
			{Keys: bson.D{{Key: "endereco.cidade", Value: 1}}},
			{Keys: bson.D{{Key: "endereco.estado", Value: 1}}},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "cliente_id", Value: 1}, {Key: "data_entrada", Value: -1}}},
			{Keys: bson.D{{Key: "veiculo_id", Value: 1}, {Key: "data_entrada", Value: -1}}},
			{Keys: bson.D{{Key: "oficina_id", Value: 1}, {Key: "data_entrada", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "data_entrada", Value: -1}}},
		},
	}
	for name, idx := range indexes {
		created, err := database.Collection(name).Indexes().CreateMany(ctx, idx)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		log.WithFields(log.Fields{"collection": name, "indexes": created}).Debug("Indexes ensured")
	}
	return nil
}

// ParseID converts a hex id from a request. Malformed ids cannot name a
// document, so they are reported with the not-found message.
func ParseID(id, notFound string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apierror.NotFound(notFound)
	}
	return oid, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, notFound string) (*T, error) {
	if coll == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFoundOr(err, notFound)
	}
	return &doc, nil
}

// notFoundOr turns mongo.ErrNoDocuments into a NotFoundError.
func notFoundOr(err error, notFound string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apierror.NotFound(notFound)
	}
	return err
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id, notFound string) (*T, error) {
	oid, err := ParseID(id, notFound)
	if err != nil {
		return nil, err
	}
	return findOne[T](ctx, coll, bson.M{"_id": oid}, notFound)
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	if coll == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// findByIDs loads the documents whose ids are listed, projected to fields
// when any are given.
func findByIDs[T any](ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID, fields []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	opts := options.Find()
	if len(fields) > 0 {
		projection := bson.M{}
		for _, f := range fields {
			projection[f] = 1
		}
		opts.SetProjection(projection)
	}
	return findMany[T](ctx, coll, bson.M{"_id": bson.M{"$in": ids}}, opts)
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	if coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := coll.InsertOne(ctx, doc)
	return err
}

// updateByID applies update to the document and reports NotFound when no
// document has that id.
func updateByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, update interface{}, notFound string) error {
	if coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apierror.NotFound(notFound)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id, notFound string) error {
	if coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	oid, err := ParseID(id, notFound)
	if err != nil {
		return err
	}
	result, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apierror.NotFound(notFound)
	}
	return nil
}

func addToSet(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, set RefSet, ref primitive.ObjectID, notFound string) error {
	update := bson.M{
		"$addToSet": bson.M{string(set): ref},
		"$set":      bson.M{"updated_at": now()},
	}
	return updateByID(ctx, coll, id, update, notFound)
}

func pullFromSet(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, set RefSet, ref primitive.ObjectID, notFound string) error {
	update := bson.M{
		"$pull": bson.M{string(set): ref},
		"$set":  bson.M{"updated_at": now()},
	}
	return updateByID(ctx, coll, id, update, notFound)
}

// now is truncated to the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
