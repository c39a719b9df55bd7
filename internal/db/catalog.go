package db

import (
	"context"

	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoServiceCollection implements ServiceCollection for MongoDB.
type MongoServiceCollection struct {
	Collection *mongo.Collection
}

// InsertService inserts a new service, assigning its id and timestamps
func (c *MongoServiceCollection) InsertService(ctx context.Context, service *models.Service) error {
	service.ID = primitive.NewObjectID()
	service.CreatedAt = now()
	service.UpdatedAt = service.CreatedAt
	return insertOne(ctx, c.Collection, service)
}

// FindServices returns the services matching filter
func (c *MongoServiceCollection) FindServices(ctx context.Context, filter ServiceFilter) ([]models.Service, error) {
	query, err := filter.BSON()
	if err != nil {
		return nil, err
	}
	return findMany[models.Service](ctx, c.Collection, query)
}

// FindServiceByID finds a service by its ID
func (c *MongoServiceCollection) FindServiceByID(ctx context.Context, id string) (*models.Service, error) {
	return findByID[models.Service](ctx, c.Collection, id, ServiceNotFound)
}

// FindServicesByIDs loads the listed services
func (c *MongoServiceCollection) FindServicesByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Service, error) {
	return findByIDs[models.Service](ctx, c.Collection, ids, fields)
}

// UpdateService writes the editable fields of a service
func (c *MongoServiceCollection) UpdateService(ctx context.Context, service *models.Service) error {
	service.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"nome":       service.Name,
		"descricao":  service.Description,
		"preco":      service.Price,
		"updated_at": service.UpdatedAt,
	}}
	return updateByID(ctx, c.Collection, service.ID, update, ServiceNotFound)
}

// DeleteService deletes a service by its ID
func (c *MongoServiceCollection) DeleteService(ctx context.Context, id string) error {
	return deleteByID(ctx, c.Collection, id, ServiceNotFound)
}

// MongoPartCollection implements PartCollection for MongoDB.
type MongoPartCollection struct {
	Collection *mongo.Collection
}

// InsertPart inserts a new part, assigning its id and timestamps
func (c *MongoPartCollection) InsertPart(ctx context.Context, part *models.Part) error {
	part.ID = primitive.NewObjectID()
	part.CreatedAt = now()
	part.UpdatedAt = part.CreatedAt
	return insertOne(ctx, c.Collection, part)
}

// FindParts returns the parts matching filter
func (c *MongoPartCollection) FindParts(ctx context.Context, filter PartFilter) ([]models.Part, error) {
	query, err := filter.BSON()
	if err != nil {
		return nil, err
	}
	return findMany[models.Part](ctx, c.Collection, query)
}

// FindPartByID finds a part by its ID
func (c *MongoPartCollection) FindPartByID(ctx context.Context, id string) (*models.Part, error) {
	return findByID[models.Part](ctx, c.Collection, id, PartNotFound)
}

// FindPartsByIDs loads the listed parts
func (c *MongoPartCollection) FindPartsByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Part, error) {
	return findByIDs[models.Part](ctx, c.Collection, ids, fields)
}

// UpdatePart writes the editable fields of a part, stock included
func (c *MongoPartCollection) UpdatePart(ctx context.Context, part *models.Part) error {
	part.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"nome":               part.Name,
		"marca":              part.Brand,
		"quantidade_estoque": part.Stock,
		"preco_unitario":     part.UnitPrice,
		"updated_at":         part.UpdatedAt,
	}}
	return updateByID(ctx, c.Collection, part.ID, update, PartNotFound)
}

// DeletePart deletes a part by its ID
func (c *MongoPartCollection) DeletePart(ctx context.Context, id string) error {
	return deleteByID(ctx, c.Collection, id, PartNotFound)
}

// SetPartStock overwrites the stock count and returns the updated part.
func (c *MongoPartCollection) SetPartStock(ctx context.Context, id string, quantity int) (*models.Part, error) {
	oid, err := ParseID(id, PartNotFound)
	if err != nil {
		return nil, err
	}
	var part models.Part
	err = c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"quantidade_estoque": quantity, "updated_at": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&part)
	if err != nil {
		return nil, notFoundOr(err, PartNotFound)
	}
	return &part, nil
}
