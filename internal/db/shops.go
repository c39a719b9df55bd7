package db

import (
	"context"

	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoShopCollection implements ShopCollection for MongoDB.
type MongoShopCollection struct {
	Collection *mongo.Collection
}

func (c *MongoShopCollection) InsertShop(ctx context.Context, shop *models.Shop) error {
	shop.ID = primitive.NewObjectID()
	shop.CreatedAt = now()
	shop.UpdatedAt = shop.CreatedAt
	shop.InitSets()
	return insertOne(ctx, c.Collection, shop)
}

func (c *MongoShopCollection) FindShops(ctx context.Context, filter ShopFilter) ([]models.Shop, error) {
	return findMany[models.Shop](ctx, c.Collection, filter.BSON())
}

func (c *MongoShopCollection) FindShopByID(ctx context.Context, id string) (*models.Shop, error) {
	return findByID[models.Shop](ctx, c.Collection, id, ShopNotFound)
}

func (c *MongoShopCollection) FindShopsByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Shop, error) {
	return findByIDs[models.Shop](ctx, c.Collection, ids, fields)
}

// UpdateShop writes the descriptive fields of a shop; the client and order
// sets are left alone.
func (c *MongoShopCollection) UpdateShop(ctx context.Context, shop *models.Shop) error {
	shop.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"nome":       shop.Name,
		"endereco":   shop.Address,
		"telefone":   shop.Phone,
		"email":      shop.Email,
		"updated_at": shop.UpdatedAt,
	}}
	return updateByID(ctx, c.Collection, shop.ID, update, ShopNotFound)
}

func (c *MongoShopCollection) DeleteShop(ctx context.Context, id string) error {
	return deleteByID(ctx, c.Collection, id, ShopNotFound)
}

func (c *MongoShopCollection) AddRef(ctx context.Context, id primitive.ObjectID, set RefSet, ref primitive.ObjectID) error {
	return addToSet(ctx, c.Collection, id, set, ref, ShopNotFound)
}

func (c *MongoShopCollection) PullRef(ctx context.Context, id primitive.ObjectID, set RefSet, ref primitive.ObjectID) error {
	return pullFromSet(ctx, c.Collection, id, set, ref, ShopNotFound)
}
