package db

import (
	"context"

	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoVehicleCollection implements VehicleCollection for MongoDB.
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

// InsertVehicle inserts a vehicle record into the collection.
func (c *MongoVehicleCollection) InsertVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	return insertOne(ctx, c.Collection, vehicle)
}

// FindVehicles queries vehicle records from the collection.
func (c *MongoVehicleCollection) FindVehicles(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error) {
	return findMany[models.Vehicle](ctx, c.Collection, filter.BSON())
}

// FindVehicleByID finds a vehicle by its ID.
func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return findByID[models.Vehicle](ctx, c.Collection, id, VehicleNotFound)
}

func (c *MongoVehicleCollection) FindVehiclesByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Vehicle, error) {
	return findByIDs[models.Vehicle](ctx, c.Collection, ids, fields)
}

// UpdateVehicle updates a vehicle by its ID.
func (c *MongoVehicleCollection) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"cliente_id": vehicle.ClientID,
		"marca":      vehicle.Brand,
		"modelo":     vehicle.Model,
		"ano":        vehicle.Year,
		"placa":      vehicle.Plate,
		"updated_at": vehicle.UpdatedAt,
	}}
	return updateByID(ctx, c.Collection, vehicle.ID, update, VehicleNotFound)
}

// DeleteVehicle deletes a vehicle by its ID.
func (c *MongoVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	return deleteByID(ctx, c.Collection, id, VehicleNotFound)
}

// SetVehicleOwner points the vehicle at its new owning client.
func (c *MongoVehicleCollection) SetVehicleOwner(ctx context.Context, vehicleID, clientID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"cliente_id": clientID, "updated_at": now()}}
	return updateByID(ctx, c.Collection, vehicleID, update, VehicleNotFound)
}
