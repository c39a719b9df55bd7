package db

import (
	"context"
	"fmt"

	"github.com/ukydev/oficina/internal/apierror"
	"github.com/ukydev/oficina/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const duplicateTaxID = "CPF já cadastrado"

// MongoClientCollection implements ClientCollection for MongoDB
type MongoClientCollection struct {
	Collection *mongo.Collection
}

// InsertClient inserts a new client, assigning its id and timestamps
func (c *MongoClientCollection) InsertClient(ctx context.Context, client *models.Client) error {
	if err := c.checkTaxID(ctx, client.TaxID, primitive.NilObjectID); err != nil {
		return err
	}
	client.ID = primitive.NewObjectID()
	client.CreatedAt = now()
	client.UpdatedAt = client.CreatedAt
	client.InitSets()

	err := insertOne(ctx, c.Collection, client)
	if mongo.IsDuplicateKeyError(err) {
		return apierror.InvalidField("cpf", duplicateTaxID)
	}
	return err
}

// FindClients returns every client
func (c *MongoClientCollection) FindClients(ctx context.Context) ([]models.Client, error) {
	return findMany[models.Client](ctx, c.Collection, bson.M{})
}

// FindClientByID finds a client by its ID
func (c *MongoClientCollection) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	return findByID[models.Client](ctx, c.Collection, id, ClientNotFound)
}

// FindClientsByIDs loads the listed clients
func (c *MongoClientCollection) FindClientsByIDs(ctx context.Context, ids []primitive.ObjectID, fields ...string) ([]models.Client, error) {
	return findByIDs[models.Client](ctx, c.Collection, ids, fields)
}

// UpdateClient writes the scalar fields of a client. Reference sets only
// change through AddRef and PullRef.
func (c *MongoClientCollection) UpdateClient(ctx context.Context, client *models.Client) error {
	if err := c.checkTaxID(ctx, client.TaxID, client.ID); err != nil {
		return err
	}
	client.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"nome":       client.Name,
		"cpf":        client.TaxID,
		"telefone":   client.Phone,
		"email":      client.Email,
		"updated_at": client.UpdatedAt,
	}}
	err := updateByID(ctx, c.Collection, client.ID, update, ClientNotFound)
	if mongo.IsDuplicateKeyError(err) {
		return apierror.InvalidField("cpf", duplicateTaxID)
	}
	return err
}

// DeleteClient deletes a client by its ID
func (c *MongoClientCollection) DeleteClient(ctx context.Context, id string) error {
	return deleteByID(ctx, c.Collection, id, ClientNotFound)
}

// AddRef adds ref to one of the client's reference sets
func (c *MongoClientCollection) AddRef(ctx context.Context, id primitive.ObjectID, set RefSet, ref primitive.ObjectID) error {
	return addToSet(ctx, c.Collection, id, set, ref, ClientNotFound)
}

// PullRef removes ref from one of the client's reference sets
func (c *MongoClientCollection) PullRef(ctx context.Context, id primitive.ObjectID, set RefSet, ref primitive.ObjectID) error {
	return pullFromSet(ctx, c.Collection, id, set, ref, ClientNotFound)
}

// PullVehicleFromOthers drops the vehicle from every client other than keep
func (c *MongoClientCollection) PullVehicleFromOthers(ctx context.Context, vehicleID, keep primitive.ObjectID) error {
	_, err := c.Collection.UpdateMany(
		ctx,
		bson.M{"veiculos": vehicleID, "_id": bson.M{"$ne": keep}},
		bson.M{"$pull": bson.M{"veiculos": vehicleID}, "$set": bson.M{"updated_at": now()}},
	)
	return err
}

// checkTaxID rejects a cpf already used by a client other than self. The
// unique index still guards against concurrent inserts.
func (c *MongoClientCollection) checkTaxID(ctx context.Context, cpf string, self primitive.ObjectID) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	filter := bson.M{"cpf": cpf}
	if !self.IsZero() {
		filter["_id"] = bson.M{"$ne": self}
	}
	count, err := c.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return apierror.InvalidField("cpf", duplicateTaxID)
	}
	return nil
}
