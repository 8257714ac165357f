package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCollection adapts a *mongo.Collection to the Collection interface.
type MongoCollection struct {
	coll *mongo.Collection
}

func NewMongoCollection(db *mongo.Database, name string) *MongoCollection {
	return &MongoCollection{coll: db.Collection(name)}
}

func (m *MongoCollection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert: unexpected id type %T", res.InsertedID)
	}
	return id, nil
}

func (m *MongoCollection) FindByID(ctx context.Context, id primitive.ObjectID, out interface{}) error {
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find by id: %w", err)
	}
	return nil
}

// UpdateByID applies a partial field merge ($set). Fields absent from the
// update are left untouched.
func (m *MongoCollection) UpdateByID(ctx context.Context, id primitive.ObjectID, fields interface{}) error {
	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update by id: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCollection) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete by id: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCollection) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cur, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("aggregate decode: %w", err)
	}
	return nil
}
