package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned by id-based operations when no document matches.
var ErrNotFound = errors.New("document not found")

// Collection is the narrow surface of a document collection the services
// depend on. The mongo implementation lives in mongo.go; tests substitute
// fakes returning canned documents.
type Collection interface {
	InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID, out interface{}) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields interface{}) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error
}
