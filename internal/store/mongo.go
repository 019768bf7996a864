// Package store bootstraps the MongoDB connection and the collection
// schema (indexes and validators) the rest of the server relies on.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Connect opens a client for the given URI and verifies the deployment is
// reachable before returning.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

// taskValidator constrains status and priority to their enum domains so an
// out-of-range value is rejected by the database itself, not silently stored.
var taskValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"owner", "title", "status", "priority"},
		"properties": bson.M{
			"owner": bson.M{"bsonType": "objectId"},
			"title": bson.M{"bsonType": "string"},
			"status": bson.M{
				"enum": []string{"todo", "in_progress", "done"},
			},
			"priority": bson.M{
				"enum": []string{"low", "medium", "high"},
			},
		},
	},
}

// EnsureSchema creates the indexes and the tasks validator. It is safe to
// run on every startup; existing definitions are left alone.
func EnsureSchema(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating users email index: %w", err)
	}

	_, err = db.Collection("tasks").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "dueDate", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating tasks indexes: %w", err)
	}

	// collMod applies the validator whether or not the collection predates
	// it; the index creation above has already materialized the collection.
	err = db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: "tasks"},
		{Key: "validator", Value: taskValidator},
		{Key: "validationLevel", Value: "strict"},
	}).Err()
	if err != nil {
		return fmt.Errorf("applying tasks validator: %w", err)
	}
	return nil
}
