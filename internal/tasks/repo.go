package tasks

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository is the MongoDB-backed Store.
type Repository struct {
	tasks *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{tasks: db.Collection("tasks")}
}

// mongoFilter builds the find predicate. Owner is always present.
func (q ListQuery) mongoFilter(owner primitive.ObjectID) bson.M {
	filter := bson.M{"owner": owner}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.DueAfter != nil || q.DueBefore != nil {
		due := bson.M{}
		if q.DueAfter != nil {
			due["$gte"] = *q.DueAfter
		}
		if q.DueBefore != nil {
			due["$lte"] = *q.DueBefore
		}
		filter["dueDate"] = due
	}
	return filter
}

// mongoSort maps the sort order to a sort document. Creation time descending
// is the secondary key so equal (or missing) due dates keep a stable order.
func (q ListQuery) mongoSort() bson.D {
	switch q.Sort {
	case SortDueAsc:
		return bson.D{{Key: "dueDate", Value: 1}, {Key: "createdAt", Value: -1}}
	case SortDueDesc:
		return bson.D{{Key: "dueDate", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (r *Repository) List(ctx context.Context, owner primitive.ObjectID, q ListQuery) ([]Task, error) {
	cursor, err := r.tasks.Find(ctx, q.mongoFilter(owner), options.Find().SetSort(q.mongoSort()))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]Task, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, task *Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	res, err := r.tasks.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	task.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Repository) Get(ctx context.Context, owner, id primitive.ObjectID) (*Task, error) {
	var task Task
	err := r.tasks.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *Repository) Update(ctx context.Context, owner, id primitive.ObjectID, patch Patch) (*Task, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}

	update := bson.M{"$set": set}
	if patch.ClearDue {
		update["$unset"] = bson.M{"dueDate": ""}
	} else if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}

	var task Task
	err := r.tasks.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "owner": owner},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *Repository) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
