package tasks

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no task matches the id under the given
// owner. A task owned by someone else is indistinguishable from one that
// does not exist.
var ErrNotFound = errors.New("task not found")

// Patch carries a partial update. Nil pointers mean the field is untouched;
// ClearDue removes the due date (DueDate is ignored when it is set).
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
	ClearDue    bool
}

// Store persists tasks. Every operation takes the owner id and folds it
// into the query predicate, which is the whole of the authorization model.
type Store interface {
	List(ctx context.Context, owner primitive.ObjectID, q ListQuery) ([]Task, error)
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, owner, id primitive.ObjectID) (*Task, error)
	Update(ctx context.Context, owner, id primitive.ObjectID, patch Patch) (*Task, error)
	Delete(ctx context.Context, owner, id primitive.ObjectID) error
}
