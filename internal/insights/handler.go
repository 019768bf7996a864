package insights

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Lali182k5/TaskHub/internal/auth"
	"github.com/Lali182k5/TaskHub/internal/tasks"
)

// Handler serves the caller's aggregates server-side. It recomputes from the
// full task list on every request; there are no stored counters to drift.
type Handler struct {
	Store tasks.Store
}

func NewHandler(store tasks.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	uid, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	owner, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	list, err := h.Store.List(c.UserContext(), owner, tasks.ListQuery{})
	if err != nil {
		return err
	}

	list = Filter(list, c.Query("q"))
	return c.JSON(fiber.Map{"insights": Compute(list, time.Now())})
}
