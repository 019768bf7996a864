package tasks

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Lali182k5/TaskHub/internal/auth"
)

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// optionalDate distinguishes an absent dueDate (keep the current value) from
// an explicit null or empty string (clear it). A plain pointer cannot tell
// those apart.
type optionalDate struct {
	set   bool
	value string
}

func (o *optionalDate) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.value = strings.TrimSpace(s)
	return nil
}

type updateRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueDate     optionalDate `json:"dueDate"`
}

func ownerID(c *fiber.Ctx) (primitive.ObjectID, error) {
	uid, err := auth.UserID(c)
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return oid, nil
}

// taskID parses the :id path parameter. A malformed id cannot match any
// document, so it gets the same response as a missing one.
func taskID(c *fiber.Ctx) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusNotFound, "Task not found")
	}
	return oid, nil
}

func (h *Handler) List(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	q, err := ParseListQuery(c)
	if err != nil {
		return err
	}

	list, err := h.Store.List(c.UserContext(), owner, q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tasks": list})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	title := strings.TrimSpace(body.Title)
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Title is required")
	}

	task := &Task{
		Owner:       owner,
		Title:       title,
		Description: strings.TrimSpace(body.Description),
		Status:      StatusTodo,
		Priority:    PriorityMedium,
	}

	if body.Status != "" {
		task.Status = Status(body.Status)
		if !task.Status.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
		}
	}
	if body.Priority != "" {
		task.Priority = Priority(body.Priority)
		if !task.Priority.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid priority")
		}
	}
	if v := strings.TrimSpace(body.DueDate); v != "" {
		due, err := parseDate(v, "dueDate")
		if err != nil {
			return err
		}
		task.DueDate = &due
	}

	if err := h.Store.Create(c.UserContext(), task); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": task})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.Store.Get(c.UserContext(), owner, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"task": task})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var body updateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var patch Patch
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Title is required")
		}
		patch.Title = &title
	}
	if body.Description != nil {
		desc := strings.TrimSpace(*body.Description)
		patch.Description = &desc
	}
	if body.Status != nil {
		status := Status(*body.Status)
		if !status.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
		}
		patch.Status = &status
	}
	if body.Priority != nil {
		priority := Priority(*body.Priority)
		if !priority.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid priority")
		}
		patch.Priority = &priority
	}
	if body.DueDate.set {
		if body.DueDate.value == "" {
			patch.ClearDue = true
		} else {
			due, err := parseDate(body.DueDate.value, "dueDate")
			if err != nil {
				return err
			}
			patch.DueDate = &due
		}
	}

	task, err := h.Store.Update(c.UserContext(), owner, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"task": task})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.Store.Delete(c.UserContext(), owner, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
