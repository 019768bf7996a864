package tasks

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type SortOrder string

const (
	// SortCreatedDesc is the default: newest first.
	SortCreatedDesc SortOrder = ""
	// SortDueAsc orders by due date ascending; tasks without a due date come
	// first, ties broken by descending creation time.
	SortDueAsc SortOrder = "dueDate:asc"
	// SortDueDesc is the exact reverse due-date ordering.
	SortDueDesc SortOrder = "dueDate:desc"
)

// ListQuery is the typed form of the task list filters. Zero values mean the
// filter is not applied; supplied filters are AND-combined.
type ListQuery struct {
	Status    Status
	Priority  Priority
	DueAfter  *time.Time
	DueBefore *time.Time
	Sort      SortOrder
}

// dateLayouts accepted for dueDate and the dueAfter/dueBefore bounds.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(value, field string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid "+field)
}

// ParseListQuery validates the list query parameters. Unknown enum members,
// unparseable date bounds, and unsupported sort values are rejected here,
// before any query is built.
func ParseListQuery(c *fiber.Ctx) (ListQuery, error) {
	var q ListQuery

	if v := c.Query("status"); v != "" {
		q.Status = Status(v)
		if !q.Status.Valid() {
			return q, fiber.NewError(fiber.StatusBadRequest, "Invalid status")
		}
	}
	if v := c.Query("priority"); v != "" {
		q.Priority = Priority(v)
		if !q.Priority.Valid() {
			return q, fiber.NewError(fiber.StatusBadRequest, "Invalid priority")
		}
	}

	if v := c.Query("dueAfter"); v != "" {
		t, err := parseDate(v, "dueAfter")
		if err != nil {
			return q, err
		}
		q.DueAfter = &t
	}
	if v := c.Query("dueBefore"); v != "" {
		t, err := parseDate(v, "dueBefore")
		if err != nil {
			return q, err
		}
		q.DueBefore = &t
	}

	switch SortOrder(c.Query("sort")) {
	case SortCreatedDesc:
		q.Sort = SortCreatedDesc
	case SortDueAsc:
		q.Sort = SortDueAsc
	case SortDueDesc:
		q.Sort = SortDueDesc
	default:
		return q, fiber.NewError(fiber.StatusBadRequest, "Invalid sort")
	}

	return q, nil
}
