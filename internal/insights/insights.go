// Package insights computes the dashboard aggregates: status and priority
// counts, urgency classification, the urgent/important quadrant grouping,
// and the productivity score. Everything here is a pure function of a task
// slice; the same numbers a browser client derives from its in-memory list.
package insights

import (
	"math"
	"strings"
	"time"

	"github.com/Lali182k5/TaskHub/internal/tasks"
)

// urgencyWindow is how far ahead of now a due date counts as urgent.
const urgencyWindow = 3 * 24 * time.Hour

// Quadrants is the urgent-by-important grouping over tasks that are not
// done. The four buckets are mutually exclusive and cover every such task.
type Quadrants struct {
	DoFirst   int `json:"doFirst"`   // urgent, high priority
	Schedule  int `json:"schedule"`  // not urgent, high priority
	Delegate  int `json:"delegate"`  // urgent, lower priority
	Eliminate int `json:"eliminate"` // not urgent, lower priority
}

type Summary struct {
	Total             int       `json:"total"`
	Done              int       `json:"done"`
	InProgress        int       `json:"inProgress"`
	HighPriority      int       `json:"highPriority"`
	Overdue           int       `json:"overdue"`
	Quadrants         Quadrants `json:"quadrants"`
	CompletionRate    int       `json:"completionRate"`
	ProductivityScore int       `json:"productivityScore"`
}

// Urgent reports whether the task is not done and due within the urgency
// window of now, or already past due. Tasks without a due date are never
// urgent.
func Urgent(t tasks.Task, now time.Time) bool {
	if t.DueDate == nil || t.Status == tasks.StatusDone {
		return false
	}
	return !t.DueDate.After(now.Add(urgencyWindow))
}

// Overdue reports whether the task is not done and its due date has passed.
func Overdue(t tasks.Task, now time.Time) bool {
	if t.DueDate == nil || t.Status == tasks.StatusDone {
		return false
	}
	return t.DueDate.Before(now)
}

// Filter narrows the list by a case-insensitive substring match against
// title and description. An empty query returns the list unchanged.
func Filter(list []tasks.Task, query string) []tasks.Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}

	out := make([]tasks.Task, 0, len(list))
	for _, t := range list {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Description), query) {
			out = append(out, t)
		}
	}
	return out
}

// Compute derives the summary for the given list at the given instant.
func Compute(list []tasks.Task, now time.Time) Summary {
	var s Summary
	s.Total = len(list)

	for _, t := range list {
		switch t.Status {
		case tasks.StatusDone:
			s.Done++
		case tasks.StatusInProgress:
			s.InProgress++
		}
		if t.Priority == tasks.PriorityHigh {
			s.HighPriority++
		}
		if Overdue(t, now) {
			s.Overdue++
		}

		if t.Status == tasks.StatusDone {
			continue
		}
		urgent := Urgent(t, now)
		high := t.Priority == tasks.PriorityHigh
		switch {
		case urgent && high:
			s.Quadrants.DoFirst++
		case !urgent && high:
			s.Quadrants.Schedule++
		case urgent && !high:
			s.Quadrants.Delegate++
		default:
			s.Quadrants.Eliminate++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Done) / float64(s.Total) * 100))
	}

	// Weighted score: a done task is worth 10, an in-progress one 5,
	// normalized against a fully-done list and clamped to [0,100]. The
	// max(total,1) floor keeps an empty list at 0 rather than NaN.
	denom := s.Total
	if denom < 1 {
		denom = 1
	}
	score := int(math.Round(float64(s.Done*10+s.InProgress*5) / float64(denom*10) * 100))
	if score > 100 {
		score = 100
	}
	s.ProductivityScore = score

	return s
}
