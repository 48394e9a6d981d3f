package domain

import (
	"slices"
	"strings"
	"time"
)

// TaskView is a named predicate over a user's tasks, used for both filtering
// and counting.
type TaskView string

const (
	ViewMyDay     TaskView = "myday"
	ViewImportant TaskView = "important"
	ViewPlanned   TaskView = "planned"

	// ViewAll applies no filter. Unrecognized view names fall back to it.
	ViewAll TaskView = ""
)

// ParseTaskView maps a request parameter to a TaskView, case-insensitively.
// Unknown or empty values select ViewAll.
func ParseTaskView(s string) TaskView {
	switch TaskView(strings.ToLower(s)) {
	case ViewMyDay:
		return ViewMyDay
	case ViewImportant:
		return ViewImportant
	case ViewPlanned:
		return ViewPlanned
	default:
		return ViewAll
	}
}

// TaskSort selects the ordering of a task list.
type TaskSort string

const (
	SortImportance     TaskSort = "importance"
	SortDueDate        TaskSort = "duedate"
	SortAlphabetically TaskSort = "alphabetically"
	SortCreationDate   TaskSort = "creationdate"
)

// ParseTaskSort maps a request parameter to a TaskSort, case-insensitively.
// Unknown or empty values select SortCreationDate.
func ParseTaskSort(s string) TaskSort {
	switch TaskSort(strings.ToLower(s)) {
	case SortImportance:
		return SortImportance
	case SortDueDate:
		return SortDueDate
	case SortAlphabetically:
		return SortAlphabetically
	default:
		return SortCreationDate
	}
}

// TaskCounts holds per-view aggregate counts over a user's incomplete tasks.
type TaskCounts struct {
	MyDay     int
	Important int
	Planned   int
	All       int
}

// FilterTasks returns the subset of tasks matching the view and, when
// categoryID is non-nil, the category. The view predicate does NOT exclude
// completed tasks; only CountTasks does. today anchors the MyDay predicate
// and must be the current UTC time.
func FilterTasks(tasks []*Task, view TaskView, categoryID *string, today time.Time) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		switch view {
		case ViewMyDay:
			if t.DueDate == nil || !sameUTCDate(*t.DueDate, today) {
				continue
			}
		case ViewImportant:
			if !t.IsImportant {
				continue
			}
		case ViewPlanned:
			if t.DueDate == nil {
				continue
			}
		}
		if categoryID != nil && (t.CategoryID == nil || *t.CategoryID != *categoryID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTasks orders tasks in place according to the sort key. Tasks without a
// due date sort after all dated tasks under SortDueDate. Ties under
// SortImportance and SortDueDate break by creation time ascending.
func SortTasks(tasks []*Task, sortBy TaskSort) {
	switch sortBy {
	case SortImportance:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			if a.IsImportant != b.IsImportant {
				if a.IsImportant {
					return -1
				}
				return 1
			}
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortDueDate:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			if c := compareDueDates(a.DueDate, b.DueDate); c != 0 {
				return c
			}
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortAlphabetically:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			return strings.Compare(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	}
}

// CountTasks computes per-view counts over the incomplete subset of tasks.
// Completed tasks are always excluded here, even though FilterTasks includes
// them; the badges represent work remaining.
func CountTasks(tasks []*Task, today time.Time) TaskCounts {
	var counts TaskCounts
	for _, t := range tasks {
		if t.IsCompleted {
			continue
		}
		counts.All++
		if t.DueDate != nil {
			counts.Planned++
			if sameUTCDate(*t.DueDate, today) {
				counts.MyDay++
			}
		}
		if t.IsImportant {
			counts.Important++
		}
	}
	return counts
}

// sameUTCDate reports whether a and b fall on the same UTC calendar date,
// ignoring time of day.
func sameUTCDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// compareDueDates orders due dates ascending with nil treated as the maximum
// possible date.
func compareDueDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
