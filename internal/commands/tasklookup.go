package commands

import (
	"fmt"

	"taskdash/internal/dashboard"
	"taskdash/internal/service"
)

// findTaskInView finds a task by id in the merged view. The returned task
// carries the displayed completion state, which is what Toggle expects.
func findTaskInView(view dashboard.View, id int64) (service.Task, error) {
	for _, task := range view.Tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return service.Task{}, fmt.Errorf("task not found on page %d: #%d", view.Page, id)
}
