package workflow

import "time"

// Workflow is an instantiated template: a named group of ordered tasks for
// one project.
type Workflow struct {
	ID         string    `yaml:"id"`
	ProjectID  string    `yaml:"project_id"`
	TemplateID string    `yaml:"template_id"`
	Name       string    `yaml:"name"`
	Tasks      []Task    `yaml:"tasks"`
	CreatedAt  time.Time `yaml:"created_at"`
}

type TaskStatus string

const (
	TaskStatusTodo TaskStatus = "todo"
	TaskStatusDone TaskStatus = "done"
)

// Task is one step of a workflow, kept in template order.
type Task struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Order     int        `yaml:"order"`
	Status    TaskStatus `yaml:"status"`
	CreatedAt time.Time  `yaml:"created_at"`
}
