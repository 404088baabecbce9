// Package prototype is the standalone projects/tasks sheet service. It shares
// configuration and logging with the main backend but owns its own database.
package prototype

// Project row of the prototype
type Project struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Task row of the prototype
type Task struct {
	ID        int64  `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	ProjectID int64  `db:"project_id" json:"project_id"`
}
