// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single to-do item.
type Task struct {
	OwnerID   int    `json:"ownerId" yaml:"ownerId"`
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
	IsLocal   bool   `json:"isLocal" yaml:"isLocal"`
}

// Page is one fetch result for a page number and page size.
type Page struct {
	Items      []Task `json:"items" yaml:"items"`
	TotalCount int    `json:"totalCount" yaml:"totalCount"`
}
