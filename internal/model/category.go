package model

import "time"

type Category struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type CategoryTaskCount struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TaskCount int    `json:"task_count"`
}

type CategoryOrder string

const (
	CategoryByName     CategoryOrder = "name"
	CategoryByNameDesc CategoryOrder = "-name"
	CategoryByID       CategoryOrder = "id"
	CategoryByIDDesc   CategoryOrder = "-id"
)

// ParseCategoryOrder falls back to ordering by name for unknown values.
func ParseCategoryOrder(s string) CategoryOrder {
	switch o := CategoryOrder(s); o {
	case CategoryByName, CategoryByNameDesc, CategoryByID, CategoryByIDDesc:
		return o
	}
	return CategoryByName
}
