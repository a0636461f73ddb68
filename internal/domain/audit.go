package domain

import (
	"fmt"
	"time"
)

// Category groups audit entries by the kind of record they touched.
type Category string

const (
	CategoryEmployee Category = "funcionario"
	CategoryEvent    Category = "evento"
	CategoryHoliday  Category = "feriado"
	CategoryDayOff   Category = "folga"
	CategoryUser     Category = "usuario"
	CategoryAuth     Category = "autenticacao"
	CategoryBackup   Category = "backup"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryEmployee, CategoryEvent, CategoryHoliday, CategoryDayOff,
	CategoryUser, CategoryAuth, CategoryBackup,
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q: must be one of %v", s, Categories)
}

// Status is the outcome recorded on an audit entry.
type Status string

const (
	StatusSuccess Status = "sucesso"
	StatusFailure Status = "falha"
)

// AuditEntry is an immutable record of one attempted mutation.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     Actor     `json:"actor"`
	Action    string    `json:"action"`
	Category  Category  `json:"category"`
	Details   string    `json:"details,omitempty"`
	Source    string    `json:"source,omitempty"`
	Status    Status    `json:"status"`
}

// Outcome holds per-status counts for one category.
type Outcome struct {
	Success int64 `json:"sucesso"`
	Failure int64 `json:"falha"`
}

// AuditFilter narrows an audit query. Zero values mean "no filter".
type AuditFilter struct {
	Limit    int
	Category Category
	Actor    Actor
	From     Date
	To       Date
}
