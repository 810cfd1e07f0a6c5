package resource

import (
	"errors"
	"math"
	"time"
)

var ErrNotFound = errors.New("resource not found")

// Kind names one flat resource family and the table backing it.
type Kind struct {
	Singular string
	Table    string
}

var (
	Role = Kind{Singular: "role", Table: "roles"}
	Team = Kind{Singular: "team", Table: "teams"}
)

// Actor is the audit stamp of whoever created or last updated a record.
type Actor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Resource struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedBy Actor     `json:"created_by"`
	UpdatedBy Actor     `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Code string `json:"code" binding:"required,max=255"`
}

type UpdateRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

const (
	DefaultSortBy  = "created_at"
	DefaultSortDir = "desc"
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// sortable columns, the values are safe to splice into SQL
var sortColumns = map[string]struct{}{
	"id":         {},
	"name":       {},
	"code":       {},
	"created_at": {},
	"updated_at": {},
}

type ListParams struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
}

// Normalize applies defaults and falls back to them for anything outside
// the allowlist.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}

	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}

	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}

	// keep (Page-1)*PerPage inside int
	if maxPage := math.MaxInt / p.PerPage; p.Page > maxPage {
		p.Page = maxPage
	}

	if _, ok := sortColumns[p.SortBy]; !ok {
		p.SortBy = DefaultSortBy
	}

	if p.SortDir != "asc" && p.SortDir != "desc" {
		p.SortDir = DefaultSortDir
	}

	return p
}

// Offset is only meaningful on normalized params.
func (p ListParams) Offset() int {
	if p.Page < 1 || p.PerPage < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}
