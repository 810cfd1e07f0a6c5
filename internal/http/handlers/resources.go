package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/homage/internal/actorctx"
	"github.com/geocoder89/homage/internal/config"
	"github.com/geocoder89/homage/internal/domain/resource"
	"github.com/gin-gonic/gin"
)

type ResourceStore interface {
	Create(ctx context.Context, req resource.CreateRequest, actor resource.Actor) (resource.Resource, error)
	GetByID(ctx context.Context, id int64) (resource.Resource, error)
	List(ctx context.Context, params resource.ListParams) ([]resource.Resource, int, error)
	Update(ctx context.Context, id int64, req resource.UpdateRequest, actor resource.Actor) (resource.Resource, error)
	Delete(ctx context.Context, id int64) error
}

// ResourcesHandler serves CRUD for one resource kind (roles, teams).
type ResourcesHandler struct {
	kind resource.Kind
	repo ResourceStore
}

func NewResourcesHandler(kind resource.Kind, repo ResourceStore) *ResourcesHandler {
	return &ResourcesHandler{kind: kind, repo: repo}
}

func (h *ResourcesHandler) List(ctx *gin.Context) {
	params := resource.ListParams{
		Page:    queryInt(ctx, "page"),
		PerPage: queryInt(ctx, "per_page"),
		SortBy:  ctx.Query("sort_by"),
		SortDir: ctx.Query("sort_dir"),
	}.Normalize()

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, params)
	if err != nil {
		RespondInternal(ctx, fmt.Sprintf("Failed to list %s", h.kind.Table), err)
		return
	}

	ctx.JSON(http.StatusOK, NewPage(items, total, params.Page, params.PerPage, ctx.Request.URL))
}

func (h *ResourcesHandler) Create(ctx *gin.Context) {
	var req resource.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	actor, ok := actorctx.ActorFrom(ctx.Request.Context())
	if !ok {
		RespondUnauthenticated(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	res, err := h.repo.Create(cctx, req, actor)
	if err != nil {
		RespondInternal(ctx, fmt.Sprintf("Failed to create %s", h.kind.Singular), err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *ResourcesHandler) Show(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	res, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			h.notFound(ctx, ctx.Param("id"))
			return
		}

		RespondInternal(ctx, fmt.Sprintf("Failed to fetch %s", h.kind.Singular), err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"data": res})
}

// Update validates the body before looking the record up.
func (h *ResourcesHandler) Update(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req resource.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	actor, ok := actorctx.ActorFrom(ctx.Request.Context())
	if !ok {
		RespondUnauthenticated(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	res, err := h.repo.Update(cctx, id, req, actor)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			h.notFound(ctx, ctx.Param("id"))
			return
		}

		RespondInternal(ctx, fmt.Sprintf("Failed to update %s", h.kind.Singular), err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *ResourcesHandler) Delete(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			h.notFound(ctx, ctx.Param("id"))
			return
		}

		RespondInternal(ctx, fmt.Sprintf("Failed to delete %s", h.kind.Singular), err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// non-numeric ids can never match a row, so they are a plain 404
func (h *ResourcesHandler) pathID(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		h.notFound(ctx, raw)
		return 0, false
	}

	return id, true
}

func (h *ResourcesHandler) notFound(ctx *gin.Context, id string) {
	RespondNotFound(ctx, fmt.Sprintf("Cannot find %s with id %s", h.kind.Singular, id))
}

// missing or malformed values read as 0, Normalize turns that into the default
func queryInt(ctx *gin.Context, key string) int {
	n, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return 0
	}
	return n
}
