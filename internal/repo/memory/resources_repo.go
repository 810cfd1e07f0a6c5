package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/homage/internal/domain/resource"
)

type ResourcesRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]resource.Resource
}

func NewResourcesRepo() *ResourcesRepo {
	return &ResourcesRepo{
		items: make(map[int64]resource.Resource),
	}
}

func (r *ResourcesRepo) Create(_ context.Context, req resource.CreateRequest, actor resource.Actor) (resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	res := resource.Resource{
		ID:        r.nextID,
		Name:      req.Name,
		Code:      req.Code,
		CreatedBy: actor,
		UpdatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.items[res.ID] = res

	return res, nil
}

func (r *ResourcesRepo) GetByID(_ context.Context, id int64) (resource.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[id]
	if !ok {
		return resource.Resource{}, resource.ErrNotFound
	}

	return res, nil
}

func (r *ResourcesRepo) List(_ context.Context, params resource.ListParams) ([]resource.Resource, int, error) {
	params = params.Normalize()

	r.mu.RLock()
	all := make([]resource.Resource, 0, len(r.items))
	for _, res := range r.items {
		all = append(all, res)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		c := compareBy(all[i], all[j], params.SortBy)
		if c == 0 {
			c = compareInt(all[i].ID, all[j].ID)
		}
		if params.SortDir == "asc" {
			return c < 0
		}
		return c > 0
	})

	total := len(all)
	start := params.Offset()
	if start < 0 || start >= total {
		return []resource.Resource{}, total, nil
	}

	end := start + params.PerPage
	if end > total || end < start {
		end = total
	}

	return all[start:end], total, nil
}

func (r *ResourcesRepo) Update(_ context.Context, id int64, req resource.UpdateRequest, actor resource.Actor) (resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.items[id]
	if !ok {
		return resource.Resource{}, resource.ErrNotFound
	}

	res.Name = req.Name
	res.UpdatedBy = actor
	res.UpdatedAt = time.Now().UTC()
	r.items[id] = res

	return res, nil
}

func (r *ResourcesRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return resource.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func compareBy(a, b resource.Resource, field string) int {
	switch field {
	case "id":
		return compareInt(a.ID, b.ID)
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "code":
		return strings.Compare(a.Code, b.Code)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
