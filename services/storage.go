package services

import (
	"sync"

	"github.com/google/uuid"
)

// SiteArea is one surveyed area of the construction site.
type SiteArea struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	TotalArea string `json:"totalArea,omitempty"`
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
}

// SiteSubarea is a subdivision of a SiteArea with its measurements and
// required work.
type SiteSubarea struct {
	ID            string   `json:"id"`
	AreaID        string   `json:"areaId"`
	Name          string   `json:"name"`
	Dimensions    string   `json:"dimensions,omitempty"`
	Area          string   `json:"area,omitempty"`
	Height        string   `json:"height,omitempty"`
	Volume        string   `json:"volume,omitempty"`
	CurrentStatus string   `json:"currentStatus,omitempty"`
	WorkRequired  string   `json:"workRequired,omitempty"`
	Photos        []string `json:"photos,omitempty"`
}

// WorkCategory groups manually entered activities.
type WorkCategory struct {
	ID            string `json:"id"`
	ProjectID     string `json:"projectId"`
	Name          string `json:"name"`
	Icon          string `json:"icon,omitempty"`
	TotalArea     string `json:"totalArea,omitempty"`
	TotalQuantity string `json:"totalQuantity,omitempty"`
	Unit          string `json:"unit,omitempty"`
}

// WorkActivity is one manually entered activity under a category.
type WorkActivity struct {
	ID          string `json:"id"`
	CategoryID  string `json:"categoryId"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
}

// ManualBOQItem is a hand-entered bill-of-quantities row, as opposed to
// the fetched price line items in the aggregation store.
type ManualBOQItem struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Length      string `json:"length,omitempty"`
	Width       string `json:"width,omitempty"`
	Factor      string `json:"factor,omitempty"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	UnitPrice   string `json:"unitPrice"`
	Total       string `json:"total"`
	PriceSource string `json:"priceSource,omitempty"`
}

// MemStorage is the in-memory CRUD layer for survey data and manual BOQ
// items. By design nothing here survives a restart: the persistence
// whitelist covers only the projects collection.
type MemStorage struct {
	mu         sync.RWMutex
	areas      map[string]SiteArea
	subareas   map[string]SiteSubarea
	categories map[string]WorkCategory
	activities map[string]WorkActivity
	boqItems   map[string]ManualBOQItem
}

// NewMemStorage creates an empty store.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		areas:      make(map[string]SiteArea),
		subareas:   make(map[string]SiteSubarea),
		categories: make(map[string]WorkCategory),
		activities: make(map[string]WorkActivity),
		boqItems:   make(map[string]ManualBOQItem),
	}
}

func (m *MemStorage) CreateSiteArea(area SiteArea) SiteArea {
	m.mu.Lock()
	defer m.mu.Unlock()
	area.ID = uuid.NewString()
	m.areas[area.ID] = area
	return area
}

func (m *MemStorage) SiteAreasByProject(projectID string) []SiteArea {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []SiteArea{}
	for _, a := range m.areas {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

func (m *MemStorage) UpdateSiteArea(id string, updates SiteArea) (SiteArea, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	area, ok := m.areas[id]
	if !ok {
		return SiteArea{}, false
	}
	applyIfSet(&area.Name, updates.Name)
	applyIfSet(&area.TotalArea, updates.TotalArea)
	applyIfSet(&area.Status, updates.Status)
	applyIfSet(&area.Priority, updates.Priority)
	m.areas[id] = area
	return area, true
}

func (m *MemStorage) DeleteSiteArea(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.areas[id]; !ok {
		return false
	}
	delete(m.areas, id)
	for sid, sub := range m.subareas {
		if sub.AreaID == id {
			delete(m.subareas, sid)
		}
	}
	return true
}

func (m *MemStorage) CreateSiteSubarea(sub SiteSubarea) SiteSubarea {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub.ID = uuid.NewString()
	m.subareas[sub.ID] = sub
	return sub
}

func (m *MemStorage) SiteSubareasByArea(areaID string) []SiteSubarea {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []SiteSubarea{}
	for _, s := range m.subareas {
		if s.AreaID == areaID {
			out = append(out, s)
		}
	}
	return out
}

func (m *MemStorage) UpdateSiteSubarea(id string, updates SiteSubarea) (SiteSubarea, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subareas[id]
	if !ok {
		return SiteSubarea{}, false
	}
	applyIfSet(&sub.Name, updates.Name)
	applyIfSet(&sub.Dimensions, updates.Dimensions)
	applyIfSet(&sub.Area, updates.Area)
	applyIfSet(&sub.Height, updates.Height)
	applyIfSet(&sub.Volume, updates.Volume)
	applyIfSet(&sub.CurrentStatus, updates.CurrentStatus)
	applyIfSet(&sub.WorkRequired, updates.WorkRequired)
	if updates.Photos != nil {
		sub.Photos = updates.Photos
	}
	m.subareas[id] = sub
	return sub, true
}

func (m *MemStorage) DeleteSiteSubarea(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subareas[id]; !ok {
		return false
	}
	delete(m.subareas, id)
	return true
}

func (m *MemStorage) CreateWorkCategory(cat WorkCategory) WorkCategory {
	m.mu.Lock()
	defer m.mu.Unlock()
	cat.ID = uuid.NewString()
	m.categories[cat.ID] = cat
	return cat
}

func (m *MemStorage) WorkCategoriesByProject(projectID string) []WorkCategory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []WorkCategory{}
	for _, c := range m.categories {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out
}

func (m *MemStorage) DeleteWorkCategory(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return false
	}
	delete(m.categories, id)
	for aid, act := range m.activities {
		if act.CategoryID == id {
			delete(m.activities, aid)
		}
	}
	return true
}

func (m *MemStorage) CreateWorkActivity(act WorkActivity) WorkActivity {
	m.mu.Lock()
	defer m.mu.Unlock()
	act.ID = uuid.NewString()
	m.activities[act.ID] = act
	return act
}

func (m *MemStorage) WorkActivitiesByCategory(categoryID string) []WorkActivity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []WorkActivity{}
	for _, a := range m.activities {
		if a.CategoryID == categoryID {
			out = append(out, a)
		}
	}
	return out
}

func (m *MemStorage) DeleteWorkActivity(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.activities[id]; !ok {
		return false
	}
	delete(m.activities, id)
	return true
}

func (m *MemStorage) CreateBOQItem(item ManualBOQItem) ManualBOQItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = uuid.NewString()
	m.boqItems[item.ID] = item
	return item
}

func (m *MemStorage) BOQItemsByProject(projectID string) []ManualBOQItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []ManualBOQItem{}
	for _, b := range m.boqItems {
		if b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	return out
}

func (m *MemStorage) UpdateBOQItem(id string, updates ManualBOQItem) (ManualBOQItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.boqItems[id]
	if !ok {
		return ManualBOQItem{}, false
	}
	applyIfSet(&item.Code, updates.Code)
	applyIfSet(&item.Description, updates.Description)
	applyIfSet(&item.Length, updates.Length)
	applyIfSet(&item.Width, updates.Width)
	applyIfSet(&item.Factor, updates.Factor)
	applyIfSet(&item.Quantity, updates.Quantity)
	applyIfSet(&item.Unit, updates.Unit)
	applyIfSet(&item.UnitPrice, updates.UnitPrice)
	applyIfSet(&item.Total, updates.Total)
	applyIfSet(&item.PriceSource, updates.PriceSource)
	m.boqItems[id] = item
	return item, true
}

func (m *MemStorage) DeleteBOQItem(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boqItems[id]; !ok {
		return false
	}
	delete(m.boqItems, id)
	return true
}

func applyIfSet(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
