package services

import "testing"

func TestMemStorage_SiteAreaCRUD(t *testing.T) {
	m := NewMemStorage()

	a := m.CreateSiteArea(SiteArea{ProjectID: "p1", Name: "Ground floor", TotalArea: "120"})
	if a.ID == "" {
		t.Fatal("created area has no id")
	}

	if got := m.SiteAreasByProject("p1"); len(got) != 1 {
		t.Fatalf("areas for p1 = %d, want 1", len(got))
	}
	if got := m.SiteAreasByProject("other"); len(got) != 0 {
		t.Errorf("areas leaked across projects: %v", got)
	}

	updated, ok := m.UpdateSiteArea(a.ID, SiteArea{Status: "surveyed"})
	if !ok {
		t.Fatal("update reported missing area")
	}
	if updated.Status != "surveyed" || updated.Name != "Ground floor" {
		t.Errorf("merge update wrong: %+v", updated)
	}

	if _, ok := m.UpdateSiteArea("nope", SiteArea{Name: "x"}); ok {
		t.Error("update of unknown id must fail")
	}

	if !m.DeleteSiteArea(a.ID) {
		t.Fatal("delete failed")
	}
	if m.DeleteSiteArea(a.ID) {
		t.Error("second delete must report missing")
	}
}

func TestMemStorage_DeleteAreaCascadesSubareas(t *testing.T) {
	m := NewMemStorage()
	a := m.CreateSiteArea(SiteArea{ProjectID: "p1", Name: "Floor"})
	m.CreateSiteSubarea(SiteSubarea{AreaID: a.ID, Name: "Kitchen"})
	m.CreateSiteSubarea(SiteSubarea{AreaID: a.ID, Name: "Hall"})

	m.DeleteSiteArea(a.ID)
	if got := m.SiteSubareasByArea(a.ID); len(got) != 0 {
		t.Errorf("orphaned subareas after area delete: %v", got)
	}
}

func TestMemStorage_SubareaUpdate(t *testing.T) {
	m := NewMemStorage()
	a := m.CreateSiteArea(SiteArea{ProjectID: "p1", Name: "Floor"})
	sub := m.CreateSiteSubarea(SiteSubarea{AreaID: a.ID, Name: "Kitchen", Area: "15"})

	got, ok := m.UpdateSiteSubarea(sub.ID, SiteSubarea{WorkRequired: "tiling", Photos: []string{"a.jpg"}})
	if !ok {
		t.Fatal("update failed")
	}
	if got.WorkRequired != "tiling" || got.Area != "15" || len(got.Photos) != 1 {
		t.Errorf("updated subarea = %+v", got)
	}
}

func TestMemStorage_CategoriesAndActivities(t *testing.T) {
	m := NewMemStorage()
	cat := m.CreateWorkCategory(WorkCategory{ProjectID: "p1", Name: "Flooring", Unit: "sqm"})
	act := m.CreateWorkActivity(WorkActivity{CategoryID: cat.ID, Description: "lay tiles", Quantity: "40", Unit: "sqm"})

	if got := m.WorkCategoriesByProject("p1"); len(got) != 1 {
		t.Fatalf("categories = %v", got)
	}
	if got := m.WorkActivitiesByCategory(cat.ID); len(got) != 1 || got[0].ID != act.ID {
		t.Fatalf("activities = %v", got)
	}

	if !m.DeleteWorkActivity(act.ID) {
		t.Fatal("delete activity failed")
	}
	if got := m.WorkActivitiesByCategory(cat.ID); len(got) != 0 {
		t.Errorf("activity survived delete: %v", got)
	}
}

func TestMemStorage_BOQItems(t *testing.T) {
	m := NewMemStorage()
	it := m.CreateBOQItem(ManualBOQItem{ProjectID: "p1", Code: "01.A", Description: "screed", Quantity: "10", Unit: "sqm", UnitPrice: "12", Total: "120"})

	updated, ok := m.UpdateBOQItem(it.ID, ManualBOQItem{Quantity: "12", Total: "144"})
	if !ok || updated.Quantity != "12" || updated.Total != "144" || updated.Code != "01.A" {
		t.Fatalf("update = %+v ok=%v", updated, ok)
	}

	if got := m.BOQItemsByProject("p1"); len(got) != 1 {
		t.Fatalf("items = %v", got)
	}
	if !m.DeleteBOQItem(it.ID) {
		t.Fatal("delete failed")
	}
	if got := m.BOQItemsByProject("p1"); len(got) != 0 {
		t.Errorf("item survived delete: %v", got)
	}
}

func TestMemStorage_DeleteSubarea(t *testing.T) {
	m := NewMemStorage()
	area := m.CreateSiteArea(SiteArea{ProjectID: "p1", Name: "ground floor"})
	sub := m.CreateSiteSubarea(SiteSubarea{AreaID: area.ID, Name: "kitchen"})

	if !m.DeleteSiteSubarea(sub.ID) {
		t.Fatal("delete failed")
	}
	if m.DeleteSiteSubarea(sub.ID) {
		t.Error("second delete should report not found")
	}
	if got := m.SiteSubareasByArea(area.ID); len(got) != 0 {
		t.Errorf("subareas = %v", got)
	}
}

func TestMemStorage_DeleteCategoryCascadesActivities(t *testing.T) {
	m := NewMemStorage()
	cat := m.CreateWorkCategory(WorkCategory{ProjectID: "p1", Name: "demolition"})
	m.CreateWorkActivity(WorkActivity{CategoryID: cat.ID, Description: "remove walls", Quantity: "5", Unit: "sqm"})

	if !m.DeleteWorkCategory(cat.ID) {
		t.Fatal("delete failed")
	}
	if got := m.WorkActivitiesByCategory(cat.ID); len(got) != 0 {
		t.Errorf("activities survived category delete: %v", got)
	}
	if got := m.WorkCategoriesByProject("p1"); len(got) != 0 {
		t.Errorf("categories = %v", got)
	}
}
