package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quotewizard/services"
	"quotewizard/testhelpers"
)

func TestAreaCRUD(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Carla", "Neri")
	storage := services.NewMemStorage()

	// create
	req := jsonRequest(http.MethodPost, "/api/projects/"+project.Id+"/areas", map[string]any{
		"name":      "Piano terra",
		"totalArea": "85",
	})
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()
	if err := HandleAreaCreate(app, storage)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	areaID, _ := decodeBody(t, rec)["id"].(string)
	if areaID == "" {
		t.Fatal("created area has no id")
	}

	// list
	listReq := httptest.NewRequest(http.MethodGet, "/api/projects/"+project.Id+"/areas", nil)
	listReq.SetPathValue("id", project.Id)
	listRec := httptest.NewRecorder()
	if err := HandleAreaList(app, storage)(newTestRequestEvent(app, listReq, listRec)); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if got := len(storage.SiteAreasByProject(project.Id)); got != 1 {
		t.Fatalf("area count = %d, want 1", got)
	}

	// update merges non-empty fields only
	upReq := jsonRequest(http.MethodPut, "/api/areas/"+areaID, map[string]any{"status": "in_progress"})
	upReq.SetPathValue("id", areaID)
	upRec := httptest.NewRecorder()
	if err := HandleAreaUpdate(storage)(newTestRequestEvent(app, upReq, upRec)); err != nil {
		t.Fatalf("update error: %v", err)
	}
	updated := decodeBody(t, upRec)
	if updated["name"] != "Piano terra" || updated["status"] != "in_progress" {
		t.Errorf("unexpected update result: %v", updated)
	}

	// delete
	delReq := httptest.NewRequest(http.MethodDelete, "/api/areas/"+areaID, nil)
	delReq.SetPathValue("id", areaID)
	delRec := httptest.NewRecorder()
	if err := HandleAreaDelete(storage)(newTestRequestEvent(app, delReq, delRec)); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if got := len(storage.SiteAreasByProject(project.Id)); got != 0 {
		t.Fatalf("area count after delete = %d", got)
	}
}

func TestAreaCreate_RequiresName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Carla", "Neri")
	storage := services.NewMemStorage()

	req := jsonRequest(http.MethodPost, "/api/projects/"+project.Id+"/areas", map[string]any{"totalArea": "10"})
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleAreaCreate(app, storage)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubareaCRUDAndCascade(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Carla", "Neri")
	storage := services.NewMemStorage()

	area := storage.CreateSiteArea(services.SiteArea{ProjectID: project.Id, Name: "Piano terra"})

	req := jsonRequest(http.MethodPost, "/api/areas/"+area.ID+"/subareas", map[string]any{
		"name":         "Cucina",
		"dimensions":   "4x3",
		"workRequired": "rifacimento pavimento",
	})
	req.SetPathValue("id", area.ID)
	rec := httptest.NewRecorder()
	if err := HandleSubareaCreate(storage)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	subID, _ := decodeBody(t, rec)["id"].(string)

	upReq := jsonRequest(http.MethodPut, "/api/subareas/"+subID, map[string]any{"height": "2.7"})
	upReq.SetPathValue("id", subID)
	upRec := httptest.NewRecorder()
	if err := HandleSubareaUpdate(storage)(newTestRequestEvent(app, upReq, upRec)); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if got := decodeBody(t, upRec)["dimensions"]; got != "4x3" {
		t.Errorf("dimensions after update = %v", got)
	}

	// deleting the area removes its subareas too
	delReq := httptest.NewRequest(http.MethodDelete, "/api/areas/"+area.ID, nil)
	delReq.SetPathValue("id", area.ID)
	delRec := httptest.NewRecorder()
	if err := HandleAreaDelete(storage)(newTestRequestEvent(app, delReq, delRec)); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if got := len(storage.SiteSubareasByArea(area.ID)); got != 0 {
		t.Fatalf("subareas after area delete = %d", got)
	}
}

func TestSubareaDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	storage := services.NewMemStorage()

	req := httptest.NewRequest(http.MethodDelete, "/api/subareas/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()

	if err := HandleSubareaDelete(storage)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
