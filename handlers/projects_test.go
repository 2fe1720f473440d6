package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quotewizard/services"
	"quotewizard/testhelpers"
)

func TestHandleProjectCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(http.MethodPost, "/api/projects", map[string]any{
		"projectType":     "site_visit",
		"clientFirstName": "Anna",
		"clientSurname":   "Verdi",
		"clientEmail":     "anna@example.com",
		"siteAddress":     "Via Garibaldi 5, Torino",
	})
	rec := httptest.NewRecorder()

	if err := HandleProjectCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["clientFirstName"] != "Anna" {
		t.Errorf("clientFirstName = %v", body["clientFirstName"])
	}
	if body["status"] != "setup" {
		t.Errorf("status = %v, want setup", body["status"])
	}
	if body["id"] == "" || body["id"] == nil {
		t.Error("missing record id")
	}
}

func TestHandleProjectCreate_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	cases := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{"missing first name", map[string]any{"projectType": "site_visit", "clientSurname": "V"}, "clientFirstName"},
		{"bad project type", map[string]any{"projectType": "remodel", "clientFirstName": "A", "clientSurname": "V"}, "projectType"},
		{"bad email", map[string]any{"projectType": "site_visit", "clientFirstName": "A", "clientSurname": "V", "clientEmail": "not-an-email"}, "clientEmail"},
		{"bad status", map[string]any{"projectType": "site_visit", "clientFirstName": "A", "clientSurname": "V", "status": "archived"}, "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, "/api/projects", tc.payload)
			rec := httptest.NewRecorder()

			if err := HandleProjectCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			fields, _ := decodeBody(t, rec)["fields"].(map[string]any)
			if _, ok := fields[tc.field]; !ok {
				t.Errorf("expected error for field %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestHandleProjectViewAndList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Carla", "Neri")

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+project.Id, nil)
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleProjectView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody(t, rec)["clientSurname"]; got != "Neri" {
		t.Errorf("clientSurname = %v", got)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	listRec := httptest.NewRecorder()
	if err := HandleProjectList(app)(newTestRequestEvent(app, listReq, listRec)); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if listRec.Code != http.StatusOK {
		t.Fatalf("list status = %d", listRec.Code)
	}
}

func TestHandleProjectView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/missing123", nil)
	req.SetPathValue("id", "missing123")
	rec := httptest.NewRecorder()

	if err := HandleProjectView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleProjectUpdate_MergesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Carla", "Neri")

	req := jsonRequest(http.MethodPatch, "/api/projects/"+project.Id, map[string]any{
		"clientPhone": "+39 011 123456",
		"status":      "pricing",
	})
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleProjectUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["status"] != "pricing" {
		t.Errorf("status = %v, want pricing", body["status"])
	}
	// untouched fields survive
	if body["clientFirstName"] != "Carla" {
		t.Errorf("clientFirstName = %v, want Carla", body["clientFirstName"])
	}
}

func TestHandleProjectDelete_DropsWizard(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Carla", "Neri")

	registry := services.NewRegistry(services.NewPriceClient(services.DefaultConfig()))
	w := registry.Wizard(project.Id)
	w.Store.SetCategoryData("demo", services.CategoryClassification{})

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/"+project.Id, nil)
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleProjectDelete(app, registry)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if _, err := app.FindRecordById("projects", project.Id); err == nil {
		t.Error("record still exists after delete")
	}
	// a fresh wizard means the old state is gone
	if _, ok := registry.Wizard(project.Id).Store.Classification("demo"); ok {
		t.Error("wizard state survived project deletion")
	}
}
