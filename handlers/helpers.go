package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// apiError writes a JSON error body with the given status.
func apiError(e *core.RequestEvent, status int, msg string) error {
	return e.JSON(status, map[string]string{"error": msg})
}

// findProject loads the project referenced by the {id} path segment.
// A nil record means the error response has already been written.
func findProject(app *pocketbase.PocketBase, e *core.RequestEvent) (*core.Record, error) {
	id := e.Request.PathValue("id")
	if id == "" {
		return nil, apiError(e, http.StatusBadRequest, "Missing project id")
	}
	rec, err := app.FindRecordById("projects", id)
	if err != nil {
		return nil, apiError(e, http.StatusNotFound, "Project not found")
	}
	return rec, nil
}

// writeAttachment streams a generated file as a download.
func writeAttachment(e *core.RequestEvent, data []byte, contentType, fileName string) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(data)
	return err
}
