package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type projectDef struct {
	projectType      string
	clientFirstName  string
	clientSurname    string
	clientPhone      string
	clientEmail      string
	siteAddress      string
	digitalSignature bool
	generalNotes     string
	status           string
}

var seedProjects = []projectDef{
	{
		projectType:      "site_visit",
		clientFirstName:  "Mario",
		clientSurname:    "Rossi",
		clientPhone:      "+39 340 1234567",
		clientEmail:      "mario.rossi@example.it",
		siteAddress:      "Via Garibaldi 12, Torino",
		digitalSignature: true,
		generalNotes:     "Apartment refurbishment, third floor, no elevator access for materials.",
		status:           "site_visit",
	},
	{
		projectType:     "upload_boq",
		clientFirstName: "Lucia",
		clientSurname:   "Bianchi",
		clientEmail:     "l.bianchi@example.it",
		siteAddress:     "Corso Francia 45, Collegno",
		generalNotes:    "BOQ supplied by the client's surveyor.",
		status:          "setup",
	},
}

// Seed inserts a couple of demo projects. It is safe to call on every
// startup because it returns early if any project records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if projects already exist ──────────────────
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	for _, d := range seedProjects {
		r := core.NewRecord(projectsCol)
		r.Set("projectType", d.projectType)
		r.Set("clientFirstName", d.clientFirstName)
		r.Set("clientSurname", d.clientSurname)
		if d.clientPhone != "" {
			r.Set("clientPhone", d.clientPhone)
		}
		if d.clientEmail != "" {
			r.Set("clientEmail", d.clientEmail)
		}
		if d.siteAddress != "" {
			r.Set("siteAddress", d.siteAddress)
		}
		r.Set("digitalSignature", d.digitalSignature)
		if d.generalNotes != "" {
			r.Set("generalNotes", d.generalNotes)
		}
		r.Set("status", d.status)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: could not save project %s %s: %w", d.clientFirstName, d.clientSurname, err)
		}
	}

	log.Printf("seed: inserted %d projects", len(seedProjects))
	return nil
}
