package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the projects collection exists.
// Only the project/client setup fields are persisted; survey data, the
// fetched BOQ aggregation and quotation state stay in memory.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.SelectField{
			Name:      "projectType",
			Required:  true,
			Values:    []string{"site_visit", "upload_boq"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "clientFirstName", Required: true})
		c.Fields.Add(&core.TextField{Name: "clientSurname", Required: true})
		c.Fields.Add(&core.TextField{Name: "clientPhone", Required: false})
		c.Fields.Add(&core.TextField{Name: "clientEmail", Required: false})
		c.Fields.Add(&core.TextField{Name: "siteAddress", Required: false})
		c.Fields.Add(&core.BoolField{Name: "digitalSignature"})
		c.Fields.Add(&core.TextField{Name: "generalNotes", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  false,
			Values:    []string{"setup", "site_visit", "activities", "pricing", "documents", "completed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
