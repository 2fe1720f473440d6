package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

// Document generation: the composed works description is priced by the
// quotation endpoint, then merged with the client data into the docx
// request relayed to the document service.

func quotationRequest(app *pocketbase.PocketBase, registry *services.Registry, e *core.RequestEvent) (*core.Record, services.QuotationDocRequest, error) {
	rec, err := findProject(app, e)
	if rec == nil {
		return nil, services.QuotationDocRequest{}, err
	}

	var body struct {
		ClientData map[string]any `json:"clientData"`
	}
	if err := e.BindBody(&body); err != nil {
		return nil, services.QuotationDocRequest{}, apiError(e, http.StatusBadRequest, "Invalid request body")
	}

	w := registry.Wizard(rec.Id)
	works := w.SiteWorks()
	if works == nil {
		return nil, services.QuotationDocRequest{}, apiError(e, http.StatusConflict, "No site works fetched yet")
	}

	costs, err := registry.Client().FetchPriceQuotation(e.Request.Context(), services.WorksDescription(works))
	if err != nil {
		log.Printf("documents: quotation for project %s failed: %v", rec.Id, err)
		return nil, services.QuotationDocRequest{}, apiError(e, http.StatusBadGateway, err.Error())
	}

	clientData := body.ClientData
	if clientData == nil {
		clientData = map[string]any{
			"clientFirstName": rec.GetString("clientFirstName"),
			"clientSurname":   rec.GetString("clientSurname"),
			"siteAddress":     rec.GetString("siteAddress"),
		}
	}

	return rec, services.QuotationDocRequest{
		ClientData:    clientData,
		InternalCosts: costs,
	}, nil
}

func HandleQuotationDocument(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, req, err := quotationRequest(app, registry, e)
		if rec == nil {
			return err
		}

		data, contentType, err := registry.Client().GenerateQuotationDocx(e.Request.Context(), req)
		if err != nil {
			log.Printf("documents: quotation docx for project %s failed: %v", rec.Id, err)
			return apiError(e, http.StatusBadGateway, err.Error())
		}
		return writeAttachment(e, data, contentType, "quotation.docx")
	}
}

func HandleInternalCostsDocument(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, req, err := quotationRequest(app, registry, e)
		if rec == nil {
			return err
		}

		data, contentType, err := registry.Client().GenerateInternalCostsDocx(e.Request.Context(), req)
		if err != nil {
			log.Printf("documents: internal costs docx for project %s failed: %v", rec.Id, err)
			return apiError(e, http.StatusBadGateway, err.Error())
		}
		return writeAttachment(e, data, contentType, "internal_costs.docx")
	}
}
