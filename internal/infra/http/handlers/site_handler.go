package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/localauthority/leadengine/internal/infra/http/middleware"
	"github.com/localauthority/leadengine/internal/usecase"
)

// SiteHandler serves the collaborator-facing registry endpoints: site
// provisioning (single and batch), partner assignment and the
// revenue/cost feed for the ROI tracker.
type SiteHandler struct {
	provisionUC   *usecase.ProvisionSiteUseCase
	assignUC      *usecase.AssignPartnerUseCase
	recordEventUC *usecase.RecordEventUseCase
}

func NewSiteHandler(
	provisionUC *usecase.ProvisionSiteUseCase,
	assignUC *usecase.AssignPartnerUseCase,
	recordEventUC *usecase.RecordEventUseCase,
) *SiteHandler {
	return &SiteHandler{
		provisionUC:   provisionUC,
		assignUC:      assignUC,
		recordEventUC: recordEventUC,
	}
}

func (h *SiteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.ProvisionSiteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	site, err := h.provisionUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordSiteProvisioned("api")

	writeJSON(w, http.StatusCreated, site)
}

func (h *SiteHandler) HandleBatchCreate(w http.ResponseWriter, r *http.Request) {
	var entries []usecase.NicheEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.provisionUC.ExecuteBatch(r.Context(), entries)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	for range report.Created {
		middleware.RecordSiteProvisioned("batch")
	}

	writeJSON(w, http.StatusCreated, report)
}

func (h *SiteHandler) HandleAssignPartner(w http.ResponseWriter, r *http.Request) {
	var input usecase.AssignPartnerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	input.SiteSlug = chi.URLParam(r, "slug")

	output, err := h.assignUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *SiteHandler) HandleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var input usecase.RecordEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	input.SiteSlug = chi.URLParam(r, "slug")

	event, err := h.recordEventUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func writeUseCaseError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusUnprocessableEntity
		switch domainErr.Code {
		case usecase.CodeDuplicateSite:
			status = http.StatusConflict
		case usecase.CodeUnknownSite, usecase.CodePartnerNotFound:
			status = http.StatusNotFound
		case usecase.CodeSiteDeactivated:
			status = http.StatusGone
		case usecase.CodeInvalidPartner, usecase.CodeInvalidEvent:
			status = http.StatusBadRequest
		case usecase.CodeBillingFailed:
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]string{"error": domainErr.Message, "code": domainErr.Code})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
