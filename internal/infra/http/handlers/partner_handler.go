package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/localauthority/leadengine/internal/usecase"
)

type PartnerHandler struct {
	assignUC *usecase.AssignPartnerUseCase
}

func NewPartnerHandler(assignUC *usecase.AssignPartnerUseCase) *PartnerHandler {
	return &PartnerHandler{assignUC: assignUC}
}

func (h *PartnerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreatePartnerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	partner, err := h.assignUC.CreatePartner(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, partner)
}
