package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danurs/registration-matcher/entity"

	"github.com/labstack/gommon/log"
)

func (h *MatchingHandler) IngestPayment(w http.ResponseWriter, r *http.Request) {
	var raw entity.RawPaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validate.Struct(raw); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	payment, err := h.Usecase.IngestPayment(r.Context(), raw)
	if err != nil {
		var normErr *entity.NormalizationError
		if errors.As(err, &normErr) {
			log.Warnf("[Ingest] rejected payload %s/%s: %v", raw.Processor, raw.ID, normErr)
			writeJSON(w, http.StatusUnprocessableEntity, APIResponse{
				Status:  "error",
				Message: normErr.Error(),
			})
			return
		}
		log.Errorf("[Ingest] failed to ingest payment: %v", err)
		writeJSON(w, http.StatusInternalServerError, APIResponse{
			Status:  "error",
			Message: "Failed to ingest payment",
		})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: payment})
}

func (h *MatchingHandler) IngestRegistration(w http.ResponseWriter, r *http.Request) {
	var raw entity.RawRegistrationPayload
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validate.Struct(raw); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	reg, err := h.Usecase.IngestRegistration(r.Context(), raw)
	if err != nil {
		var normErr *entity.NormalizationError
		if errors.As(err, &normErr) {
			writeJSON(w, http.StatusUnprocessableEntity, APIResponse{
				Status:  "error",
				Message: normErr.Error(),
			})
			return
		}
		log.Errorf("[Ingest] failed to ingest registration: %v", err)
		writeJSON(w, http.StatusInternalServerError, APIResponse{
			Status:  "error",
			Message: "Failed to ingest registration",
		})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: reg})
}

// MarkDuplicate flags a payment as a known re-submission or failed attempt.
func (h *MatchingHandler) MarkDuplicate(w http.ResponseWriter, r *http.Request) {
	var req entity.MarkDuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	if err := h.Usecase.MarkDuplicate(r.Context(), req.PaymentID, req.Reason); err != nil {
		log.Errorf("[Ingest] failed to mark payment %d duplicate: %v", req.PaymentID, err)
		writeJSON(w, http.StatusConflict, APIResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success"})
}

func writeJSON(w http.ResponseWriter, code int, body APIResponse) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
