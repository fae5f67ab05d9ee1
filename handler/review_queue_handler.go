package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/danurs/registration-matcher/entity"

	"github.com/labstack/gommon/log"
)

func (h *MatchingHandler) GetReviewQueue(w http.ResponseWriter, r *http.Request) {
	filter := entity.ReviewQueueFilter{
		Decision: r.URL.Query().Get("decision"),
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "offset must be an integer"})
			return
		}
		filter.Offset = offset
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "limit must be an integer"})
			return
		}
		filter.Limit = limit
	}

	items, err := h.Usecase.ListReviewQueue(r.Context(), filter)
	if err != nil {
		log.Errorf("[Review] failed to list queue: %v", err)
		writeJSON(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: "Failed to list review queue"})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: items})
}

func (h *MatchingHandler) DecideReview(w http.ResponseWriter, r *http.Request) {
	var req entity.ReviewDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "Invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: err.Error()})
		return
	}

	if err := h.Usecase.DecideReview(r.Context(), req); err != nil {
		if errors.Is(err, entity.ErrStaleDecision) {
			writeJSON(w, http.StatusConflict, APIResponse{Status: "error", Message: err.Error()})
			return
		}
		log.Errorf("[Review] decision failed for queue item %d: %v", req.QueueID, err)
		writeJSON(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: "Failed to apply decision"})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success"})
}
