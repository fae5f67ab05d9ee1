package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danurs/registration-matcher/entity"

	"github.com/labstack/gommon/log"
)

func (h *MatchingHandler) CreateMatchRun(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateMatchRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "Invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: err.Error()})
		return
	}

	run, err := h.Usecase.CreateMatchRun(r.Context(), req.Operator)
	if err != nil {
		log.Errorf("[MatchRun] failed to create run: %v", err)
		writeJSON(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: "Failed to create match run"})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: run})
}

func (h *MatchingHandler) GetMatchRunResult(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.URL.Query().Get("run_id")
	if runIDStr == "" {
		runs, err := h.Usecase.GetMatchRunResults(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: "Failed to get results"})
			return
		}
		writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: runs})
		return
	}

	runID, err := strconv.ParseInt(runIDStr, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "run_id must be a valid integer"})
		return
	}

	run, err := h.Usecase.GetMatchRunResult(r.Context(), runID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: "Failed to get result"})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: run})
}

func (h *MatchingHandler) GetMatchCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Usecase.MatchStateCounts(r.Context())
	if err != nil {
		log.Errorf("[Report] failed to count match states: %v", err)
		writeJSON(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: "Failed to get match counts"})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: counts})
}
