package tracker

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fdg312/vitalis/internal/catalog"
	"github.com/fdg312/vitalis/internal/profile"
)

type Handlers struct {
	tracker        *Tracker
	waterDefaultMl int
}

func NewHandlers(t *Tracker, waterDefaultMl int) *Handlers {
	if waterDefaultMl <= 0 {
		waterDefaultMl = 250
	}
	return &Handlers{tracker: t, waterDefaultMl: waterDefaultMl}
}

// HandleDashboard handles GET /v1/dashboard
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Dashboard(r.Context()))
}

// HandleGetProfile handles GET /v1/profile
func (h *Handlers) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := h.tracker.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, p)
}

// HandlePatchProfile handles PATCH /v1/profile
func (h *Handlers) HandlePatchProfile(w http.ResponseWriter, r *http.Request) {
	var patch profile.Patch
	if !decode(w, r, &patch) {
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "invalid_request", "at least one field is required")
		return
	}
	h.respond(w, http.StatusOK)(h.tracker.UpdateProfile(r.Context(), patch))
}

// HandleApplyRecommendedCalories handles POST /v1/profile/recommended-calories
func (h *Handlers) HandleApplyRecommendedCalories(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK)(h.tracker.ApplyRecommendedCalorieGoal(r.Context()))
}

// HandleAddWater handles POST /v1/water. An empty body adds the default portion.
func (h *Handlers) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	var req AddWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	amount := h.waterDefaultMl
	if req.AmountMl != nil {
		amount = *req.AmountMl
	}
	h.respond(w, http.StatusOK)(h.tracker.AddWater(r.Context(), amount))
}

// HandleAddSteps handles POST /v1/steps
func (h *Handlers) HandleAddSteps(w http.ResponseWriter, r *http.Request) {
	var req StepsRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, http.StatusOK)(h.tracker.AddSteps(r.Context(), req.Steps))
}

// HandleSetSteps handles PUT /v1/steps
func (h *Handlers) HandleSetSteps(w http.ResponseWriter, r *http.Request) {
	var req StepsRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, http.StatusOK)(h.tracker.SetSteps(r.Context(), req.Steps))
}

// HandleLogMeal handles POST /v1/meals
func (h *Handlers) HandleLogMeal(w http.ResponseWriter, r *http.Request) {
	var req LogMealRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, http.StatusCreated)(h.tracker.LogMeal(r.Context(), req.Name, req.Calories, req.Type))
}

// HandleLogPreset handles POST /v1/meals/preset
func (h *Handlers) HandleLogPreset(w http.ResponseWriter, r *http.Request) {
	var req LogPresetRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, http.StatusCreated)(h.tracker.LogPreset(r.Context(), req.Name))
}

// HandleDeleteMeal handles DELETE /v1/meals/{id}. Unknown ids answer 200 with changed=false.
func (h *Handlers) HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK)(h.tracker.DeleteMeal(r.Context(), r.PathValue("id")))
}

// HandleLogExercise handles POST /v1/exercises
func (h *Handlers) HandleLogExercise(w http.ResponseWriter, r *http.Request) {
	var req LogExerciseRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, http.StatusCreated)(h.tracker.LogExerciseByKey(r.Context(), req.Kind, req.Duration))
}

// HandleDeleteExercise handles DELETE /v1/exercises/{id}
func (h *Handlers) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK)(h.tracker.DeleteExercise(r.Context(), r.PathValue("id")))
}

// HandleRecordWeight handles POST /v1/weight
func (h *Handlers) HandleRecordWeight(w http.ResponseWriter, r *http.Request) {
	var req RecordWeightRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, http.StatusOK)(h.tracker.RecordWeight(r.Context(), req.Weight))
}

// HandleCatalog handles GET /v1/catalog
func (h *Handlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Catalog())
}

// respond пишет результат мутации или маппит ошибку в HTTP-статус.
func (h *Handlers) respond(w http.ResponseWriter, status int) func(Outcome, error) {
	return func(o Outcome, err error) {
		if err != nil {
			writeTrackerError(w, err)
			return
		}
		resp := DashboardResponse{Dashboard: o.Dashboard(), Changed: o.Changed}
		if o.Warning != nil {
			resp.Warning = o.Warning.Error()
		}
		if !o.Changed {
			status = http.StatusOK
		}
		writeJSON(w, status, resp)
	}
}

func writeTrackerError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.Is(err, catalog.ErrUnknownExercise):
		writeError(w, http.StatusBadRequest, "unknown_exercise", err.Error())
	case errors.Is(err, catalog.ErrUnknownPreset):
		writeError(w, http.StatusBadRequest, "unknown_preset", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
