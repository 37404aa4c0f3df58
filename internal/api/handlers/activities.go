package handlers

import (
	"net/http"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/api/response"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// ActivityHandler handles the activity feed.
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// Activities lists activities newest first.
//
// Endpoint: GET /api/activities?fundId=&type=&from=&to=&limit=
// Response: 200 OK with array of model.Activity
func (h *ActivityHandler) Activities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := request.ParseActivityFilters(q.Get("fundId"), q.Get("type"), q.Get("from"), q.Get("to"), q.Get("limit"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	activities, err := h.activityService.GetActivities(r.Context(), *filter)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveActivities.Error())
		return
	}
	respondJSON(w, http.StatusOK, activities)
}

// CreateActivity posts a milestone or update to the feed.
//
// Endpoint: POST /api/activities
// Response: 201 Created with model.Activity
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req request.CreateActivityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ins, err := validation.ValidateCreateActivity(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to create activity")
		return
	}

	activity, err := h.activityService.CreateActivity(r.Context(), ins)
	if err != nil {
		respondServiceError(w, r, err, "failed to create activity")
		return
	}
	respondJSON(w, http.StatusCreated, activity)
}
