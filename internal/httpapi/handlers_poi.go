package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"rttrailserver/internal/domain"
	"rttrailserver/internal/service"
)

type poiResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	CreationTime time.Time      `json:"creation_time"`
	Title        string         `json:"title"`
	Type         domain.POIType `json:"type"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Description  string         `json:"description"`
	VoteScore    int            `json:"vote_score"`
}

func poiToResponse(p domain.POI) poiResponse {
	return poiResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		CreationTime: p.CreationTime,
		Title:        p.Title,
		Type:         p.Type,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Description:  p.Description,
		VoteScore:    p.VoteScore,
	}
}

func (a *api) handlePOIList(w http.ResponseWriter, r *http.Request) {
	var box domain.BoundingBox
	fields := map[string]string{}
	box.MinLatitude = floatParam(r, "minLatitude", fields)
	box.MinLongitude = floatParam(r, "minLongitude", fields)
	box.MaxLatitude = floatParam(r, "maxLatitude", fields)
	box.MaxLongitude = floatParam(r, "maxLongitude", fields)
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	pois, err := a.poiSvc.ListInBox(r.Context(), box)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	out := make([]poiResponse, 0, len(pois))
	for _, p := range pois {
		out = append(out, poiToResponse(p))
	}
	WriteJSON(w, http.StatusOK, out)
}

type poiCreateRequest struct {
	Title       string         `json:"title"`
	Type        domain.POIType `json:"type"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Description string         `json:"description"`
}

func (a *api) handlePOICreate(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	var req poiCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	poi, err := a.poiSvc.Create(r.Context(), acct, service.POICreate{
		Title:       req.Title,
		Type:        req.Type,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, poiToResponse(poi))
}

func (a *api) handlePOIGet(w http.ResponseWriter, r *http.Request) {
	poi, err := a.poiSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, poiToResponse(poi))
}

type poiUpdateRequest struct {
	Title       *string         `json:"title"`
	Type        *domain.POIType `json:"type"`
	Description *string         `json:"description"`
}

func (a *api) handlePOIUpdate(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	var req poiUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	upd := domain.POIUpdate{Title: req.Title, Type: req.Type, Description: req.Description}
	if err := a.poiSvc.Update(r.Context(), acct, r.PathValue("id"), upd); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handlePOIDelete(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	if err := a.poiSvc.Delete(r.Context(), acct, r.PathValue("id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type voteRequest struct {
	Value int `json:"value"`
}

func (a *api) handlePOIVote(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	var req voteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.poiSvc.Vote(r.Context(), acct, r.PathValue("id"), domain.VoteValue(req.Value)); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func floatParam(r *http.Request, key string, fields map[string]string) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		fields[key] = "is required"
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields[key] = "must be a number"
		return 0
	}
	return v
}
