package httpapi

import (
	"net/http"
	"strconv"

	"rttrailserver/internal/domain"
)

type flappyRankResponse struct {
	Score    int    `json:"score"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func rankToResponse(r domain.FlappyBirdRank) flappyRankResponse {
	return flappyRankResponse{Score: r.Score.Value, Name: r.Name, Position: r.Position}
}

func (a *api) handleFlappyLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			WriteDomainError(w, domain.NewValidationError(map[string]string{"limit": "must be an integer"}))
			return
		}
		limit = v
	}

	ranks, err := a.flappySvc.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	out := make([]flappyRankResponse, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, rankToResponse(rank))
	}
	WriteJSON(w, http.StatusOK, out)
}

func (a *api) handleFlappyPersonalRank(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	rank, err := a.flappySvc.PersonalRank(r.Context(), acct)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rankToResponse(rank))
}

type scoreSubmitRequest struct {
	Value int `json:"value"`
}

type scoreSubmitResponse struct {
	Value    int  `json:"value"`
	Improved bool `json:"improved"`
}

func (a *api) handleFlappySubmit(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	var req scoreSubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	improved, err := a.flappySvc.SubmitScore(r.Context(), acct, req.Value)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, scoreSubmitResponse{Value: req.Value, Improved: improved})
}
