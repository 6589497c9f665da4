package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	appSwap "github.com/roamswap/roamswap/internal/application/swap"
	domainSwap "github.com/roamswap/roamswap/internal/domain/swap"
)

type createSwapRequest struct {
	RequestedUserID    uuid.UUID `json:"requestedUserId"`
	RequesterListingID uuid.UUID `json:"requesterListingId"`
	RequestedListingID uuid.UUID `json:"requestedListingId"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	Notes              *string   `json:"notes,omitempty"`
}

type updateSwapStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) createSwap(w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	var req createSwapRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	result, err := s.swapSvc.Create(r.Context(), appSwap.CreateInput{
		RequesterID:        userID,
		RequestedUserID:    req.RequestedUserID,
		RequesterListingID: req.RequesterListingID,
		RequestedListingID: req.RequestedListingID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Notes:              req.Notes,
	})
	if err != nil {
		respondSwapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// checkConflicts previews accepted swaps that would block an acceptance over
// the given listings and window. Purely informational.
func (s *Server) checkConflicts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listingA, errA := uuid.Parse(q.Get("listingA"))
	listingB, errB := uuid.Parse(q.Get("listingB"))
	start, errStart := time.Parse(time.RFC3339, q.Get("start"))
	end, errEnd := time.Parse(time.RFC3339, q.Get("end"))
	if errA != nil || errB != nil || errStart != nil || errEnd != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "listingA, listingB, start and end are required")
		return
	}
	conflicts, err := s.swapSvc.FindConflicts(r.Context(), listingA, listingB, start, end)
	if err != nil {
		respondSwapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conflicts": conflicts,
		"count":     len(conflicts),
	})
}

func (s *Server) listSwaps(w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	swaps, err := s.swapSvc.ListForUser(r.Context(), userID)
	if err != nil {
		respondSwapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"swaps": swaps,
		"count": len(swaps),
	})
}

func (s *Server) getSwap(w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	swapID, err := parseUUIDParam(r, "swapId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid swapId")
		return
	}
	details, err := s.swapSvc.Get(r.Context(), swapID, userID)
	if err != nil {
		respondSwapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (s *Server) updateSwapStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	swapID, err := parseUUIDParam(r, "swapId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid swapId")
		return
	}
	var req updateSwapStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	target, err := domainSwap.ParseStatus(req.Status)
	if err != nil {
		respondSwapError(w, err)
		return
	}
	if target == domainSwap.StatusPending {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "cannot transition back to pending")
		return
	}

	// Acceptance is a subscription feature, checked before the engine runs.
	if target == domainSwap.StatusAccepted {
		subscribed, err := s.entitlements.IsSubscribed(r.Context(), userID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}
		if !subscribed {
			respondSwapError(w, domainSwap.ErrPaymentRequired)
			return
		}
	}

	details, err := s.swapSvc.Transition(r.Context(), swapID, userID, target)
	if err != nil {
		respondSwapError(w, err)
		return
	}
	swapTransitionsTotal.WithLabelValues(string(target)).Inc()
	respondJSON(w, http.StatusOK, details)
}
