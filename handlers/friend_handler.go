package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"checktwfriends/dto"
	"checktwfriends/models"
	"checktwfriends/repositories"
	"checktwfriends/service"
	"checktwfriends/twitter"
)

// FriendHandler handles the tracked-friend endpoints
type FriendHandler struct {
	Repo       repositories.FriendRepository
	Reconciler *service.Reconciler
	Unfollower *service.Unfollower
}

// NewFriendHandler initializes a new FriendHandler
func NewFriendHandler(repo repositories.FriendRepository, reconciler *service.Reconciler, unfollower *service.Unfollower) *FriendHandler {
	return &FriendHandler{Repo: repo, Reconciler: reconciler, Unfollower: unfollower}
}

// GetFriends returns every tracked friend currently in the store
func (h *FriendHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.Repo.All()
	if err != nil {
		http.Error(w, `{"status": 500, "error_msg": "Database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.FromModels(friends))
}

// CheckFriends runs a reconciliation and returns the refreshed list
func (h *FriendHandler) CheckFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.Reconciler.Reconcile()
	if err != nil {
		logrus.WithError(err).Error("Reconciliation failed")

		var remoteErr *twitter.RemoteError
		if errors.As(err, &remoteErr) || errors.Is(err, service.ErrPageLimit) {
			http.Error(w, `{"status": 502, "error_msg": "Twitter API error"}`, http.StatusBadGateway)
			return
		}
		http.Error(w, `{"status": 500, "error_msg": "Reconciliation error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.FromModels(friends))
}

// GetNeedUnfollow returns the tracked friends flagged for removal
func (h *FriendHandler) GetNeedUnfollow(w http.ResponseWriter, r *http.Request) {
	friends, err := h.Repo.FilterByFlag(true)
	if err != nil {
		http.Error(w, `{"status": 500, "error_msg": "Database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.FromModels(friends))
}

// UpdateNeedUnfollow flips the removal flag of one record, looked up by handle
func (h *FriendHandler) UpdateNeedUnfollow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	handle := vars["handle"]

	var requestData struct {
		NeedUnfollow *bool `json:"need_unfollow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.NeedUnfollow == nil {
		http.Error(w, `{"status": 400, "error_msg": "Invalid JSON"}`, http.StatusBadRequest)
		return
	}

	friend, err := h.Repo.SetUnfollowState(handle, models.StateFromFlag(*requestData.NeedUnfollow))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			http.Error(w, `{"status": 404, "error_msg": "Friend not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"status": 500, "error_msg": "Database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.FromModel(*friend))
}

// Unfollow destroys the flagged friendships, purges their records and
// returns the remaining (exempt) records. A partial failure reports the
// handles that could not be unfollowed; their records stay flagged.
func (h *FriendHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	remaining, err := h.Unfollower.UnfollowFlagged()
	if err != nil {
		logrus.WithError(err).Error("Unfollow run failed")

		var partial *service.PartialUnfollowError
		if errors.As(err, &partial) {
			failed := make([]string, len(partial.Failures))
			for i, f := range partial.Failures {
				failed[i] = f.Handle
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    502,
				"error_msg": "Some friendships could not be destroyed",
				"failed":    failed,
				"remaining": dto.FromModels(remaining),
			})
			return
		}
		http.Error(w, `{"status": 500, "error_msg": "Unfollow error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.FromModels(remaining))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
