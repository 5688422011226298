package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lingopath/lingopath-lms/internal/gamification"
)

// GET /progress/{userID} — points, streak and earned achievements in one
// payload, which is what the profile screen renders.
func GetProgressHandler(store gamification.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		p, err := store.Progress(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		unlocked, err := store.UnlockedByUser(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user_id":      userID,
			"total_points": p.TotalPoints,
			"streak_days":  p.StreakDays,
			"achievements": unlocked,
		})
	}
}

// GET /achievements — the full catalog, for rendering locked badges.
func ListAchievementsHandler(store gamification.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.Achievements(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
