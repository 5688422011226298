package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lingopath/lingopath-lms/internal/assessment"
	authmw "github.com/lingopath/lingopath-lms/internal/auth/middleware"
	"github.com/lingopath/lingopath-lms/internal/placement"
)

// GET /placement/active — the test learners sit, answer keys stripped.
func GetActivePlacementHandler(store placement.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.ActiveTest(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t.Sanitized())
	}
}

// GET /placement/eligibility — the gate state for the caller against the
// active test, so the client can show "locked" before a doomed submission.
func PlacementEligibilityHandler(store placement.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		t, err := store.ActiveTest(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		prior, err := store.LatestResult(r.Context(), userID, t.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		state := placement.GateStateFor(prior)
		writeJSON(w, http.StatusOK, map[string]any{
			"state":       state.String(),
			"can_attempt": state != placement.AttemptedLocked,
		})
	}
}

// POST /placement/submit
func SubmitPlacementHandler(svc *placement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub assessment.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		res, err := svc.Submit(r.Context(), userID, sub)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// POST /placement/tests — author a test (inactive until activated).
func CreatePlacementTestHandler(store placement.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t placement.Test
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := assessment.ValidateQuestions(t.Questions); err != nil {
			writeError(w, err)
			return
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.Active = false
		t.CreatedAt = time.Now().Unix()
		if err := store.PutTest(r.Context(), t); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": t.ID})
	}
}

// POST /placement/tests/{testID}/activate — swaps the single active test.
func ActivatePlacementTestHandler(store placement.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")
		if err := store.Activate(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /placement/tests/{testID} — full test with keys, for authors.
func GetPlacementTestHandler(store placement.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// POST /placement/results/{resultID}/allow-retake
func AllowRetakeHandler(svc *placement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.AllowRetake(r.Context(), chi.URLParam(r, "resultID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /placement/results/{userID} — owner or result:view-all (rbac enforces).
func PlacementResultsHandler(store placement.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := store.ResultsByUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}
