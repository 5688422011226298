package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lingopath/lingopath-lms/internal/assessment"
	authmw "github.com/lingopath/lingopath-lms/internal/auth/middleware"
	"github.com/lingopath/lingopath-lms/internal/exercise"
)

// POST /exercises — author an exercise.
func CreateExerciseHandler(store exercise.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ex exercise.Exercise
		if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := assessment.ValidateQuestions(ex.Questions); err != nil {
			writeError(w, err)
			return
		}
		if ex.PassingScore <= 0 || ex.PassingScore > 100 {
			http.Error(w, "passing_score must be in (0,100]", http.StatusBadRequest)
			return
		}
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		ex.CreatedAt = time.Now().Unix()
		if err := store.PutExercise(r.Context(), ex); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": ex.ID})
	}
}

// GET /exercises/{exerciseID} — keys stripped for learners.
func GetExerciseHandler(store exercise.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ex, err := store.GetExercise(r.Context(), chi.URLParam(r, "exerciseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ex.Sanitized())
	}
}

// POST /exercises/{exerciseID}/submit
func SubmitExerciseHandler(svc *exercise.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub assessment.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		res, err := svc.Submit(r.Context(), userID, chi.URLParam(r, "exerciseID"), sub)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /exercises/results/{userID}
func ExerciseResultsHandler(store exercise.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := store.ResultsByUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}
