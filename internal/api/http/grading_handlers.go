package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/examlane/examlane/internal/exam"
)

type gradeReq struct {
	Marks map[string]int `json:"marks" validate:"required"`
	// TotalScore is what the grading view computed; the stored score is
	// recomputed here so the sum-of-marks invariant holds regardless.
	TotalScore int `json:"totalScore"`
}

// POST /api/grade/{submissionID}
func SaveGradeHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID := chi.URLParam(r, "submissionID")
		var req gradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		sub, err := store.GetSubmission(r.Context(), submissionID)
		if err != nil {
			if errors.Is(err, exam.ErrSubmissionNotFound) {
				http.Error(w, "Submission not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		e, err := store.GetExam(r.Context(), sub.ExamID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := validateMarks(req.Marks, e.Questions); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := store.SaveGrade(r.Context(), submissionID, req.Marks, exam.SumMarks(req.Marks)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Graded successfully"})
	}
}

// validateMarks checks each mark against the question it grades: the key must
// be a valid question index and the value must sit in [0, maxMarks].
func validateMarks(marks map[string]int, questions []exam.Question) error {
	for key, mark := range marks {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(questions) {
			return fmt.Errorf("unknown question index %q", key)
		}
		if mark < 0 {
			return fmt.Errorf("question %d: negative mark", idx)
		}
		if mark > questions[idx].MaxMarks {
			return fmt.Errorf("question %d: mark %d exceeds max %d", idx, mark, questions[idx].MaxMarks)
		}
	}
	return nil
}
