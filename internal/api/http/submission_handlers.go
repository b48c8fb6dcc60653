package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/examlane/examlane/internal/exam"
)

type submitReq struct {
	StudentName string            `json:"studentName" validate:"required"`
	RegNumber   string            `json:"regNumber" validate:"required"`
	Answers     map[string]string `json:"answers"`
}

// POST /api/submit/{examID}
func SubmitExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		var req submitReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		_, err := store.CreateSubmission(r.Context(), exam.Submission{
			ExamID:      examID,
			StudentName: req.StudentName,
			RegNumber:   req.RegNumber,
			Answers:     req.Answers,
		})
		if err != nil {
			switch {
			case errors.Is(err, exam.ErrAlreadySubmitted):
				http.Error(w, "Already submitted", http.StatusBadRequest)
			case errors.Is(err, exam.ErrExamNotFound):
				http.Error(w, "Exam not found", http.StatusNotFound)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Submission received"})
	}
}

type checkReq struct {
	RegNumber string `json:"regNumber" validate:"required"`
}

type checkResp struct {
	Found   bool              `json:"found"`
	Graded  bool              `json:"graded"`
	Score   int               `json:"score"`
	Marks   map[string]int    `json:"marks"`
	Answers map[string]string `json:"answers"`
}

// POST /api/check/{examID}
//
// The exam-taking view polls this by hand ("check again"); not-found is a
// normal answer, not an error.
func CheckStatusHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		var req checkReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		sub, err := store.FindSubmission(r.Context(), examID, req.RegNumber)
		if err != nil {
			if errors.Is(err, exam.ErrSubmissionNotFound) {
				_ = json.NewEncoder(w).Encode(map[string]bool{"found": false})
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		marks := sub.Marks
		if marks == nil {
			marks = map[string]int{}
		}
		_ = json.NewEncoder(w).Encode(checkResp{
			Found:   true,
			Graded:  sub.IsGraded,
			Score:   sub.Score,
			Marks:   marks,
			Answers: sub.Answers,
		})
	}
}

// GET /api/submissions/{examID}
func ListSubmissionsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		list, err := store.ListSubmissions(r.Context(), examID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}
