package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/examlane/examlane/internal/exam"
)

var validate = validator.New()

type questionReq struct {
	Text     string `json:"text" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=MCQ Text"`
	Options  string `json:"options"`
	MaxMarks int    `json:"maxMarks" validate:"min=0"`
}

type createExamReq struct {
	Title     string        `json:"title" validate:"required"`
	Subject   string        `json:"subject"`
	TeacherID string        `json:"teacherId"`
	Questions []questionReq `json:"questions" validate:"required,min=1,dive"`
}

// POST /api/create-exam
func CreateExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createExamReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		questions := make([]exam.Question, len(req.Questions))
		for i, q := range req.Questions {
			questions[i] = exam.Question{Text: q.Text, Type: q.Type, Options: q.Options, MaxMarks: q.MaxMarks}
		}
		e, err := store.CreateExam(r.Context(), exam.Exam{
			Title:     req.Title,
			Subject:   req.Subject,
			TeacherID: req.TeacherID,
			Questions: questions,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Exam created", "id": e.ID})
	}
}

// GET /api/exam/{examID}
func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		e, err := store.GetExam(r.Context(), id)
		if err != nil {
			if errors.Is(err, exam.ErrExamNotFound) {
				http.Error(w, "Exam not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(e)
	}
}
