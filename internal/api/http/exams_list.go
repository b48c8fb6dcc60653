package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/examlane/examlane/internal/exam"
)

// GET /api/exams?teacherId=
func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID := strings.TrimSpace(r.URL.Query().Get("teacherId"))
		list, err := store.ListExams(r.Context(), exam.ListOpts{TeacherID: teacherID})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}
