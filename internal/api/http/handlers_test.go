package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/examlane/examlane/internal/api/http"
	"github.com/examlane/examlane/internal/exam"
)

func newTestRouter(store exam.Store) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(ar chi.Router) {
		ar.Post("/create-exam", api.CreateExamHandler(store))
		ar.Get("/exam/{examID}", api.GetExamHandler(store))
		ar.Post("/submit/{examID}", api.SubmitExamHandler(store))
		ar.Post("/check/{examID}", api.CheckStatusHandler(store))
		ar.Get("/submissions/{examID}", api.ListSubmissionsHandler(store))
		ar.Post("/grade/{submissionID}", api.SaveGradeHandler(store))
		ar.Get("/exams", api.ListExamsHandler(store))
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCreateExamValidation(t *testing.T) {
	h := newTestRouter(exam.NewInMemoryStore())

	rec := doJSON(t, h, "POST", "/api/create-exam", map[string]any{"title": "no questions"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing questions: status %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, "POST", "/api/create-exam", map[string]any{
		"title": "bad type",
		"questions": []map[string]any{
			{"text": "Q", "type": "Essay", "maxMarks": 5},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad question type: status %d, want 400", rec.Code)
	}
}

func TestGetExamNotFound(t *testing.T) {
	h := newTestRouter(exam.NewInMemoryStore())
	rec := doJSON(t, h, "GET", "/api/exam/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

// Walks the whole lifecycle the UIs drive: author, take, duplicate reject,
// grade, check result.
func TestExamLifecycleOverHTTP(t *testing.T) {
	h := newTestRouter(exam.NewInMemoryStore())

	rec := doJSON(t, h, "POST", "/api/create-exam", map[string]any{
		"title":     "Midterm",
		"subject":   "Physics",
		"teacherId": "t1",
		"questions": []map[string]any{
			{"text": "Pick", "type": "MCQ", "options": "a,b,c", "maxMarks": 5},
			{"text": "Explain", "type": "Text", "maxMarks": 10},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[map[string]string](t, rec)
	examID := created["id"]
	if examID == "" {
		t.Fatalf("no id in %v", created)
	}

	rec = doJSON(t, h, "GET", "/api/exam/"+examID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	got := decode[exam.Exam](t, rec)
	if got.TotalMarks != 15 || got.Subject != "Physics" {
		t.Fatalf("unexpected exam: %+v", got)
	}

	rec = doJSON(t, h, "POST", "/api/submit/"+examID, map[string]any{
		"studentName": "A",
		"regNumber":   "1",
		"answers":     map[string]string{"0": "a", "1": "long answer"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "POST", "/api/submit/"+examID, map[string]any{
		"studentName": "A", "regNumber": "1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate submit: status %d, want 400", rec.Code)
	}
	if body := rec.Body.String(); !bytes.Contains([]byte(body), []byte("Already submitted")) {
		t.Fatalf("duplicate submit body: %q", body)
	}

	// status before grading
	rec = doJSON(t, h, "POST", "/api/check/"+examID, map[string]any{"regNumber": "1"})
	status := decode[map[string]any](t, rec)
	if status["found"] != true || status["graded"] != false || status["score"].(float64) != 0 {
		t.Fatalf("pre-grade status: %v", status)
	}

	// find the submission id via the grading list
	rec = doJSON(t, h, "GET", "/api/submissions/"+examID, nil)
	subs := decode[[]exam.Submission](t, rec)
	if len(subs) != 1 {
		t.Fatalf("submissions = %d, want 1", len(subs))
	}

	rec = doJSON(t, h, "POST", "/api/grade/"+subs[0].ID, map[string]any{
		"marks":      map[string]int{"0": 5, "1": 7},
		"totalScore": 999, // ignored: score is recomputed server-side
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("grade: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "POST", "/api/check/"+examID, map[string]any{"regNumber": "1"})
	status = decode[map[string]any](t, rec)
	if status["graded"] != true || status["score"].(float64) != 12 {
		t.Fatalf("post-grade status: %v", status)
	}
	marks := status["marks"].(map[string]any)
	if marks["0"].(float64) != 5 || marks["1"].(float64) != 7 {
		t.Fatalf("post-grade marks: %v", marks)
	}

	// unknown student
	rec = doJSON(t, h, "POST", "/api/check/"+examID, map[string]any{"regNumber": "999"})
	status = decode[map[string]any](t, rec)
	if status["found"] != false {
		t.Fatalf("unknown regNumber status: %v", status)
	}
}

func TestGradeValidation(t *testing.T) {
	store := exam.NewInMemoryStore()
	h := newTestRouter(store)

	rec := doJSON(t, h, "POST", "/api/create-exam", map[string]any{
		"title": "Quiz",
		"questions": []map[string]any{
			{"text": "Q", "type": "Text", "maxMarks": 5},
		},
	})
	examID := decode[map[string]string](t, rec)["id"]

	rec = doJSON(t, h, "POST", "/api/submit/"+examID, map[string]any{
		"studentName": "A", "regNumber": "1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d", rec.Code)
	}
	rec = doJSON(t, h, "GET", "/api/submissions/"+examID, nil)
	subID := decode[[]exam.Submission](t, rec)[0].ID

	// mark above the question max
	rec = doJSON(t, h, "POST", "/api/grade/"+subID, map[string]any{
		"marks": map[string]int{"0": 6},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("over-max mark: status %d, want 400", rec.Code)
	}

	// unknown question index
	rec = doJSON(t, h, "POST", "/api/grade/"+subID, map[string]any{
		"marks": map[string]int{"7": 1},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad index: status %d, want 400", rec.Code)
	}

	// unknown submission
	rec = doJSON(t, h, "POST", "/api/grade/missing", map[string]any{
		"marks": map[string]int{"0": 1},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing submission: status %d, want 404", rec.Code)
	}
}

func TestListExamsFilter(t *testing.T) {
	h := newTestRouter(exam.NewInMemoryStore())

	for _, tc := range []struct{ title, teacher string }{
		{"one", "t1"}, {"two", "t2"}, {"three", "t1"},
	} {
		rec := doJSON(t, h, "POST", "/api/create-exam", map[string]any{
			"title":     tc.title,
			"teacherId": tc.teacher,
			"questions": []map[string]any{{"text": "Q", "type": "Text", "maxMarks": 1}},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("create %s: %d", tc.title, rec.Code)
		}
	}

	rec := doJSON(t, h, "GET", "/api/exams", nil)
	if n := len(decode[[]exam.Exam](t, rec)); n != 3 {
		t.Fatalf("unfiltered = %d, want 3", n)
	}

	rec = doJSON(t, h, "GET", "/api/exams?teacherId=t1", nil)
	mine := decode[[]exam.Exam](t, rec)
	if len(mine) != 2 {
		t.Fatalf("filtered = %d, want 2", len(mine))
	}
	if mine[0].Title != "three" || mine[1].Title != "one" {
		t.Fatalf("bad order: %s, %s", mine[0].Title, mine[1].Title)
	}
}
