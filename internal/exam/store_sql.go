package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	applyCreateDefaults(&e, uuid.NewString(), time.Now())
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return Exam{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams (id,title,subject,teacher_id,questions_json,total_marks,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.Title, e.Subject, e.TeacherID, string(qj), e.TotalMarks, e.CreatedAt.UnixNano())
	if err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,subject,teacher_id,questions_json,total_marks,created_at FROM exams WHERE id=$1`, id)
	return scanExam(row)
}

func (s *SQLStore) ListExams(ctx context.Context, opts ListOpts) ([]Exam, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if opts.TeacherID == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT id,title,subject,teacher_id,questions_json,total_marks,created_at
			FROM exams ORDER BY created_at DESC`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT id,title,subject,teacher_id,questions_json,total_marks,created_at
			FROM exams WHERE teacher_id=$1 ORDER BY created_at DESC`, opts.TeacherID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	// ensure exam exists
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, sub.ExamID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrExamNotFound
		}
		return Submission{}, err
	}

	sub.ID = uuid.NewString()
	sub.Score = 0
	sub.Marks = nil
	sub.IsGraded = false
	sub.SubmittedAt = NewTimestamp(time.Now())
	if sub.Answers == nil {
		sub.Answers = map[string]string{}
	}
	aj, err := json.Marshal(sub.Answers)
	if err != nil {
		return Submission{}, err
	}

	// The unique index on (exam_id, reg_number) makes the duplicate guard a
	// single conditional insert, so two racing submissions cannot both land.
	_, err = s.db.ExecContext(ctx, `INSERT INTO submissions (id,exam_id,student_name,reg_number,answers_json,score,is_graded,submitted_at)
		VALUES ($1,$2,$3,$4,$5,0,FALSE,$6)`,
		sub.ID, sub.ExamID, sub.StudentName, sub.RegNumber, string(aj), sub.SubmittedAt.UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return Submission{}, ErrAlreadySubmitted
		}
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,exam_id,student_name,reg_number,answers_json,score,marks_json,is_graded,submitted_at
		FROM submissions WHERE id=$1`, id)
	return scanSubmission(row)
}

func (s *SQLStore) FindSubmission(ctx context.Context, examID, regNumber string) (Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,exam_id,student_name,reg_number,answers_json,score,marks_json,is_graded,submitted_at
		FROM submissions WHERE exam_id=$1 AND reg_number=$2`, examID, regNumber)
	return scanSubmission(row)
}

func (s *SQLStore) ListSubmissions(ctx context.Context, examID string) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,exam_id,student_name,reg_number,answers_json,score,marks_json,is_graded,submitted_at
		FROM submissions WHERE exam_id=$1 ORDER BY submitted_at`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveGrade(ctx context.Context, submissionID string, marks map[string]int, score int) error {
	if marks == nil {
		marks = map[string]int{}
	}
	mj, err := json.Marshal(marks)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE submissions SET marks_json=$1, score=$2, is_graded=TRUE WHERE id=$3`,
		string(mj), score, submissionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExam(row scanner) (Exam, error) {
	var (
		e         Exam
		qjson     string
		createdAt int64
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Subject, &e.TeacherID, &qjson, &e.TotalMarks, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrExamNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exam{}, err
	}
	e.CreatedAt = timestampFromUnixNano(createdAt)
	return e, nil
}

func scanSubmission(row scanner) (Submission, error) {
	var (
		sub         Submission
		ajson       string
		mjson       sql.NullString
		submittedAt int64
	)
	if err := row.Scan(&sub.ID, &sub.ExamID, &sub.StudentName, &sub.RegNumber, &ajson, &sub.Score, &mjson, &sub.IsGraded, &submittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrSubmissionNotFound
		}
		return Submission{}, err
	}
	if err := json.Unmarshal([]byte(ajson), &sub.Answers); err != nil {
		return Submission{}, err
	}
	if mjson.Valid && mjson.String != "" {
		if err := json.Unmarshal([]byte(mjson.String), &sub.Marks); err != nil {
			return Submission{}, err
		}
	}
	sub.SubmittedAt = timestampFromUnixNano(submittedAt)
	return sub, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// modernc sqlite reports constraint failures as plain error strings
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
