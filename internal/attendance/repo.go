package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

const recordColumns = `id, student_id, timestamp, status, image_url,
	face_stress_score, questionnaire_stress_score, final_stress_score,
	questionnaire_response, face_analysis_data`

// Insert appends one record to the ledger and returns it with the assigned
// id and timestamp. This is the only write the ledger supports.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusPresent
	}

	questionnaire, err := json.Marshal(rec.QuestionnaireResponse)
	if err != nil {
		return Record{}, err
	}
	faceData, err := json.Marshal(rec.FaceAnalysisData)
	if err != nil {
		return Record{}, err
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records
			(student_id, timestamp, status, image_url,
			 face_stress_score, questionnaire_stress_score, final_stress_score,
			 questionnaire_response, face_analysis_data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, rec.StudentID, rec.Timestamp, rec.Status, rec.ImageURL,
		rec.FaceStressScore, rec.QuestionnaireStressScore, rec.FinalStressScore,
		questionnaire, faceData)
	if err := row.Scan(&rec.ID); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ListByStudent returns a student's records, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID int64) ([]Record, error) {
	return r.list(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE student_id = $1
		ORDER BY timestamp DESC
	`, studentID)
}

// ListAll returns every record, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Record, error) {
	return r.list(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		ORDER BY timestamp DESC
	`)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	var questionnaire, faceData []byte
	if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Timestamp, &rec.Status, &rec.ImageURL,
		&rec.FaceStressScore, &rec.QuestionnaireStressScore, &rec.FinalStressScore,
		&questionnaire, &faceData); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(questionnaire, &rec.QuestionnaireResponse); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(faceData, &rec.FaceAnalysisData); err != nil {
		return Record{}, err
	}
	return rec, nil
}
