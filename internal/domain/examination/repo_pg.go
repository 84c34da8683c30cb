package examination

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osteoclinic/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repoPG struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a PostgreSQL-backed examination repository.
func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const examCols = `id, patient_id, therapist_id, date, reason, reason_description,
	orl, visceral, pulmo, uro_gyneco, periphery, general_state,
	medical_examination, diagnosis, treatments, conclusion,
	type, status, status_reason, invoice_id, created_at, updated_at`

func scanExamination(row pgx.Row) (*Examination, error) {
	var e Examination
	err := row.Scan(
		&e.ID, &e.PatientID, &e.TherapistID, &e.Date, &e.Reason, &e.ReasonDescription,
		&e.ORL, &e.Visceral, &e.Pulmo, &e.UroGyneco, &e.Periphery, &e.GeneralState,
		&e.MedicalExamination, &e.Diagnosis, &e.Treatments, &e.Conclusion,
		&e.Type, &e.Status, &e.StatusReason, &e.InvoiceID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repoPG) Create(ctx context.Context, exam *Examination) error {
	if exam.ID == uuid.Nil {
		exam.ID = uuid.New()
	}
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO examinations (
			id, patient_id, therapist_id, date, reason, reason_description,
			orl, visceral, pulmo, uro_gyneco, periphery, general_state,
			medical_examination, diagnosis, treatments, conclusion,
			type, status, status_reason, invoice_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		RETURNING created_at, updated_at`,
		exam.ID, exam.PatientID, exam.TherapistID, exam.Date, exam.Reason, exam.ReasonDescription,
		exam.ORL, exam.Visceral, exam.Pulmo, exam.UroGyneco, exam.Periphery, exam.GeneralState,
		exam.MedicalExamination, exam.Diagnosis, exam.Treatments, exam.Conclusion,
		exam.Type, exam.Status, exam.StatusReason, exam.InvoiceID,
	)
	if err := row.Scan(&exam.CreatedAt, &exam.UpdatedAt); err != nil {
		return fmt.Errorf("insert examination: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Examination, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+examCols+` FROM examinations WHERE id = $1`, id)
	exam, err := scanExamination(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("examination %s not found", id)
		}
		return nil, fmt.Errorf("get examination: %w", err)
	}
	return exam, nil
}

func (r *repoPG) Update(ctx context.Context, exam *Examination) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE examinations SET
			therapist_id = $2, date = $3, reason = $4, reason_description = $5,
			orl = $6, visceral = $7, pulmo = $8, uro_gyneco = $9, periphery = $10,
			general_state = $11, medical_examination = $12, diagnosis = $13,
			treatments = $14, conclusion = $15, type = $16, updated_at = now()
		WHERE id = $1`,
		exam.ID, exam.TherapistID, exam.Date, exam.Reason, exam.ReasonDescription,
		exam.ORL, exam.Visceral, exam.Pulmo, exam.UroGyneco, exam.Periphery,
		exam.GeneralState, exam.MedicalExamination, exam.Diagnosis,
		exam.Treatments, exam.Conclusion, exam.Type,
	)
	if err != nil {
		return fmt.Errorf("update examination: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("examination %s not found", exam.ID)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Examination, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM examinations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count examinations: %w", err)
	}

	rows, err := c.Query(ctx, `
		SELECT `+examCols+` FROM examinations
		ORDER BY date DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list examinations: %w", err)
	}
	defer rows.Close()

	var exams []*Examination
	for rows.Next() {
		exam, err := scanExamination(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan examination: %w", err)
		}
		exams = append(exams, exam)
	}
	return exams, total, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Examination, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+examCols+` FROM examinations
		WHERE patient_id = $1
		ORDER BY date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient examinations: %w", err)
	}
	defer rows.Close()

	var exams []*Examination
	for rows.Next() {
		exam, err := scanExamination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan examination: %w", err)
		}
		exams = append(exams, exam)
	}
	return exams, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status int16, statusReason *string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE examinations SET status = $2, status_reason = $3, updated_at = now()
		WHERE id = $1`, id, status, statusReason)
	if err != nil {
		return fmt.Errorf("update examination status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("examination %s not found", id)
	}
	return nil
}

func (r *repoPG) LinkInvoice(ctx context.Context, id uuid.UUID, invoiceID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE examinations SET invoice_id = $2, updated_at = now()
		WHERE id = $1`, id, invoiceID)
	if err != nil {
		return fmt.Errorf("link examination invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("examination %s not found", id)
	}
	return nil
}

func (r *repoPG) AddComment(ctx context.Context, comment *Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO examination_comments (id, examination_id, user_id, date, comment)
		VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.ExaminationID, comment.UserID, comment.Date, comment.Comment,
	)
	if err != nil {
		return fmt.Errorf("insert examination comment: %w", err)
	}
	return nil
}

func (r *repoPG) ListComments(ctx context.Context, examinationID uuid.UUID) ([]*Comment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, examination_id, user_id, date, comment
		FROM examination_comments
		WHERE examination_id = $1
		ORDER BY date DESC`, examinationID)
	if err != nil {
		return nil, fmt.Errorf("list examination comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.ExaminationID, &cm.UserID, &cm.Date, &cm.Comment); err != nil {
			return nil, fmt.Errorf("scan examination comment: %w", err)
		}
		comments = append(comments, &cm)
	}
	return comments, rows.Err()
}
