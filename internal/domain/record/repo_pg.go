package record

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinrec/clinrec/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRecordRepoPG(pool *pgxpool.Pool) Repository {
	return &recordRepoPG{pool: pool}
}

func (r *recordRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const recCols = `id, patient_id, visit_date, complaint, doctor, investigation,
	diagnosis, medication, notes, follow_up, document_path, created_at, updated_at`

func (r *recordRepoPG) scanRow(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.VisitDate, &rec.Complaint, &rec.Doctor,
		&rec.Investigation, &rec.Diagnosis, &rec.Medication, &rec.Notes,
		&rec.FollowUp, &rec.DocumentPath, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

// foreign key violation on patient_id
const fkViolation = "23503"

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
		return ErrPatientNotFound
	}
	return err
}

func (r *recordRepoPG) Create(ctx context.Context, rec *Record) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_records (patient_id, visit_date, complaint, doctor,
			investigation, diagnosis, medication, notes, follow_up, document_path)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`,
		rec.PatientID, rec.VisitDate, rec.Complaint, rec.Doctor,
		rec.Investigation, rec.Diagnosis, rec.Medication, rec.Notes,
		rec.FollowUp, rec.DocumentPath).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	return translateErr(err)
}

func (r *recordRepoPG) GetByID(ctx context.Context, id int64) (*Record, error) {
	rec, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+recCols+` FROM health_records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recordRepoPG) Update(ctx context.Context, rec *Record) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE health_records SET visit_date=$2, complaint=$3, doctor=$4,
			investigation=$5, diagnosis=$6, medication=$7, notes=$8,
			follow_up=$9, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.VisitDate, rec.Complaint, rec.Doctor,
		rec.Investigation, rec.Diagnosis, rec.Medication, rec.Notes, rec.FollowUp)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *recordRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM health_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recCols+` FROM health_records WHERE patient_id = $1 ORDER BY id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func (r *recordRepoPG) SetDocumentPath(ctx context.Context, id int64, path string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE health_records SET document_path = $2, updated_at = NOW() WHERE id = $1`, id, path)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}
