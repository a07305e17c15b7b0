package patient

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"telemed-ai/internal/errs"
)

// Store looks up patient records by opaque identifier. Reads only; safe for
// concurrent use.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
}

type postgresStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	query := `SELECT id, full_name, profile, history, status FROM patients WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)

	var rec Record
	var profileJSON, historyJSON, statusJSON []byte

	err := row.Scan(&rec.ID, &rec.FullName, &profileJSON, &historyJSON, &statusJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errs.New(errs.KindNotFound, "patient record not found")
		}
		return nil, errs.Wrap(errs.KindExternalService, err, "query patient")
	}

	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &rec.Profile); err != nil {
			return nil, errs.Wrap(errs.KindExternalService, err, "unmarshal profile")
		}
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &rec.History); err != nil {
			return nil, errs.Wrap(errs.KindExternalService, err, "unmarshal history")
		}
	}
	if len(statusJSON) > 0 {
		if err := json.Unmarshal(statusJSON, &rec.Status); err != nil {
			return nil, errs.Wrap(errs.KindExternalService, err, "unmarshal status")
		}
	}

	return &rec, nil
}
