package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/repository"
)

type conceptRepository struct {
	db DB
}

// NewConceptRepository returns a Postgres-backed ConceptRepository.
func NewConceptRepository(db DB) repository.ConceptRepository {
	return &conceptRepository{db: db}
}

const conceptColumns = `id, problem, status, evaluation, idea_id, anonymized, version, created_at, updated_at`

func (r *conceptRepository) Add(ctx context.Context, concept *domain.Concept) error {
	if concept == nil {
		return domain.ErrInvalidPayload
	}
	state := concept.State()
	evaluation, err := marshalOptional(state.Evaluation)
	if err != nil {
		return fmt.Errorf("encode evaluation: %w", err)
	}

	const query = `
	INSERT INTO concepts (` + conceptColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
	ON CONFLICT (id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query,
		state.ID,
		state.Problem,
		string(state.Status),
		evaluation,
		state.IdeaID,
		state.Anonymized,
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *conceptRepository) GetByID(ctx context.Context, id string) (*domain.Concept, error) {
	const query = `SELECT ` + conceptColumns + ` FROM concepts WHERE id = $1`
	state, err := scanConcept(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return domain.RestoreConcept(state), nil
}

func (r *conceptRepository) Update(ctx context.Context, id string, mutate repository.ConceptMutator) (*domain.Concept, error) {
	loaded, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	base := loaded.Version()
	if err := mutate(loaded); err != nil {
		return nil, err
	}
	state := loaded.State()
	evaluation, err := marshalOptional(state.Evaluation)
	if err != nil {
		return nil, fmt.Errorf("encode evaluation: %w", err)
	}

	const query = `
	UPDATE concepts
	SET problem = $2,
		status = $3,
		evaluation = $4,
		idea_id = $5,
		anonymized = $6,
		updated_at = $7,
		version = version + 1
	WHERE id = $1 AND version = $8
	`
	tag, err := r.db.Exec(ctx, query,
		state.ID,
		state.Problem,
		string(state.Status),
		evaluation,
		state.IdeaID,
		state.Anonymized,
		state.UpdatedAt,
		base,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrVersionConflict
	}
	state.Version = base + 1
	return domain.RestoreConcept(state), nil
}

func scanConcept(row scanner) (domain.ConceptState, error) {
	var (
		state      domain.ConceptState
		status     string
		evaluation []byte
	)
	if err := row.Scan(
		&state.ID,
		&state.Problem,
		&status,
		&evaluation,
		&state.IdeaID,
		&state.Anonymized,
		&state.Version,
		&state.CreatedAt,
		&state.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ConceptState{}, domain.ErrConceptNotFound
		}
		return domain.ConceptState{}, err
	}
	state.Status = domain.ConceptStatus(status)

	ev, err := unmarshalOptional[domain.Evaluation](evaluation)
	if err != nil {
		return domain.ConceptState{}, fmt.Errorf("decode evaluation of %s: %w", state.ID, err)
	}
	state.Evaluation = ev
	return state, nil
}
