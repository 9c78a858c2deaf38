package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/repository"
)

type ideaRepository struct {
	db DB
}

// NewIdeaRepository returns a Postgres-backed IdeaRepository. Target audiences and
// social media campaigns live in their own tables and are written in the idea's transaction.
func NewIdeaRepository(db DB) repository.IdeaRepository {
	return &ideaRepository{db: db}
}

const (
	ideaColumns     = `id, concept_id, problem, market_existence, status, value_proposition, competitor_analysis, positioning, version, created_at, updated_at`
	audienceColumns = `id, idea_id, segment, description, challenges, why, pain_points, targeting_strategy`
	campaignColumns = `short_form, long_form, video, created_at`
)

func (r *ideaRepository) Add(ctx context.Context, idea *domain.Idea) error {
	if idea == nil {
		return domain.ErrInvalidPayload
	}
	state := idea.State()
	vp, ca, pos, err := encodeIdeaDocuments(state)
	if err != nil {
		return err
	}

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		const query = `
		INSERT INTO ideas (` + ideaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10)
		ON CONFLICT DO NOTHING
		`
		tag, err := tx.Exec(ctx, query,
			state.ID,
			state.ConceptID,
			state.Problem,
			state.MarketExistence,
			string(state.Status),
			vp,
			ca,
			pos,
			state.CreatedAt,
			state.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAlreadyExists
		}
		if err := upsertAudiences(ctx, tx, state.TargetAudiences); err != nil {
			return err
		}
		return insertCampaigns(ctx, tx, state.ID, state.SocialMediaCampaigns)
	})
}

func (r *ideaRepository) GetByID(ctx context.Context, id string) (*domain.Idea, error) {
	state, err := loadIdea(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return domain.RestoreIdea(state), nil
}

// GetByConceptID finds the idea reserved for a concept; concept_id is unique.
func (r *ideaRepository) GetByConceptID(ctx context.Context, conceptID string) (*domain.Idea, error) {
	var id string
	if err := r.db.QueryRow(ctx, `SELECT id FROM ideas WHERE concept_id = $1`, conceptID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdeaNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ideaRepository) Update(ctx context.Context, id string, mutate repository.IdeaMutator) (*domain.Idea, error) {
	loaded, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	base := loaded.Version()
	if err := mutate(loaded); err != nil {
		return nil, err
	}
	state := loaded.State()
	vp, ca, pos, err := encodeIdeaDocuments(state)
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, r.db, func(tx pgx.Tx) error {
		const query = `
		UPDATE ideas
		SET status = $2,
			value_proposition = $3,
			competitor_analysis = $4,
			positioning = $5,
			updated_at = $6,
			version = version + 1
		WHERE id = $1 AND version = $7
		`
		tag, err := tx.Exec(ctx, query, state.ID, string(state.Status), vp, ca, pos, state.UpdatedAt, base)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrVersionConflict
		}
		if err := upsertAudiences(ctx, tx, state.TargetAudiences); err != nil {
			return err
		}
		return insertCampaigns(ctx, tx, state.ID, state.SocialMediaCampaigns)
	})
	if err != nil {
		return nil, err
	}
	state.Version = base + 1
	return domain.RestoreIdea(state), nil
}

// GetTargetAudiencesByIdeaID relies on every idea owning at least one audience.
func (r *ideaRepository) GetTargetAudiencesByIdeaID(ctx context.Context, ideaID string) ([]domain.TargetAudience, error) {
	states, err := loadAudiences(ctx, r.db, ideaID)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, domain.ErrIdeaNotFound
	}
	out := make([]domain.TargetAudience, len(states))
	for i, s := range states {
		out[i] = domain.RestoreTargetAudience(s)
	}
	return out, nil
}

func (r *ideaRepository) GetSocialMediaCampaignsByIdeaID(ctx context.Context, ideaID string) (*domain.SocialMediaCampaigns, error) {
	return loadCampaigns(ctx, r.db, ideaID)
}

func loadIdea(ctx context.Context, q querier, id string) (domain.IdeaState, error) {
	const query = `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1`
	var (
		state       domain.IdeaState
		status      string
		vp, ca, pos []byte
	)
	if err := q.QueryRow(ctx, query, id).Scan(
		&state.ID,
		&state.ConceptID,
		&state.Problem,
		&state.MarketExistence,
		&status,
		&vp,
		&ca,
		&pos,
		&state.Version,
		&state.CreatedAt,
		&state.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.IdeaState{}, domain.ErrIdeaNotFound
		}
		return domain.IdeaState{}, err
	}
	state.Status = domain.IdeaStatus(status)

	var err error
	if state.ValueProposition, err = unmarshalOptional[domain.ValueProposition](vp); err != nil {
		return domain.IdeaState{}, fmt.Errorf("decode value proposition of %s: %w", id, err)
	}
	if state.CompetitorAnalysis, err = unmarshalOptional[domain.CompetitorAnalysis](ca); err != nil {
		return domain.IdeaState{}, fmt.Errorf("decode competitor analysis of %s: %w", id, err)
	}
	if state.Positioning, err = unmarshalOptional[domain.Positioning](pos); err != nil {
		return domain.IdeaState{}, fmt.Errorf("decode positioning of %s: %w", id, err)
	}
	if state.TargetAudiences, err = loadAudiences(ctx, q, id); err != nil {
		return domain.IdeaState{}, err
	}
	if state.SocialMediaCampaigns, err = loadCampaigns(ctx, q, id); err != nil {
		return domain.IdeaState{}, err
	}
	return state, nil
}

func loadAudiences(ctx context.Context, q querier, ideaID string) ([]domain.TargetAudienceState, error) {
	const query = `SELECT ` + audienceColumns + ` FROM target_audiences WHERE idea_id = $1 ORDER BY position`
	rows, err := q.Query(ctx, query, ideaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audiences []domain.TargetAudienceState
	for rows.Next() {
		audience, err := scanAudience(rows)
		if err != nil {
			return nil, err
		}
		audiences = append(audiences, audience)
	}
	return audiences, rows.Err()
}

func scanAudience(row scanner) (domain.TargetAudienceState, error) {
	var (
		a                      domain.TargetAudienceState
		challenges, painPoints []byte
	)
	if err := row.Scan(
		&a.ID,
		&a.IdeaID,
		&a.Segment,
		&a.Description,
		&challenges,
		&a.Why,
		&painPoints,
		&a.TargetingStrategy,
	); err != nil {
		return domain.TargetAudienceState{}, err
	}
	var err error
	if a.Challenges, err = unmarshalSlice[string](challenges); err != nil {
		return domain.TargetAudienceState{}, fmt.Errorf("decode challenges of %s: %w", a.ID, err)
	}
	if a.PainPoints, err = unmarshalSlice[string](painPoints); err != nil {
		return domain.TargetAudienceState{}, fmt.Errorf("decode pain points of %s: %w", a.ID, err)
	}
	return a, nil
}

func loadCampaigns(ctx context.Context, q querier, ideaID string) (*domain.SocialMediaCampaigns, error) {
	const query = `SELECT ` + campaignColumns + ` FROM social_media_campaigns WHERE idea_id = $1`
	var (
		c                          domain.SocialMediaCampaigns
		shortForm, longForm, video []byte
	)
	if err := q.QueryRow(ctx, query, ideaID).Scan(&shortForm, &longForm, &video, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var err error
	if c.ShortForm, err = unmarshalSlice[domain.ShortFormContent](shortForm); err != nil {
		return nil, fmt.Errorf("decode short form content of %s: %w", ideaID, err)
	}
	if c.LongForm, err = unmarshalSlice[domain.LongFormContent](longForm); err != nil {
		return nil, fmt.Errorf("decode long form content of %s: %w", ideaID, err)
	}
	if c.Video, err = unmarshalSlice[domain.VideoContent](video); err != nil {
		return nil, fmt.Errorf("decode video content of %s: %w", ideaID, err)
	}
	return &c, nil
}

func upsertAudiences(ctx context.Context, tx pgx.Tx, audiences []domain.TargetAudienceState) error {
	const query = `
	INSERT INTO target_audiences (id, idea_id, position, segment, description, challenges, why, pain_points, targeting_strategy)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE
	SET why = EXCLUDED.why,
		pain_points = EXCLUDED.pain_points,
		targeting_strategy = EXCLUDED.targeting_strategy
	`
	for position, a := range audiences {
		challenges, err := marshalJSON(stringsOrEmpty(a.Challenges))
		if err != nil {
			return err
		}
		painPoints, err := marshalJSON(stringsOrEmpty(a.PainPoints))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query,
			a.ID,
			a.IdeaID,
			position,
			a.Segment,
			a.Description,
			challenges,
			a.Why,
			painPoints,
			a.TargetingStrategy,
		); err != nil {
			return fmt.Errorf("store target audience %s: %w", a.ID, err)
		}
	}
	return nil
}

// insertCampaigns never overwrites; campaigns are written once per idea.
func insertCampaigns(ctx context.Context, tx pgx.Tx, ideaID string, c *domain.SocialMediaCampaigns) error {
	if c == nil {
		return nil
	}
	shortForm, err := marshalJSON(c.ShortForm)
	if err != nil {
		return err
	}
	longForm, err := marshalJSON(c.LongForm)
	if err != nil {
		return err
	}
	video, err := marshalJSON(c.Video)
	if err != nil {
		return err
	}
	const query = `
	INSERT INTO social_media_campaigns (idea_id, ` + campaignColumns + `)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (idea_id) DO NOTHING
	`
	_, err = tx.Exec(ctx, query, ideaID, shortForm, longForm, video, c.CreatedAt)
	return err
}

func encodeIdeaDocuments(state domain.IdeaState) (vp, ca, pos []byte, err error) {
	if vp, err = marshalOptional(state.ValueProposition); err != nil {
		return nil, nil, nil, fmt.Errorf("encode value proposition: %w", err)
	}
	if ca, err = marshalOptional(state.CompetitorAnalysis); err != nil {
		return nil, nil, nil, fmt.Errorf("encode competitor analysis: %w", err)
	}
	if pos, err = marshalOptional(state.Positioning); err != nil {
		return nil, nil, nil, fmt.Errorf("encode positioning: %w", err)
	}
	return vp, ca, pos, nil
}
