package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/greyamp/alignops/internal/db"
	"github.com/greyamp/alignops/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests (pgxmock) and the
// candidate bulk importer, which shares the pool with the store.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool exposes the underlying pool for bulk loads.
func (s *PostgresStore) Pool() db.Pool { return s.pool }

const postgresMigration = `
CREATE TABLE IF NOT EXISTS pipelines (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	client_ref  TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS pipeline_stages (
	id              BIGSERIAL PRIMARY KEY,
	pipeline_id     BIGINT NOT NULL REFERENCES pipelines(id) ON DELETE CASCADE,
	name            TEXT NOT NULL,
	stage_order     INTEGER NOT NULL,
	conversion_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	tat_days        INTEGER NOT NULL DEFAULT 0,
	is_special      BOOLEAN NOT NULL DEFAULT FALSE,
	maps_to_status  TEXT NOT NULL DEFAULT '',
	status_flag     TEXT NOT NULL DEFAULT 'Both'
);

CREATE TABLE IF NOT EXISTS staffing_plans (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	client     TEXT NOT NULL,
	owner      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'Active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS plan_roles (
	plan_id          TEXT NOT NULL REFERENCES staffing_plans(id) ON DELETE CASCADE,
	role             TEXT NOT NULL,
	skills           TEXT NOT NULL DEFAULT '',
	target_positions INTEGER NOT NULL DEFAULT 1,
	staffed_by_date  DATE NOT NULL,
	pipeline_id      BIGINT,
	owner            TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (plan_id, role)
);

CREATE TABLE IF NOT EXISTS generated_plans (
	plan_id      TEXT NOT NULL,
	role         TEXT NOT NULL,
	stages       JSONB NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (plan_id, role)
);

CREATE TABLE IF NOT EXISTS candidates (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	role              TEXT NOT NULL DEFAULT '',
	client            TEXT NOT NULL DEFAULT '',
	plan              TEXT NOT NULL DEFAULT '',
	owner             TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT '',
	source            TEXT NOT NULL DEFAULT '',
	status_changed_at TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS status_history (
	id              BIGSERIAL PRIMARY KEY,
	candidate_id    TEXT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
	previous_status TEXT NOT NULL DEFAULT '',
	new_status      TEXT NOT NULL,
	changed_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS actual_overrides (
	plan_id    TEXT NOT NULL,
	role       TEXT NOT NULL,
	stage_name TEXT NOT NULL,
	value      INTEGER NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (plan_id, role, stage_name)
);

CREATE INDEX IF NOT EXISTS idx_stages_pipeline ON pipeline_stages(pipeline_id);
CREATE INDEX IF NOT EXISTS idx_candidates_client_role ON candidates(client, role);
CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status);
CREATE INDEX IF NOT EXISTS idx_history_candidate ON status_history(candidate_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// --- Pipelines ---

func (s *PostgresStore) CreatePipeline(ctx context.Context, p model.Pipeline) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pipelines (name, client_ref, description) VALUES ($1, $2, $3) RETURNING id`,
		p.Name, p.ClientRef, p.Description,
	).Scan(&id)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert pipeline")
	}
	return id, nil
}

func (s *PostgresStore) GetPipeline(ctx context.Context, id int64) (*model.Pipeline, error) {
	var p model.Pipeline
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, client_ref, description, active, created_at FROM pipelines WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.ClientRef, &p.Description, &p.Active, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("pipeline", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get pipeline %d", id)
	}
	return &p, nil
}

func (s *PostgresStore) ListPipelines(ctx context.Context, includeInactive bool) ([]model.Pipeline, error) {
	query := `SELECT id, name, client_ref, description, active, created_at FROM pipelines`
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list pipelines")
	}
	defer rows.Close()

	var out []model.Pipeline
	for rows.Next() {
		var p model.Pipeline
		if err := rows.Scan(&p.ID, &p.Name, &p.ClientRef, &p.Description, &p.Active, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan pipeline")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdatePipeline(ctx context.Context, p model.Pipeline) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pipelines SET name = $1, client_ref = $2, description = $3, active = $4 WHERE id = $5`,
		p.Name, p.ClientRef, p.Description, p.Active, p.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update pipeline %d", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFound("pipeline", p.ID)
	}
	return nil
}

func (s *PostgresStore) DeactivatePipeline(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE pipelines SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: deactivate pipeline %d", id)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFound("pipeline", id)
	}
	return nil
}

// --- Stages ---

func (s *PostgresStore) AddStage(ctx context.Context, st model.Stage) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pipeline_stages (pipeline_id, name, stage_order, conversion_rate, tat_days, is_special, maps_to_status, status_flag)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		st.PipelineID, st.Name, int(st.Order), st.ConversionRate, st.TATDays, st.IsSpecial, st.MapsToStatus, string(st.Flag),
	).Scan(&id)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert stage")
	}
	return id, nil
}

func (s *PostgresStore) GetStage(ctx context.Context, id int64) (*model.Stage, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, pipeline_id, name, stage_order, conversion_rate, tat_days, is_special, maps_to_status, status_flag
		 FROM pipeline_stages WHERE id = $1`, id)
	st, err := scanStage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("stage", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get stage %d", id)
	}
	return st, nil
}

func (s *PostgresStore) ListStages(ctx context.Context, pipelineID int64, includeSpecial bool) ([]model.Stage, error) {
	query := `SELECT id, pipeline_id, name, stage_order, conversion_rate, tat_days, is_special, maps_to_status, status_flag
		FROM pipeline_stages WHERE pipeline_id = $1`
	if !includeSpecial {
		query += ` AND NOT is_special`
	}
	query += ` ORDER BY is_special, stage_order, id`

	rows, err := s.pool.Query(ctx, query, pipelineID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list stages for pipeline %d", pipelineID)
	}
	defer rows.Close()

	var out []model.Stage
	for rows.Next() {
		st, err := scanStage(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan stage")
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateStage(ctx context.Context, st model.Stage) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pipeline_stages SET name = $1, stage_order = $2, conversion_rate = $3, tat_days = $4, is_special = $5, maps_to_status = $6, status_flag = $7
		 WHERE id = $8`,
		st.Name, int(st.Order), st.ConversionRate, st.TATDays, st.IsSpecial, st.MapsToStatus, string(st.Flag), st.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update stage %d", st.ID)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFound("stage", st.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteStage(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM pipeline_stages WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete stage %d", id)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFound("stage", id)
	}
	return nil
}

// --- Staffing plans ---

func (s *PostgresStore) CreatePlan(ctx context.Context, p model.StaffingPlan) error {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO staffing_plans (id, name, client, owner, status, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Client, p.Owner, p.Status, created,
	)
	return eris.Wrap(err, "postgres: insert plan")
}

func (s *PostgresStore) GetPlan(ctx context.Context, id string) (*model.StaffingPlan, error) {
	var p model.StaffingPlan
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, client, owner, status, created_at FROM staffing_plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Client, &p.Owner, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("plan", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get plan %s", id)
	}
	return &p, nil
}

func (s *PostgresStore) ListPlans(ctx context.Context) ([]model.StaffingPlan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, client, owner, status, created_at FROM staffing_plans ORDER BY created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list plans")
	}
	defer rows.Close()

	var out []model.StaffingPlan
	for rows.Next() {
		var p model.StaffingPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Client, &p.Owner, &p.Status, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan plan")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertPlanRole(ctx context.Context, r model.PlanRole) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plan_roles (plan_id, role, skills, target_positions, staffed_by_date, pipeline_id, owner)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (plan_id, role) DO UPDATE SET
			skills = EXCLUDED.skills,
			target_positions = EXCLUDED.target_positions,
			staffed_by_date = EXCLUDED.staffed_by_date,
			pipeline_id = EXCLUDED.pipeline_id,
			owner = EXCLUDED.owner`,
		r.PlanID, r.Role, r.Skills, r.TargetPositions, r.StaffedByDate.Time, r.PipelineID, r.Owner,
	)
	return eris.Wrap(err, "postgres: upsert plan role")
}

func (s *PostgresStore) GetPlanRole(ctx context.Context, planID, role string) (*model.PlanRole, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT plan_id, role, skills, target_positions, staffed_by_date, pipeline_id, owner
		 FROM plan_roles WHERE plan_id = $1 AND role = $2`, planID, role)
	r, err := scanPlanRolePG(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewNotFound("plan role", planID+"/"+role)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get plan role %s/%s", planID, role)
	}
	return r, nil
}

func (s *PostgresStore) ListPlanRoles(ctx context.Context, planID string) ([]model.PlanRole, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT plan_id, role, skills, target_positions, staffed_by_date, pipeline_id, owner
		 FROM plan_roles WHERE plan_id = $1 ORDER BY role`, planID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list plan roles %s", planID)
	}
	defer rows.Close()

	var out []model.PlanRole
	for rows.Next() {
		r, err := scanPlanRolePG(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan plan role")
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeletePlanRole(ctx context.Context, planID, role string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM plan_roles WHERE plan_id = $1 AND role = $2`, planID, role)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete plan role %s/%s", planID, role)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFound("plan role", planID+"/"+role)
	}
	return nil
}

// --- Generated plans ---

func (s *PostgresStore) SaveGeneratedPlan(ctx context.Context, planID, role string, targets []model.StageTarget) error {
	data, err := json.Marshal(targets)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal generated plan")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO generated_plans (plan_id, role, stages, generated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (plan_id, role) DO UPDATE SET stages = EXCLUDED.stages, generated_at = now()`,
		planID, role, data,
	)
	return eris.Wrap(err, "postgres: save generated plan")
}

func (s *PostgresStore) GetGeneratedPlan(ctx context.Context, planID, role string) ([]model.StageTarget, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT stages FROM generated_plans WHERE plan_id = $1 AND role = $2`, planID, role,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get generated plan %s/%s", planID, role)
	}

	var targets []model.StageTarget
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal generated plan")
	}
	return targets, nil
}

// --- Candidates ---

func (s *PostgresStore) UpsertCandidates(ctx context.Context, records []model.CandidateRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(records))
	for i, c := range records {
		created := c.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		rows[i] = []any{c.ID, c.Name, c.Role, c.Client, c.Plan, c.Owner, c.Status, c.Source, c.StatusChangedAt, created}
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "candidates",
		Columns:      []string{"id", "name", "role", "client", "plan", "owner", "status", "source", "status_changed_at", "created_at"},
		ConflictKeys: []string{"id"},
		UpdateCols:   []string{"name", "role", "client", "plan", "owner", "status", "source", "status_changed_at"},
	}, rows)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.CandidateRecord, error) {
	query := `SELECT id, name, role, client, plan, owner, status, source, status_changed_at, created_at
		FROM candidates WHERE TRUE`
	var args []any

	addArg := func(clause string, v any) {
		args = append(args, v)
		query += clause
	}
	if filter.Client != "" {
		addArg(` AND client = $`+itoa(len(args)+1), filter.Client)
	}
	if filter.Plan != "" {
		addArg(` AND plan = $`+itoa(len(args)+1), filter.Plan)
	}
	if filter.Role != "" {
		addArg(` AND role = $`+itoa(len(args)+1), filter.Role)
	}
	if filter.Owner != "" {
		addArg(` AND owner = $`+itoa(len(args)+1), filter.Owner)
	}
	if filter.Status != "" {
		addArg(` AND status = $`+itoa(len(args)+1), filter.Status)
	}
	query += ` ORDER BY created_at`
	if filter.Limit > 0 {
		addArg(` LIMIT $`+itoa(len(args)+1), filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list candidates")
	}
	defer rows.Close()

	var out []model.CandidateRecord
	for rows.Next() {
		var c model.CandidateRecord
		var changed *time.Time
		if err := rows.Scan(&c.ID, &c.Name, &c.Role, &c.Client, &c.Plan, &c.Owner,
			&c.Status, &c.Source, &changed, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan candidate")
		}
		if changed != nil {
			c.StatusChangedAt = *changed
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AppendStatusChange(ctx context.Context, ch model.StatusChange) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO status_history (candidate_id, previous_status, new_status, changed_at) VALUES ($1, $2, $3, $4)`,
		ch.CandidateID, ch.Previous, ch.New, ch.ChangedAt,
	)
	return eris.Wrap(err, "postgres: append status change")
}

func (s *PostgresStore) ListStatusHistory(ctx context.Context, candidateID string) ([]model.StatusChange, error) {
	return s.queryHistory(ctx,
		`SELECT candidate_id, previous_status, new_status, changed_at FROM status_history
		 WHERE candidate_id = $1 ORDER BY changed_at`, candidateID)
}

func (s *PostgresStore) ListAllStatusHistory(ctx context.Context) ([]model.StatusChange, error) {
	return s.queryHistory(ctx,
		`SELECT candidate_id, previous_status, new_status, changed_at FROM status_history
		 ORDER BY candidate_id, changed_at`)
}

func (s *PostgresStore) queryHistory(ctx context.Context, query string, args ...any) ([]model.StatusChange, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list status history")
	}
	defer rows.Close()

	var out []model.StatusChange
	for rows.Next() {
		var ch model.StatusChange
		if err := rows.Scan(&ch.CandidateID, &ch.Previous, &ch.New, &ch.ChangedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan status change")
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// --- Overrides ---

func (s *PostgresStore) SetOverride(ctx context.Context, o Override) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO actual_overrides (plan_id, role, stage_name, value, updated_at) VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (plan_id, role, stage_name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		o.PlanID, o.Role, o.StageName, o.Value,
	)
	return eris.Wrap(err, "postgres: set override")
}

func (s *PostgresStore) GetOverride(ctx context.Context, planID, role, stageName string) (*int, error) {
	var v int
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM actual_overrides WHERE plan_id = $1 AND role = $2 AND stage_name = $3`,
		planID, role, stageName,
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get override")
	}
	return &v, nil
}

func (s *PostgresStore) ClearOverride(ctx context.Context, planID, role, stageName string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM actual_overrides WHERE plan_id = $1 AND role = $2 AND stage_name = $3`,
		planID, role, stageName,
	)
	return eris.Wrap(err, "postgres: clear override")
}

func (s *PostgresStore) ListOverrides(ctx context.Context, planID string) ([]Override, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT plan_id, role, stage_name, value, updated_at FROM actual_overrides WHERE plan_id = $1 ORDER BY role, stage_name`,
		planID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list overrides")
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(&o.PlanID, &o.Role, &o.StageName, &o.Value, &o.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan override")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// --- helpers ---

func scanPlanRolePG(row rowScanner) (*model.PlanRole, error) {
	var r model.PlanRole
	var staffedBy time.Time
	var pipelineID *int64
	if err := row.Scan(&r.PlanID, &r.Role, &r.Skills, &r.TargetPositions, &staffedBy, &pipelineID, &r.Owner); err != nil {
		return nil, err
	}
	if pipelineID != nil {
		r.PipelineID = *pipelineID
	}
	r.StaffedByDate = model.NewDate(staffedBy)
	return &r, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
