package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/greyamp/alignops/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS pipelines (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	client_ref  TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	active      INTEGER NOT NULL DEFAULT 1,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS pipeline_stages (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	pipeline_id     INTEGER NOT NULL REFERENCES pipelines(id) ON DELETE CASCADE,
	name            TEXT NOT NULL,
	stage_order     INTEGER NOT NULL,
	conversion_rate REAL NOT NULL DEFAULT 0,
	tat_days        INTEGER NOT NULL DEFAULT 0,
	is_special      INTEGER NOT NULL DEFAULT 0,
	maps_to_status  TEXT NOT NULL DEFAULT '',
	status_flag     TEXT NOT NULL DEFAULT 'Both'
);

CREATE TABLE IF NOT EXISTS staffing_plans (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	client     TEXT NOT NULL,
	owner      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'Active',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS plan_roles (
	plan_id          TEXT NOT NULL REFERENCES staffing_plans(id) ON DELETE CASCADE,
	role             TEXT NOT NULL,
	skills           TEXT NOT NULL DEFAULT '',
	target_positions INTEGER NOT NULL DEFAULT 1,
	staffed_by_date  TEXT NOT NULL,
	pipeline_id      INTEGER,
	owner            TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (plan_id, role)
);

CREATE TABLE IF NOT EXISTS generated_plans (
	plan_id      TEXT NOT NULL,
	role         TEXT NOT NULL,
	stages       TEXT NOT NULL,
	generated_at DATETIME NOT NULL DEFAULT (datetime('now')),
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
	status_changed_at DATETIME,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS status_history (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_id    TEXT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
	previous_status TEXT NOT NULL DEFAULT '',
	new_status      TEXT NOT NULL,
	changed_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS actual_overrides (
	plan_id    TEXT NOT NULL,
	role       TEXT NOT NULL,
	stage_name TEXT NOT NULL,
	value      INTEGER NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (plan_id, role, stage_name)
);

CREATE INDEX IF NOT EXISTS idx_stages_pipeline ON pipeline_stages(pipeline_id);
CREATE INDEX IF NOT EXISTS idx_candidates_client_role ON candidates(client, role);
CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status);
CREATE INDEX IF NOT EXISTS idx_history_candidate ON status_history(candidate_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Pipelines ---

func (s *SQLiteStore) CreatePipeline(ctx context.Context, p model.Pipeline) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pipelines (name, client_ref, description, active, created_at) VALUES (?, ?, ?, 1, ?)`,
		p.Name, p.ClientRef, p.Description, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert pipeline")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: pipeline id")
	}
	return id, nil
}

func (s *SQLiteStore) GetPipeline(ctx context.Context, id int64) (*model.Pipeline, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, client_ref, description, active, created_at FROM pipelines WHERE id = ?`, id)

	var p model.Pipeline
	err := row.Scan(&p.ID, &p.Name, &p.ClientRef, &p.Description, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("pipeline", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get pipeline %d", id)
	}
	return &p, nil
}

func (s *SQLiteStore) ListPipelines(ctx context.Context, includeInactive bool) ([]model.Pipeline, error) {
	query := `SELECT id, name, client_ref, description, active, created_at FROM pipelines`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list pipelines")
	}
	defer rows.Close()

	var out []model.Pipeline
	for rows.Next() {
		var p model.Pipeline
		if err := rows.Scan(&p.ID, &p.Name, &p.ClientRef, &p.Description, &p.Active, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan pipeline")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdatePipeline(ctx context.Context, p model.Pipeline) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pipelines SET name = ?, client_ref = ?, description = ?, active = ? WHERE id = ?`,
		p.Name, p.ClientRef, p.Description, p.Active, p.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update pipeline %d", p.ID)
	}
	return requireRow(res, "pipeline", p.ID)
}

func (s *SQLiteStore) DeactivatePipeline(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE pipelines SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: deactivate pipeline %d", id)
	}
	return requireRow(res, "pipeline", id)
}

// --- Stages ---

func (s *SQLiteStore) AddStage(ctx context.Context, st model.Stage) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_stages (pipeline_id, name, stage_order, conversion_rate, tat_days, is_special, maps_to_status, status_flag)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.PipelineID, st.Name, int(st.Order), st.ConversionRate, st.TATDays, st.IsSpecial, st.MapsToStatus, string(st.Flag),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert stage")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: stage id")
	}
	return id, nil
}

func (s *SQLiteStore) GetStage(ctx context.Context, id int64) (*model.Stage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, pipeline_id, name, stage_order, conversion_rate, tat_days, is_special, maps_to_status, status_flag
		 FROM pipeline_stages WHERE id = ?`, id)
	st, err := scanStage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("stage", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get stage %d", id)
	}
	return st, nil
}

func (s *SQLiteStore) ListStages(ctx context.Context, pipelineID int64, includeSpecial bool) ([]model.Stage, error) {
	query := `SELECT id, pipeline_id, name, stage_order, conversion_rate, tat_days, is_special, maps_to_status, status_flag
		FROM pipeline_stages WHERE pipeline_id = ?`
	if !includeSpecial {
		query += ` AND is_special = 0`
	}
	query += ` ORDER BY is_special, stage_order, id`

	rows, err := s.db.QueryContext(ctx, query, pipelineID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list stages for pipeline %d", pipelineID)
	}
	defer rows.Close()

	var out []model.Stage
	for rows.Next() {
		st, err := scanStage(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan stage")
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateStage(ctx context.Context, st model.Stage) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pipeline_stages SET name = ?, stage_order = ?, conversion_rate = ?, tat_days = ?, is_special = ?, maps_to_status = ?, status_flag = ?
		 WHERE id = ?`,
		st.Name, int(st.Order), st.ConversionRate, st.TATDays, st.IsSpecial, st.MapsToStatus, string(st.Flag), st.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update stage %d", st.ID)
	}
	return requireRow(res, "stage", st.ID)
}

func (s *SQLiteStore) DeleteStage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pipeline_stages WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete stage %d", id)
	}
	return requireRow(res, "stage", id)
}

// --- Staffing plans ---

func (s *SQLiteStore) CreatePlan(ctx context.Context, p model.StaffingPlan) error {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO staffing_plans (id, name, client, owner, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Client, p.Owner, p.Status, created,
	)
	return eris.Wrap(err, "sqlite: insert plan")
}

func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (*model.StaffingPlan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, client, owner, status, created_at FROM staffing_plans WHERE id = ?`, id)

	var p model.StaffingPlan
	err := row.Scan(&p.ID, &p.Name, &p.Client, &p.Owner, &p.Status, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("plan", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get plan %s", id)
	}
	return &p, nil
}

func (s *SQLiteStore) ListPlans(ctx context.Context) ([]model.StaffingPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, client, owner, status, created_at FROM staffing_plans ORDER BY created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list plans")
	}
	defer rows.Close()

	var out []model.StaffingPlan
	for rows.Next() {
		var p model.StaffingPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Client, &p.Owner, &p.Status, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan plan")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertPlanRole(ctx context.Context, r model.PlanRole) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO plan_roles (plan_id, role, skills, target_positions, staffed_by_date, pipeline_id, owner)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (plan_id, role) DO UPDATE SET
			skills = excluded.skills,
			target_positions = excluded.target_positions,
			staffed_by_date = excluded.staffed_by_date,
			pipeline_id = excluded.pipeline_id,
			owner = excluded.owner`,
		r.PlanID, r.Role, r.Skills, r.TargetPositions, r.StaffedByDate.String(), r.PipelineID, r.Owner,
	)
	return eris.Wrap(err, "sqlite: upsert plan role")
}

func (s *SQLiteStore) GetPlanRole(ctx context.Context, planID, role string) (*model.PlanRole, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT plan_id, role, skills, target_positions, staffed_by_date, pipeline_id, owner
		 FROM plan_roles WHERE plan_id = ? AND role = ?`, planID, role)
	r, err := scanPlanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("plan role", planID+"/"+role)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get plan role %s/%s", planID, role)
	}
	return r, nil
}

func (s *SQLiteStore) ListPlanRoles(ctx context.Context, planID string) ([]model.PlanRole, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT plan_id, role, skills, target_positions, staffed_by_date, pipeline_id, owner
		 FROM plan_roles WHERE plan_id = ? ORDER BY role`, planID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list plan roles %s", planID)
	}
	defer rows.Close()

	var out []model.PlanRole
	for rows.Next() {
		r, err := scanPlanRole(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan plan role")
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeletePlanRole(ctx context.Context, planID, role string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM plan_roles WHERE plan_id = ? AND role = ?`, planID, role)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete plan role %s/%s", planID, role)
	}
	return requireRow(res, "plan role", planID+"/"+role)
}

// --- Generated plans ---

func (s *SQLiteStore) SaveGeneratedPlan(ctx context.Context, planID, role string, targets []model.StageTarget) error {
	data, err := json.Marshal(targets)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal generated plan")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO generated_plans (plan_id, role, stages, generated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (plan_id, role) DO UPDATE SET stages = excluded.stages, generated_at = excluded.generated_at`,
		planID, role, string(data), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save generated plan")
}

func (s *SQLiteStore) GetGeneratedPlan(ctx context.Context, planID, role string) ([]model.StageTarget, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT stages FROM generated_plans WHERE plan_id = ? AND role = ?`, planID, role,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get generated plan %s/%s", planID, role)
	}

	var targets []model.StageTarget
	if err := json.Unmarshal([]byte(data), &targets); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal generated plan")
	}
	return targets, nil
}

// --- Candidates ---

func (s *SQLiteStore) UpsertCandidates(ctx context.Context, records []model.CandidateRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin candidate upsert")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candidates (id, name, role, client, plan, owner, status, source, status_changed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, role = excluded.role, client = excluded.client,
			plan = excluded.plan, owner = excluded.owner, status = excluded.status,
			source = excluded.source, status_changed_at = excluded.status_changed_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare candidate upsert")
	}
	defer stmt.Close()

	count := 0
	for _, c := range records {
		created := c.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Role, c.Client, c.Plan, c.Owner,
			c.Status, c.Source, c.StatusChangedAt, created); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert candidate %s", c.ID)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit candidate upsert")
	}
	return count, nil
}

func (s *SQLiteStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.CandidateRecord, error) {
	query := `SELECT id, name, role, client, plan, owner, status, source, status_changed_at, created_at
		FROM candidates WHERE 1=1`
	var args []any

	if filter.Client != "" {
		query += ` AND client = ?`
		args = append(args, filter.Client)
	}
	if filter.Plan != "" {
		query += ` AND plan = ?`
		args = append(args, filter.Plan)
	}
	if filter.Role != "" {
		query += ` AND role = ?`
		args = append(args, filter.Role)
	}
	if filter.Owner != "" {
		query += ` AND owner = ?`
		args = append(args, filter.Owner)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list candidates")
	}
	defer rows.Close()

	var out []model.CandidateRecord
	for rows.Next() {
		var c model.CandidateRecord
		var changed sql.NullTime
		if err := rows.Scan(&c.ID, &c.Name, &c.Role, &c.Client, &c.Plan, &c.Owner,
			&c.Status, &c.Source, &changed, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan candidate")
		}
		if changed.Valid {
			c.StatusChangedAt = changed.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AppendStatusChange(ctx context.Context, ch model.StatusChange) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO status_history (candidate_id, previous_status, new_status, changed_at) VALUES (?, ?, ?, ?)`,
		ch.CandidateID, ch.Previous, ch.New, ch.ChangedAt,
	)
	return eris.Wrap(err, "sqlite: append status change")
}

func (s *SQLiteStore) ListStatusHistory(ctx context.Context, candidateID string) ([]model.StatusChange, error) {
	return s.queryHistory(ctx,
		`SELECT candidate_id, previous_status, new_status, changed_at FROM status_history
		 WHERE candidate_id = ? ORDER BY changed_at`, candidateID)
}

func (s *SQLiteStore) ListAllStatusHistory(ctx context.Context) ([]model.StatusChange, error) {
	return s.queryHistory(ctx,
		`SELECT candidate_id, previous_status, new_status, changed_at FROM status_history
		 ORDER BY candidate_id, changed_at`)
}

func (s *SQLiteStore) queryHistory(ctx context.Context, query string, args ...any) ([]model.StatusChange, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list status history")
	}
	defer rows.Close()

	var out []model.StatusChange
	for rows.Next() {
		var ch model.StatusChange
		if err := rows.Scan(&ch.CandidateID, &ch.Previous, &ch.New, &ch.ChangedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan status change")
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// --- Overrides ---

func (s *SQLiteStore) SetOverride(ctx context.Context, o Override) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actual_overrides (plan_id, role, stage_name, value, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (plan_id, role, stage_name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		o.PlanID, o.Role, o.StageName, o.Value, time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: set override")
}

func (s *SQLiteStore) GetOverride(ctx context.Context, planID, role, stageName string) (*int, error) {
	var v int
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM actual_overrides WHERE plan_id = ? AND role = ? AND stage_name = ?`,
		planID, role, stageName,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get override")
	}
	return &v, nil
}

func (s *SQLiteStore) ClearOverride(ctx context.Context, planID, role, stageName string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM actual_overrides WHERE plan_id = ? AND role = ? AND stage_name = ?`,
		planID, role, stageName,
	)
	return eris.Wrap(err, "sqlite: clear override")
}

func (s *SQLiteStore) ListOverrides(ctx context.Context, planID string) ([]Override, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT plan_id, role, stage_name, value, updated_at FROM actual_overrides WHERE plan_id = ? ORDER BY role, stage_name`,
		planID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list overrides")
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(&o.PlanID, &o.Role, &o.StageName, &o.Value, &o.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan override")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStage(row rowScanner) (*model.Stage, error) {
	var st model.Stage
	var order int
	var flag string
	if err := row.Scan(&st.ID, &st.PipelineID, &st.Name, &order, &st.ConversionRate,
		&st.TATDays, &st.IsSpecial, &st.MapsToStatus, &flag); err != nil {
		return nil, err
	}
	st.Order = model.StageOrder(order)
	st.Flag = model.StatusFlag(flag)
	return &st, nil
}

func scanPlanRole(row rowScanner) (*model.PlanRole, error) {
	var r model.PlanRole
	var staffedBy string
	var pipelineID sql.NullInt64
	if err := row.Scan(&r.PlanID, &r.Role, &r.Skills, &r.TargetPositions, &staffedBy, &pipelineID, &r.Owner); err != nil {
		return nil, err
	}
	if pipelineID.Valid {
		r.PipelineID = pipelineID.Int64
	}
	d, err := model.ParseDate(staffedBy)
	if err != nil {
		return nil, err
	}
	r.StaffedByDate = d
	return &r, nil
}

func requireRow(res sql.Result, kind string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return model.NewNotFound(kind, id)
	}
	return nil
}
