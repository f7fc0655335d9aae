package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/platform/obs"
)

// SQLSolutionStore archives solutions in Postgres or SQLite. The latest
// raw planner response is kept per plan, and each stop's assignment is
// indexed in solution_stops.
type SQLSolutionStore struct {
	DB *sql.DB
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
}

func NewPostgresSolutionStore(db *sql.DB) *SQLSolutionStore {
	return &SQLSolutionStore{DB: db, placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
}

func NewSqliteSolutionStore(db *sql.DB) *SQLSolutionStore {
	return &SQLSolutionStore{DB: db, placeholder: func(int) string { return "?" }}
}

// bind replaces each "?" in q with the dialect's placeholder.
func (s *SQLSolutionStore) bind(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString(s.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLSolutionStore) SaveSolution(ctx context.Context, sol *domain.Solution) (err error) {
	defer obs.Time(ctx, "store.sql.SaveSolution")(&err)

	if s.DB == nil {
		return errors.New("solution store: db is nil")
	}
	if strings.TrimSpace(sol.PlanID) == "" {
		return errors.New("save solution: plan id is empty")
	}

	settings, err := json.Marshal(sol.GeneralSettings)
	if err != nil {
		return fmt.Errorf("save solution: encode settings: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save solution: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := s.bind(`
	INSERT INTO solutions (plan_id, stage, progress, raw_response, general_settings, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (plan_id) DO UPDATE
	SET stage = EXCLUDED.stage,
		progress = EXCLUDED.progress,
		raw_response = EXCLUDED.raw_response,
		general_settings = EXCLUDED.general_settings,
		updated_at = EXCLUDED.updated_at;
	`)
	if _, err := tx.ExecContext(ctx, upsert,
		sol.PlanID, string(sol.Status), sol.Progress, string(sol.RawResponse), string(settings),
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("save solution %q: upsert: %w", sol.PlanID, err)
	}

	if _, err := tx.ExecContext(ctx, s.bind(`DELETE FROM solution_stops WHERE plan_id = ?;`), sol.PlanID); err != nil {
		return fmt.Errorf("save solution %q: clear stops: %w", sol.PlanID, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.bind(`
	INSERT INTO solution_stops (plan_id, name, assign_to, run, seq, eta, exception)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save solution %q: db prepare: %w", sol.PlanID, err)
	}
	defer stmt.Close()

	for _, st := range sol.Stops {
		if st.Name() == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			sol.PlanID, st.Name(),
			nullString(st.AssignTo()), nullInt(st.Get(domain.StopRun)), nullInt(st.Get(domain.StopSequence)),
			nullString(domain.Text(st.Get(domain.StopETA))), nullString(st.Exception()),
		); err != nil {
			return fmt.Errorf("save solution %q: insert stop %q: %w", sol.PlanID, st.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save solution %q: commit: %w", sol.PlanID, err)
	}
	return nil
}

func (s *SQLSolutionStore) GetSolution(ctx context.Context, planID string) (_ *domain.Solution, err error) {
	defer obs.Time(ctx, "store.sql.GetSolution")(&err)

	if s.DB == nil {
		return nil, errors.New("solution store: db is nil")
	}

	var raw, settings string
	row := s.DB.QueryRowContext(ctx, s.bind(`SELECT raw_response, general_settings FROM solutions WHERE plan_id = ?;`), planID)
	if err := row.Scan(&raw, &settings); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get solution %q: %w", planID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get solution %q: %w", planID, err)
	}

	return decodeStored(planID, []byte(raw), []byte(settings))
}

// UnsolvedStopNames lists the stops of a plan that carry an exception.
func (s *SQLSolutionStore) UnsolvedStopNames(ctx context.Context, planID string) (_ []string, err error) {
	defer obs.Time(ctx, "store.sql.UnsolvedStopNames")(&err)

	rows, err := s.DB.QueryContext(ctx, s.bind(`
	SELECT name
	FROM solution_stops
	WHERE plan_id = ? AND exception IS NOT NULL AND exception <> ''
	ORDER BY name;
	`), planID)
	if err != nil {
		return nil, fmt.Errorf("unsolved stops %q: query: %w", planID, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("unsolved stops %q: scan rows: %w", planID, err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unsolved stops %q: row iteration: %w", planID, err)
	}
	return out, nil
}

func decodeStored(planID string, raw, settings []byte) (*domain.Solution, error) {
	gs := domain.DefaultGeneralSettings()
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &gs); err != nil {
			return nil, fmt.Errorf("get solution %q: decode settings: %w", planID, err)
		}
	}
	sol, err := domain.ParseSolution(raw, gs)
	if err != nil {
		return nil, fmt.Errorf("get solution %q: %w", planID, err)
	}
	if sol.PlanID == "" {
		sol.PlanID = planID
	}
	return sol, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v any) sql.NullInt64 {
	n, ok := domain.Number(v)
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
