package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// TemplateStore implements store.TemplateStore using PostgreSQL.
// Default tasks are stored as a JSONB array so the skeleton order is
// preserved exactly as authored.
type TemplateStore struct {
	pool *pgxpool.Pool
}

// NewTemplateStore creates a new PostgreSQL-backed template store.
func NewTemplateStore(pool *pgxpool.Pool) *TemplateStore {
	return &TemplateStore{pool: pool}
}

const templateSelect = `
	SELECT template_id, organization_id, name, category, project_type,
	       default_budget, default_tasks, times_used, created_at, updated_at
	FROM project_templates`

func scanTemplate(row pgx.Row) (*models.ProjectTemplate, error) {
	t := &models.ProjectTemplate{}
	var tasksJSON []byte
	err := row.Scan(
		&t.TemplateID,
		&t.OrganizationID,
		&t.Name,
		&t.Category,
		&t.ProjectType,
		&t.DefaultBudget,
		&tasksJSON,
		&t.TimesUsed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	if err := json.Unmarshal(tasksJSON, &t.DefaultTasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default_tasks: %w", err)
	}
	if t.DefaultTasks == nil {
		t.DefaultTasks = []models.TemplateTask{}
	}
	return t, nil
}

// Create inserts a template with a zero usage counter.
func (s *TemplateStore) Create(ctx context.Context, tc tenant.Context, input store.CreateTemplateInput) (*models.ProjectTemplate, error) {
	tasks := input.DefaultTasks
	if tasks == nil {
		tasks = []models.TemplateTask{}
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default_tasks: %w", err)
	}

	now := time.Now()
	t := &models.ProjectTemplate{
		TemplateID:     newID(),
		OrganizationID: tc.OrgID,
		Name:           input.Name,
		Category:       input.Category,
		ProjectType:    input.ProjectType,
		DefaultBudget:  input.DefaultBudget,
		DefaultTasks:   tasks,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO project_templates (
			template_id, organization_id, name, category, project_type,
			default_budget, default_tasks, times_used, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, 0, $8, $9
		)
	`,
		t.TemplateID,
		t.OrganizationID,
		t.Name,
		t.Category,
		t.ProjectType,
		t.DefaultBudget,
		tasksJSON,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	log.Info().
		Str("template_id", t.TemplateID.String()).
		Str("org_id", tc.OrgID.String()).
		Int("default_tasks", len(tasks)).
		Msg("Created project template")

	return t, nil
}

// Get returns a single template inside the tenant.
func (s *TemplateStore) Get(ctx context.Context, tc tenant.Context, templateID uuid.UUID) (*models.ProjectTemplate, error) {
	t, err := scanTemplate(s.pool.QueryRow(ctx, templateSelect+`
		WHERE template_id = $1 AND organization_id = $2
	`, templateID, tc.OrgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns the tenant's templates, most used first.
func (s *TemplateStore) List(ctx context.Context, tc tenant.Context) ([]*models.ProjectTemplate, error) {
	rows, err := s.pool.Query(ctx, templateSelect+`
		WHERE organization_id = $1
		ORDER BY times_used DESC, name ASC
	`, tc.OrgID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	templates := []*models.ProjectTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return templates, nil
}
