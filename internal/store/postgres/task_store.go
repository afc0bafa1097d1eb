package postgres

import (
	"context"
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

// TaskStore implements store.TaskStore using PostgreSQL.
type TaskStore struct {
	pool *pgxpool.Pool
}

// NewTaskStore creates a new PostgreSQL-backed task store.
func NewTaskStore(pool *pgxpool.Pool) *TaskStore {
	return &TaskStore{pool: pool}
}

const taskSelect = `
	SELECT task_id, project_id, title, description, status, priority,
	       due_date, assigned_to, sort_order, completed_at, created_by,
	       created_at, updated_at
	FROM project_tasks`

// Pending work sorts before in-progress, in-progress before completed.
const taskStatusOrder = `
	CASE status
		WHEN 'pending' THEN 0
		WHEN 'in-progress' THEN 1
		ELSE 2
	END ASC`

func scanTask(row pgx.Row) (*models.ProjectTask, error) {
	task := &models.ProjectTask{}
	err := row.Scan(
		&task.TaskID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.AssignedTo,
		&task.SortOrder,
		&task.CompletedAt,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return task, nil
}

// AddTask appends a task at the end of the project's ordered list and
// records a task-added activity entry in the same transaction. The project
// row lock serializes concurrent appends so sort orders never collide.
func (s *TaskStore) AddTask(ctx context.Context, tc tenant.Context, projectID uuid.UUID, input store.AddTaskInput) (*models.ProjectTask, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if err := lockProject(ctx, tx, tc, projectID); err != nil {
		return nil, err
	}

	var sortOrder int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(sort_order) + 1, 0)
		FROM project_tasks
		WHERE project_id = $1
	`, projectID).Scan(&sortOrder)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	priority := input.Priority
	if !priority.Valid() {
		priority = models.TaskPriorityMedium
	}

	now := time.Now()
	task := &models.ProjectTask{
		TaskID:      newID(),
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		SortOrder:   sortOrder,
		CreatedBy:   tc.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_tasks (
			task_id, project_id, title, description, status, priority,
			due_date, assigned_to, sort_order, created_by, created_at,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`,
		task.TaskID,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.AssignedTo,
		task.SortOrder,
		task.CreatedBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	err = insertActivity(ctx, tx, &models.ProjectActivity{
		ProjectID: projectID,
		Type:      models.ActivityTaskAdded,
		Title:     fmt.Sprintf("Task created: %s", task.Title),
		CreatedBy: tc.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit task creation: %w", err)
	}

	log.Info().
		Str("task_id", task.TaskID.String()).
		Str("project_id", projectID.String()).
		Int("sort_order", sortOrder).
		Msg("Created task")

	return task, nil
}

// UpdateTask applies a partial update in a single tenant-scoped statement.
// A status change to completed stamps completed_at; a change away from
// completed clears it in the same write.
func (s *TaskStore) UpdateTask(ctx context.Context, tc tenant.Context, projectID, taskID uuid.UUID, input store.UpdateTaskInput) (*models.ProjectTask, error) {
	sets := []string{"updated_at = now()"}
	args := []any{taskID, projectID, tc.OrgID}
	argIdx := 4

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if input.Title != nil {
		addSet("title", *input.Title)
	}
	if input.Description != nil {
		addSet("description", *input.Description)
	}
	if input.Status != nil {
		addSet("status", *input.Status)
		if *input.Status == models.TaskStatusCompleted {
			sets = append(sets, "completed_at = now()")
		} else {
			sets = append(sets, "completed_at = NULL")
		}
	}
	if input.Priority != nil {
		addSet("priority", *input.Priority)
	}
	if input.DueDate != nil {
		addSet("due_date", *input.DueDate)
	}
	if input.AssignedTo != nil {
		addSet("assigned_to", *input.AssignedTo)
	}

	query := "UPDATE project_tasks t SET " + sets[0]
	for _, set := range sets[1:] {
		query += ", " + set
	}
	query += `
		FROM projects p
		WHERE t.task_id = $1
		  AND t.project_id = $2
		  AND p.project_id = t.project_id
		  AND p.organization_id = $3
		RETURNING t.task_id, t.project_id, t.title, t.description, t.status,
		          t.priority, t.due_date, t.assigned_to, t.sort_order,
		          t.completed_at, t.created_by, t.created_at, t.updated_at`

	task, err := scanTask(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// ListTasks returns the project's tasks, pending work first, insertion
// order within each status group.
func (s *TaskStore) ListTasks(ctx context.Context, tc tenant.Context, projectID uuid.UUID) ([]*models.ProjectTask, error) {
	if err := requireProject(ctx, s.pool, tc, projectID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, taskSelect+`
		WHERE project_id = $1
		ORDER BY `+taskStatusOrder+`, sort_order ASC
	`, projectID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	tasks := []*models.ProjectTask{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return tasks, nil
}
