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

// ProjectStore implements store.ProjectStore using PostgreSQL.
// Creation, update and delete run their multi-step writes inside a single
// transaction so derived state (tasks, activity trail, template usage)
// never diverges from the project row.
type ProjectStore struct {
	pool *pgxpool.Pool
}

// NewProjectStore creates a new PostgreSQL-backed project store.
// It shares the connection pool with the other stores.
func NewProjectStore(pool *pgxpool.Pool) *ProjectStore {
	return &ProjectStore{pool: pool}
}

const projectColumns = `
	project_id, organization_id, name, description, status, project_type,
	progress_percent, estimated_value, actual_cost, materials_cost,
	labor_cost, hardware_cost, start_date, end_date, projected_finish_date,
	material_delivery_date, customer_id, property_id, primary_partner_id,
	created_at, updated_at`

func scanProject(row pgx.Row, p *models.Project) error {
	return row.Scan(
		&p.ProjectID,
		&p.OrganizationID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.ProjectType,
		&p.ProgressPercent,
		&p.EstimatedValue,
		&p.ActualCost,
		&p.MaterialsCost,
		&p.LaborCost,
		&p.HardwareCost,
		&p.StartDate,
		&p.EndDate,
		&p.ProjectedFinishDate,
		&p.MaterialDeliveryDate,
		&p.CustomerID,
		&p.PropertyID,
		&p.PrimaryPartnerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts a project with status planning. When a template is given,
// its default budget, default tasks and usage counter are applied inside
// the same transaction as the project row and the "Project created"
// activity entry.
func (s *ProjectStore) Create(ctx context.Context, tc tenant.Context, input store.CreateProjectInput) (*models.Project, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	// Resolve references inside the tenant. Absent and cross-tenant are the
	// same failure.
	if err := requireRef(ctx, tx, "customers", "customer_id", input.CustomerID, tc.OrgID, store.ErrCustomerNotFound); err != nil {
		return nil, err
	}
	if input.PropertyID != nil {
		if err := requireRef(ctx, tx, "properties", "property_id", *input.PropertyID, tc.OrgID, store.ErrPropertyNotFound); err != nil {
			return nil, err
		}
	}
	if input.PrimaryPartnerID != nil {
		if err := requireRef(ctx, tx, "partners", "partner_id", *input.PrimaryPartnerID, tc.OrgID, store.ErrPartnerNotFound); err != nil {
			return nil, err
		}
	}

	// Template lookup locks the row so the usage counter increment below
	// cannot race with a concurrent creation from the same template.
	var defaultBudget *float64
	var defaultTasks []models.TemplateTask
	if input.TemplateID != nil {
		var tasksJSON []byte
		err := tx.QueryRow(ctx, `
			SELECT default_budget, default_tasks
			FROM project_templates
			WHERE template_id = $1 AND organization_id = $2
			FOR UPDATE
		`, *input.TemplateID, tc.OrgID).Scan(&defaultBudget, &tasksJSON)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, store.ErrTemplateNotFound
			}
			return nil, mapPostgresError(err)
		}
		if err := json.Unmarshal(tasksJSON, &defaultTasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal default_tasks: %w", err)
		}
	}

	estimatedValue := 0.0
	if input.EstimatedValue != nil {
		estimatedValue = *input.EstimatedValue
	}
	if defaultBudget != nil {
		estimatedValue = *defaultBudget
	}

	projectID := newID()
	now := time.Now()

	project := &models.Project{
		ProjectID:            projectID,
		OrganizationID:       tc.OrgID,
		Name:                 input.Name,
		Description:          input.Description,
		Status:               models.ProjectStatusPlanning,
		ProjectType:          input.ProjectType,
		EstimatedValue:       estimatedValue,
		StartDate:            input.StartDate,
		ProjectedFinishDate:  input.ProjectedFinishDate,
		MaterialDeliveryDate: input.MaterialDeliveryDate,
		CustomerID:           input.CustomerID,
		PropertyID:           input.PropertyID,
		PrimaryPartnerID:     input.PrimaryPartnerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO projects (
			project_id, organization_id, name, description, status,
			project_type, estimated_value, start_date, projected_finish_date,
			material_delivery_date, customer_id, property_id,
			primary_partner_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`,
		project.ProjectID,
		project.OrganizationID,
		project.Name,
		project.Description,
		project.Status,
		project.ProjectType,
		project.EstimatedValue,
		project.StartDate,
		project.ProjectedFinishDate,
		project.MaterialDeliveryDate,
		project.CustomerID,
		project.PropertyID,
		project.PrimaryPartnerID,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	// Expand template tasks in template order, sortOrder 0..n-1.
	if len(defaultTasks) > 0 {
		batch := &pgx.Batch{}
		for i, skel := range defaultTasks {
			title := skel.Title
			if title == "" {
				title = fmt.Sprintf("Task %d", i+1)
			}
			priority := skel.Priority
			if !priority.Valid() {
				priority = models.TaskPriorityMedium
			}
			batch.Queue(`
				INSERT INTO project_tasks (
					task_id, project_id, title, description, status,
					priority, sort_order, created_by, created_at, updated_at
				) VALUES (
					$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
				)
			`, newID(), projectID, title, skel.Description,
				models.TaskStatusPending, priority, i, tc.ActorID, now, now)
		}

		batchResults := tx.SendBatch(ctx, batch)
		for i := 0; i < len(defaultTasks); i++ {
			if _, err := batchResults.Exec(); err != nil {
				batchResults.Close()
				return nil, mapPostgresError(fmt.Errorf("failed to insert template task %d: %w", i, err))
			}
		}
		if err := batchResults.Close(); err != nil {
			return nil, mapPostgresError(err)
		}
	}

	err = insertActivity(ctx, tx, &models.ProjectActivity{
		ProjectID:   projectID,
		Type:        models.ActivityStatusChange,
		Title:       "Project created",
		Description: fmt.Sprintf("Project %q was created", project.Name),
		NewValue:    string(models.ProjectStatusPlanning),
		CreatedBy:   tc.ActorID,
	})
	if err != nil {
		return nil, err
	}

	// One increment per successful creation, not per lookup.
	if input.TemplateID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE project_templates
			SET times_used = times_used + 1, updated_at = now()
			WHERE template_id = $1 AND organization_id = $2
		`, *input.TemplateID, tc.OrgID)
		if err != nil {
			return nil, mapPostgresError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit project creation: %w", err)
	}

	log.Info().
		Str("project_id", projectID.String()).
		Str("org_id", tc.OrgID.String()).
		Int("template_tasks", len(defaultTasks)).
		Msg("Created project")

	return project, nil
}

// Update applies a partial update and, in the same transaction, appends one
// activity entry per changed status/progress field. Update is never a bare
// field write.
func (s *ProjectStore) Update(ctx context.Context, tc tenant.Context, projectID uuid.UUID, input store.UpdateProjectInput) (*models.ProjectDetail, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	var current models.Project
	err = scanProject(tx.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE project_id = $1 AND organization_id = $2
		FOR UPDATE
	`, projectID, tc.OrgID), &current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrProjectNotFound
		}
		return nil, mapPostgresError(err)
	}

	if input.PrimaryPartnerID != nil {
		if err := requireRef(ctx, tx, "partners", "partner_id", *input.PrimaryPartnerID, tc.OrgID, store.ErrPartnerNotFound); err != nil {
			return nil, err
		}
	}

	sets := []string{"updated_at = now()"}
	args := []any{projectID, tc.OrgID}
	argIdx := 3

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if input.Name != nil {
		addSet("name", *input.Name)
	}
	if input.Description != nil {
		addSet("description", *input.Description)
	}
	if input.Status != nil {
		addSet("status", *input.Status)
	}
	if input.ProjectType != nil {
		addSet("project_type", *input.ProjectType)
	}
	if input.StartDate != nil {
		addSet("start_date", *input.StartDate)
	}
	if input.EndDate != nil {
		addSet("end_date", *input.EndDate)
	}
	if input.ProjectedFinishDate != nil {
		addSet("projected_finish_date", *input.ProjectedFinishDate)
	}
	if input.MaterialDeliveryDate != nil {
		addSet("material_delivery_date", *input.MaterialDeliveryDate)
	}
	if input.EstimatedValue != nil {
		addSet("estimated_value", *input.EstimatedValue)
	}
	if input.ActualCost != nil {
		addSet("actual_cost", *input.ActualCost)
	}
	if input.MaterialsCost != nil {
		addSet("materials_cost", *input.MaterialsCost)
	}
	if input.LaborCost != nil {
		addSet("labor_cost", *input.LaborCost)
	}
	if input.HardwareCost != nil {
		addSet("hardware_cost", *input.HardwareCost)
	}
	if input.ProgressPercent != nil {
		addSet("progress_percent", *input.ProgressPercent)
	}
	if input.PrimaryPartnerID != nil {
		addSet("primary_partner_id", *input.PrimaryPartnerID)
	}

	query := "UPDATE projects SET " + sets[0]
	for _, set := range sets[1:] {
		query += ", " + set
	}
	query += " WHERE project_id = $1 AND organization_id = $2"

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, mapPostgresError(err)
	}

	// Account for what changed: one entry per changed field.
	if input.Status != nil && *input.Status != current.Status {
		err = insertActivity(ctx, tx, &models.ProjectActivity{
			ProjectID: projectID,
			Type:      models.ActivityStatusChange,
			Title:     fmt.Sprintf("Status changed from %s to %s", current.Status, *input.Status),
			OldValue:  string(current.Status),
			NewValue:  string(*input.Status),
			CreatedBy: tc.ActorID,
		})
		if err != nil {
			return nil, err
		}
	}
	if input.ProgressPercent != nil && *input.ProgressPercent != current.ProgressPercent {
		err = insertActivity(ctx, tx, &models.ProjectActivity{
			ProjectID: projectID,
			Type:      models.ActivityProgressUpdate,
			Title:     fmt.Sprintf("Progress updated to %d%%", *input.ProgressPercent),
			OldValue:  fmt.Sprintf("%d", current.ProgressPercent),
			NewValue:  fmt.Sprintf("%d", *input.ProgressPercent),
			CreatedBy: tc.ActorID,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit project update: %w", err)
	}

	log.Info().
		Str("project_id", projectID.String()).
		Str("org_id", tc.OrgID.String()).
		Msg("Updated project")

	return s.GetByID(ctx, tc, projectID)
}

// List returns a filtered, paginated page of joined project rows ordered by
// most recently updated. The page query and the count query share the same
// predicate so total and items cannot skew.
func (s *ProjectStore) List(ctx context.Context, tc tenant.Context, filter store.ProjectFilter) (*store.ProjectPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	where := "WHERE p.organization_id = $1"
	args := []any{tc.OrgID}
	argIdx := 2

	if filter.Status != "" {
		where += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.PartnerID != nil {
		where += fmt.Sprintf(" AND p.primary_partner_id = $%d", argIdx)
		args = append(args, *filter.PartnerID)
		argIdx++
	}
	if filter.CustomerID != nil {
		where += fmt.Sprintf(" AND p.customer_id = $%d", argIdx)
		args = append(args, *filter.CustomerID)
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM projects p "+where, args...).Scan(&total); err != nil {
		return nil, mapPostgresError(err)
	}

	query := fmt.Sprintf(`
		SELECT
			p.project_id, p.organization_id, p.name, p.description, p.status,
			p.project_type, p.progress_percent, p.estimated_value,
			p.actual_cost, p.materials_cost, p.labor_cost, p.hardware_cost,
			p.start_date, p.end_date, p.projected_finish_date,
			p.material_delivery_date, p.customer_id, p.property_id,
			p.primary_partner_id, p.created_at, p.updated_at,
			c.first_name, c.last_name, c.email,
			pt.company_name, pt.contact_name, pt.type,
			pr.name, pr.address, pr.city, pr.state,
			(SELECT COUNT(*) FROM project_partners pp WHERE pp.project_id = p.project_id),
			(SELECT COUNT(*) FROM project_members pm WHERE pm.project_id = p.project_id),
			(SELECT COUNT(*) FROM project_tasks t WHERE t.project_id = p.project_id),
			(SELECT COUNT(*) FROM change_orders co WHERE co.project_id = p.project_id)
		FROM projects p
		JOIN customers c ON c.customer_id = p.customer_id
		LEFT JOIN partners pt ON pt.partner_id = p.primary_partner_id
		LEFT JOIN properties pr ON pr.property_id = p.property_id
		%s
		ORDER BY p.updated_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var items []*models.ProjectListItem
	for rows.Next() {
		item := &models.ProjectListItem{}
		var customer models.CustomerSummary
		var partnerCompany, partnerContact *string
		var partnerType *models.PartnerType
		var propName, propAddress, propCity, propState *string

		err := rows.Scan(
			&item.ProjectID,
			&item.OrganizationID,
			&item.Name,
			&item.Description,
			&item.Status,
			&item.ProjectType,
			&item.ProgressPercent,
			&item.EstimatedValue,
			&item.ActualCost,
			&item.MaterialsCost,
			&item.LaborCost,
			&item.HardwareCost,
			&item.StartDate,
			&item.EndDate,
			&item.ProjectedFinishDate,
			&item.MaterialDeliveryDate,
			&item.CustomerID,
			&item.PropertyID,
			&item.PrimaryPartnerID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&customer.FirstName,
			&customer.LastName,
			&customer.Email,
			&partnerCompany,
			&partnerContact,
			&partnerType,
			&propName,
			&propAddress,
			&propCity,
			&propState,
			&item.Counts.Partners,
			&item.Counts.Members,
			&item.Counts.Tasks,
			&item.Counts.ChangeOrders,
		)
		if err != nil {
			return nil, mapPostgresError(err)
		}

		item.Customer = &customer
		if partnerCompany != nil {
			item.PrimaryPartner = &models.PartnerSummary{
				CompanyName: *partnerCompany,
				ContactName: *partnerContact,
				Type:        *partnerType,
			}
		}
		if propName != nil {
			item.Property = &models.PropertySummary{
				Name:    *propName,
				Address: *propAddress,
				City:    *propCity,
				State:   *propState,
			}
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	log.Debug().
		Str("org_id", tc.OrgID.String()).
		Int("count", len(items)).
		Int("total", total).
		Msg("Listed projects")

	return &store.ProjectPage{
		Items:      items,
		Pagination: store.NewPagination(page, limit, total),
	}, nil
}

// GetByID returns the full project aggregate: relations, last 50 activity
// entries, ordered tasks and all change orders.
func (s *ProjectStore) GetByID(ctx context.Context, tc tenant.Context, projectID uuid.UUID) (*models.ProjectDetail, error) {
	detail := &models.ProjectDetail{}
	err := scanProject(s.pool.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE project_id = $1 AND organization_id = $2
	`, projectID, tc.OrgID), &detail.Project)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrProjectNotFound
		}
		return nil, mapPostgresError(err)
	}

	if err := s.loadSummaries(ctx, detail); err != nil {
		return nil, err
	}
	if err := s.loadPartners(ctx, detail); err != nil {
		return nil, err
	}
	if err := s.loadMembers(ctx, detail); err != nil {
		return nil, err
	}
	if err := s.loadTasks(ctx, detail); err != nil {
		return nil, err
	}
	if err := s.loadChangeOrders(ctx, detail); err != nil {
		return nil, err
	}
	if err := s.loadActivities(ctx, detail); err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *ProjectStore) loadSummaries(ctx context.Context, detail *models.ProjectDetail) error {
	var customer models.CustomerSummary
	err := s.pool.QueryRow(ctx, `
		SELECT first_name, last_name, email FROM customers WHERE customer_id = $1
	`, detail.CustomerID).Scan(&customer.FirstName, &customer.LastName, &customer.Email)
	if err != nil {
		return mapPostgresError(err)
	}
	detail.Customer = &customer

	if detail.PrimaryPartnerID != nil {
		var partner models.PartnerSummary
		err := s.pool.QueryRow(ctx, `
			SELECT company_name, contact_name, type FROM partners WHERE partner_id = $1
		`, *detail.PrimaryPartnerID).Scan(&partner.CompanyName, &partner.ContactName, &partner.Type)
		if err != nil {
			return mapPostgresError(err)
		}
		detail.PrimaryPartner = &partner
	}

	if detail.PropertyID != nil {
		var property models.PropertySummary
		err := s.pool.QueryRow(ctx, `
			SELECT name, address, city, state FROM properties WHERE property_id = $1
		`, *detail.PropertyID).Scan(&property.Name, &property.Address, &property.City, &property.State)
		if err != nil {
			return mapPostgresError(err)
		}
		detail.Property = &property
	}

	return nil
}

func (s *ProjectStore) loadPartners(ctx context.Context, detail *models.ProjectDetail) error {
	rows, err := s.pool.Query(ctx, `
		SELECT pp.project_id, pp.partner_id, pp.role, pp.created_at,
		       pt.company_name, pt.contact_name, pt.type
		FROM project_partners pp
		JOIN partners pt ON pt.partner_id = pp.partner_id
		WHERE pp.project_id = $1
		ORDER BY pp.created_at ASC
	`, detail.ProjectID)
	if err != nil {
		return mapPostgresError(err)
	}
	defer rows.Close()

	detail.Partners = []*models.ProjectPartner{}
	for rows.Next() {
		pp := &models.ProjectPartner{Partner: &models.PartnerSummary{}}
		err := rows.Scan(
			&pp.ProjectID, &pp.PartnerID, &pp.Role, &pp.CreatedAt,
			&pp.Partner.CompanyName, &pp.Partner.ContactName, &pp.Partner.Type,
		)
		if err != nil {
			return mapPostgresError(err)
		}
		detail.Partners = append(detail.Partners, pp)
	}
	return rows.Err()
}

func (s *ProjectStore) loadMembers(ctx context.Context, detail *models.ProjectDetail) error {
	rows, err := s.pool.Query(ctx, `
		SELECT project_id, user_id, role, is_laborer, created_at
		FROM project_members
		WHERE project_id = $1
		ORDER BY created_at ASC
	`, detail.ProjectID)
	if err != nil {
		return mapPostgresError(err)
	}
	defer rows.Close()

	detail.Members = []*models.ProjectMember{}
	for rows.Next() {
		m := &models.ProjectMember{}
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.IsLaborer, &m.CreatedAt); err != nil {
			return mapPostgresError(err)
		}
		detail.Members = append(detail.Members, m)
	}
	return rows.Err()
}

func (s *ProjectStore) loadTasks(ctx context.Context, detail *models.ProjectDetail) error {
	rows, err := s.pool.Query(ctx, taskSelect+`
		WHERE project_id = $1
		ORDER BY `+taskStatusOrder+`, sort_order ASC
	`, detail.ProjectID)
	if err != nil {
		return mapPostgresError(err)
	}
	defer rows.Close()

	detail.Tasks = []*models.ProjectTask{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return err
		}
		detail.Tasks = append(detail.Tasks, task)
	}
	return rows.Err()
}

func (s *ProjectStore) loadChangeOrders(ctx context.Context, detail *models.ProjectDetail) error {
	rows, err := s.pool.Query(ctx, changeOrderSelect+`
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, detail.ProjectID)
	if err != nil {
		return mapPostgresError(err)
	}
	defer rows.Close()

	detail.ChangeOrders = []*models.ChangeOrder{}
	for rows.Next() {
		co, err := scanChangeOrder(rows)
		if err != nil {
			return err
		}
		detail.ChangeOrders = append(detail.ChangeOrders, co)
	}
	return rows.Err()
}

func (s *ProjectStore) loadActivities(ctx context.Context, detail *models.ProjectDetail) error {
	rows, err := s.pool.Query(ctx, activitySelect+`
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT 50
	`, detail.ProjectID)
	if err != nil {
		return mapPostgresError(err)
	}
	defer rows.Close()

	detail.Activities = []*models.ProjectActivity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return err
		}
		detail.Activities = append(detail.Activities, a)
	}
	return rows.Err()
}

// Delete removes a project and explicitly detaches partner and member
// joins in the same transaction. Tasks, change orders and activities
// belong to the project and are removed with it.
func (s *ProjectStore) Delete(ctx context.Context, tc tenant.Context, projectID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if err := lockProject(ctx, tx, tc, projectID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM project_partners WHERE project_id = $1`, projectID); err != nil {
		return mapPostgresError(err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, projectID); err != nil {
		return mapPostgresError(err)
	}

	result, err := tx.Exec(ctx, `
		DELETE FROM projects WHERE project_id = $1 AND organization_id = $2
	`, projectID, tc.OrgID)
	if err != nil {
		return mapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrProjectNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project delete: %w", err)
	}

	log.Info().
		Str("project_id", projectID.String()).
		Str("org_id", tc.OrgID.String()).
		Msg("Deleted project")

	return nil
}

// AddPartner attaches a collaborating partner and records a member-added
// activity entry atomically.
func (s *ProjectStore) AddPartner(ctx context.Context, tc tenant.Context, projectID, partnerID uuid.UUID, role string) (*models.ProjectPartner, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if err := requireProject(ctx, tx, tc, projectID); err != nil {
		return nil, err
	}

	var summary models.PartnerSummary
	err = tx.QueryRow(ctx, `
		SELECT company_name, contact_name, type
		FROM partners
		WHERE partner_id = $1 AND organization_id = $2
	`, partnerID, tc.OrgID).Scan(&summary.CompanyName, &summary.ContactName, &summary.Type)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrPartnerNotFound
		}
		return nil, mapPostgresError(err)
	}

	pp := &models.ProjectPartner{
		ProjectID: projectID,
		PartnerID: partnerID,
		Role:      role,
		Partner:   &summary,
		CreatedAt: time.Now(),
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_partners (project_id, partner_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`, pp.ProjectID, pp.PartnerID, pp.Role, pp.CreatedAt)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	displayRole := role
	if displayRole == "" {
		displayRole = "collaborator"
	}
	err = insertActivity(ctx, tx, &models.ProjectActivity{
		ProjectID:   projectID,
		Type:        models.ActivityMemberAdded,
		Title:       fmt.Sprintf("Partner added: %s", summary.CompanyName),
		Description: fmt.Sprintf("Added %s as %s", summary.CompanyName, displayRole),
		CreatedBy:   tc.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit partner add: %w", err)
	}

	return pp, nil
}

// RemovePartner detaches a collaborating partner. Removing a partner that
// was never attached is not an error.
func (s *ProjectStore) RemovePartner(ctx context.Context, tc tenant.Context, projectID, partnerID uuid.UUID) error {
	if err := requireProject(ctx, s.pool, tc, projectID); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		DELETE FROM project_partners
		WHERE project_id = $1 AND partner_id = $2
	`, projectID, partnerID)
	if err != nil {
		return mapPostgresError(err)
	}
	return nil
}

// AddMember assigns a user to the project and records a member-added
// activity entry atomically.
func (s *ProjectStore) AddMember(ctx context.Context, tc tenant.Context, projectID, userID uuid.UUID, role models.MemberRole, isLaborer bool) (*models.ProjectMember, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if err := requireProject(ctx, tx, tc, projectID); err != nil {
		return nil, err
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		IsLaborer: isLaborer,
		CreatedAt: time.Now(),
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role, is_laborer, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, member.ProjectID, member.UserID, member.Role, member.IsLaborer, member.CreatedAt)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	err = insertActivity(ctx, tx, &models.ProjectActivity{
		ProjectID:   projectID,
		Type:        models.ActivityMemberAdded,
		Title:       "Team member added",
		Description: fmt.Sprintf("Added team member as %s", role),
		CreatedBy:   tc.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit member add: %w", err)
	}

	return member, nil
}

// requireRef verifies a referenced record exists inside the tenant.
func requireRef(ctx context.Context, q querier, table, column string, id, orgID uuid.UUID, notFound error) error {
	var exists bool
	query := fmt.Sprintf(`
		SELECT EXISTS(
			SELECT 1 FROM %s WHERE %s = $1 AND organization_id = $2
		)
	`, table, column)
	if err := q.QueryRow(ctx, query, id, orgID).Scan(&exists); err != nil {
		return mapPostgresError(err)
	}
	if !exists {
		return notFound
	}
	return nil
}
