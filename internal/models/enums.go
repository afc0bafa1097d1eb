package models

// ProjectStatus is the lifecycle state of a project.
// Conventional flow is planning -> active -> completed, with on-hold
// reachable from planning/active and cancelled from any non-terminal state.
// Transitions are logged but not enforced.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusCompleted,
		ProjectStatusOnHold, ProjectStatusCancelled:
		return true
	}
	return false
}

// ProjectType categorizes the kind of installation work.
type ProjectType string

const (
	ProjectTypeNewInstall ProjectType = "new-install"
	ProjectTypeUpgrade    ProjectType = "upgrade"
	ProjectTypeService    ProjectType = "service"
	ProjectTypeDesignOnly ProjectType = "design-only"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeNewInstall, ProjectTypeUpgrade, ProjectTypeService, ProjectTypeDesignOnly:
		return true
	}
	return false
}

// TaskStatus is the state of a project task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Rank orders task statuses so open work sorts ahead of finished work.
func (s TaskStatus) Rank() int {
	switch s {
	case TaskStatusPending:
		return 0
	case TaskStatusInProgress:
		return 1
	case TaskStatusCompleted:
		return 2
	}
	return 3
}

// TaskPriority is the urgency of a project task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// ChangeOrderStatus is the resolution state of a change order.
// pending transitions exactly once to approved or rejected.
type ChangeOrderStatus string

const (
	ChangeOrderStatusPending  ChangeOrderStatus = "pending"
	ChangeOrderStatusApproved ChangeOrderStatus = "approved"
	ChangeOrderStatusRejected ChangeOrderStatus = "rejected"
)

// Terminal reports whether the status is a resolution state.
func (s ChangeOrderStatus) Terminal() bool {
	return s == ChangeOrderStatusApproved || s == ChangeOrderStatusRejected
}

// ChangeOrderReason classifies why a change order was raised.
type ChangeOrderReason string

const (
	ChangeOrderReasonScopeChange    ChangeOrderReason = "scope-change"
	ChangeOrderReasonCostAdjustment ChangeOrderReason = "cost-adjustment"
	ChangeOrderReasonTimelineChange ChangeOrderReason = "timeline-change"
)

func (r ChangeOrderReason) Valid() bool {
	switch r {
	case ChangeOrderReasonScopeChange, ChangeOrderReasonCostAdjustment, ChangeOrderReasonTimelineChange:
		return true
	}
	return false
}

// ActivityType classifies audit trail entries.
type ActivityType string

const (
	ActivityStatusChange   ActivityType = "status-change"
	ActivityProgressUpdate ActivityType = "progress-update"
	ActivityMemberAdded    ActivityType = "member-added"
	ActivityTaskAdded      ActivityType = "task-added"
	ActivityChangeOrder    ActivityType = "change-order"
	ActivityNoteAdded      ActivityType = "note-added"
)

// MemberRole is the role of a user on a project.
type MemberRole string

const (
	MemberRoleProjectManager MemberRole = "project-manager"
	MemberRoleTechnician     MemberRole = "technician"
	MemberRoleLaborer        MemberRole = "laborer"
	MemberRoleSubcontractor  MemberRole = "subcontractor"
)

func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleProjectManager, MemberRoleTechnician, MemberRoleLaborer, MemberRoleSubcontractor:
		return true
	}
	return false
}

// PartnerType is the trade category of a business partner.
type PartnerType string

const (
	PartnerTypeInteriorDesigner PartnerType = "interior-designer"
	PartnerTypeBuilder          PartnerType = "builder"
	PartnerTypeArchitect        PartnerType = "architect"
)

func (t PartnerType) Valid() bool {
	switch t {
	case PartnerTypeInteriorDesigner, PartnerTypeBuilder, PartnerTypeArchitect:
		return true
	}
	return false
}
