package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a smart-home integration project owned by exactly one
// organization. actualCost changes only through change-order approval or an
// explicit update; derived state (activity trail, task list) is written in
// the same transaction as the mutation that produced it.
type Project struct {
	ProjectID      uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organizationId"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Status         ProjectStatus `json:"status"`
	ProjectType    ProjectType   `json:"projectType"`

	ProgressPercent int     `json:"progressPercent"`
	EstimatedValue  float64 `json:"estimatedValue"`
	ActualCost      float64 `json:"actualCost"`
	MaterialsCost   float64 `json:"materialsCost"`
	LaborCost       float64 `json:"laborCost"`
	HardwareCost    float64 `json:"hardwareCost"`

	StartDate            *time.Time `json:"startDate,omitempty"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	ProjectedFinishDate  *time.Time `json:"projectedFinishDate,omitempty"`
	MaterialDeliveryDate *time.Time `json:"materialDeliveryDate,omitempty"`

	CustomerID       uuid.UUID  `json:"customerId"`
	PropertyID       *uuid.UUID `json:"propertyId,omitempty"`
	PrimaryPartnerID *uuid.UUID `json:"primaryPartnerId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectCounts summarizes related record counts for list views.
type ProjectCounts struct {
	Partners     int `json:"partners"`
	Members      int `json:"members"`
	Documents    int `json:"documents"`
	Tasks        int `json:"tasks"`
	ChangeOrders int `json:"changeOrders"`
}

// ProjectListItem is a project joined with its related summaries, returned
// by list queries.
type ProjectListItem struct {
	Project
	Customer       *CustomerSummary `json:"customer,omitempty"`
	PrimaryPartner *PartnerSummary  `json:"primaryPartner,omitempty"`
	Property       *PropertySummary `json:"property,omitempty"`
	Counts         ProjectCounts    `json:"_count"`
}

// ProjectDetail is the full aggregate returned by single-record retrieval:
// all relations, the last 50 activity entries, ordered tasks and every
// change order.
type ProjectDetail struct {
	Project
	Customer       *CustomerSummary  `json:"customer,omitempty"`
	PrimaryPartner *PartnerSummary   `json:"primaryPartner,omitempty"`
	Property       *PropertySummary  `json:"property,omitempty"`
	Partners       []*ProjectPartner `json:"projectPartners"`
	Members        []*ProjectMember  `json:"projectMembers"`
	Tasks          []*ProjectTask    `json:"tasks"`
	ChangeOrders   []*ChangeOrder    `json:"changeOrders"`
	Activities     []*ProjectActivity `json:"activityLogs"`
}

// ProjectPartner is a non-primary partner collaborating on a project.
type ProjectPartner struct {
	ProjectID uuid.UUID       `json:"projectId"`
	PartnerID uuid.UUID       `json:"partnerId"`
	Role      string          `json:"role,omitempty"`
	Partner   *PartnerSummary `json:"partner,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ProjectMember is a user assigned to a project.
type ProjectMember struct {
	ProjectID uuid.UUID  `json:"projectId"`
	UserID    uuid.UUID  `json:"userId"`
	Role      MemberRole `json:"role"`
	IsLaborer bool       `json:"isLaborer"`
	CreatedAt time.Time  `json:"createdAt"`
}
