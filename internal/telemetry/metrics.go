package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/cornndawwg/the-icatalyst-crm"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Project lifecycle metrics
	ProjectsCreatedTotal  metric.Int64Counter
	ProjectsDeletedTotal  metric.Int64Counter
	ProjectUpdateDuration metric.Float64Histogram

	// Task metrics
	TasksCreatedTotal   metric.Int64Counter
	TasksCompletedTotal metric.Int64Counter

	// Change order metrics
	ChangeOrdersProposedTotal metric.Int64Counter
	ChangeOrdersResolvedTotal metric.Int64Counter
	ChangeOrderConflictsTotal metric.Int64Counter

	// Activity trail metrics
	ActivitiesWrittenTotal metric.Int64Counter

	// Template metrics
	TemplateInstantiationsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.ProjectsCreatedTotal, _ = meter.Int64Counter(
		"crm.projects.created.total",
		metric.WithDescription("Total number of projects created"),
		metric.WithUnit("{project}"),
	)

	m.ProjectsDeletedTotal, _ = meter.Int64Counter(
		"crm.projects.deleted.total",
		metric.WithDescription("Total number of projects deleted"),
		metric.WithUnit("{project}"),
	)

	m.ProjectUpdateDuration, _ = meter.Float64Histogram(
		"crm.projects.update.duration",
		metric.WithDescription("Duration of project update operations"),
		metric.WithUnit("ms"),
	)

	m.TasksCreatedTotal, _ = meter.Int64Counter(
		"crm.tasks.created.total",
		metric.WithDescription("Total number of tasks created"),
		metric.WithUnit("{task}"),
	)

	m.TasksCompletedTotal, _ = meter.Int64Counter(
		"crm.tasks.completed.total",
		metric.WithDescription("Total number of tasks marked completed"),
		metric.WithUnit("{task}"),
	)

	m.ChangeOrdersProposedTotal, _ = meter.Int64Counter(
		"crm.change_orders.proposed.total",
		metric.WithDescription("Total number of change orders proposed"),
		metric.WithUnit("{change_order}"),
	)

	m.ChangeOrdersResolvedTotal, _ = meter.Int64Counter(
		"crm.change_orders.resolved.total",
		metric.WithDescription("Total number of change orders approved or rejected"),
		metric.WithUnit("{change_order}"),
	)

	m.ChangeOrderConflictsTotal, _ = meter.Int64Counter(
		"crm.change_orders.conflicts.total",
		metric.WithDescription("Total number of rejected double-resolution attempts"),
		metric.WithUnit("{conflict}"),
	)

	m.ActivitiesWrittenTotal, _ = meter.Int64Counter(
		"crm.activities.written.total",
		metric.WithDescription("Total number of activity trail entries written"),
		metric.WithUnit("{entry}"),
	)

	m.TemplateInstantiationsTotal, _ = meter.Int64Counter(
		"crm.templates.instantiations.total",
		metric.WithDescription("Total number of projects created from a template"),
		metric.WithUnit("{project}"),
	)

	return m
}
