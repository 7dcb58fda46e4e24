// Package observability provides a metrics extension for Folio that records
// lifecycle event counts through a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/plugin"
	"github.com/xraph/folio/settings"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin            = (*MetricsExtension)(nil)
	_ plugin.OnInit            = (*MetricsExtension)(nil)
	_ plugin.OnClientCreated   = (*MetricsExtension)(nil)
	_ plugin.OnClientUpdated   = (*MetricsExtension)(nil)
	_ plugin.OnClientDeleted   = (*MetricsExtension)(nil)
	_ plugin.OnDocumentCreated = (*MetricsExtension)(nil)
	_ plugin.OnDocumentUpdated = (*MetricsExtension)(nil)
	_ plugin.OnDocumentDeleted = (*MetricsExtension)(nil)
	_ plugin.OnNumberCollision = (*MetricsExtension)(nil)
	_ plugin.OnSettingsSaved   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records document and client lifecycle metrics.
// Register it as a Folio plugin to track them automatically.
type MetricsExtension struct {
	factory MetricFactory

	// Client metrics
	ClientCreated Counter
	ClientUpdated Counter
	ClientDeleted Counter

	// Document metrics, keyed by document type
	DocumentCreated map[document.Type]Counter
	DocumentDeleted map[document.Type]Counter
	DocumentTotal   map[document.Type]Histogram
	DocumentUpdated Counter
	InvoicePaid     Counter

	// Numbering metrics
	NumberCollisions Counter

	SettingsSaved Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	m := &MetricsExtension{
		factory: factory,

		ClientCreated: factory.Counter("folio.client.created"),
		ClientUpdated: factory.Counter("folio.client.updated"),
		ClientDeleted: factory.Counter("folio.client.deleted"),

		DocumentCreated: make(map[document.Type]Counter, len(document.Types)),
		DocumentDeleted: make(map[document.Type]Counter, len(document.Types)),
		DocumentTotal:   make(map[document.Type]Histogram, len(document.Types)),
		DocumentUpdated: factory.Counter("folio.document.updated"),
		InvoicePaid:     factory.Counter("folio.invoice.paid"),

		NumberCollisions: factory.Counter("folio.numbering.collisions"),
		SettingsSaved:    factory.Counter("folio.settings.saved"),
	}
	for _, t := range document.Types {
		m.DocumentCreated[t] = factory.Counter("folio." + string(t) + ".created")
		m.DocumentDeleted[t] = factory.Counter("folio." + string(t) + ".deleted")
		m.DocumentTotal[t] = factory.Histogram("folio." + string(t) + ".total_amount")
	}
	return m
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	return nil
}

// ──────────────────────────────────────────────────
// Client lifecycle hooks
// ──────────────────────────────────────────────────

// OnClientCreated implements plugin.OnClientCreated.
func (m *MetricsExtension) OnClientCreated(_ context.Context, _ *client.Client) error {
	m.ClientCreated.Inc()
	return nil
}

// OnClientUpdated implements plugin.OnClientUpdated.
func (m *MetricsExtension) OnClientUpdated(_ context.Context, _, _ *client.Client) error {
	m.ClientUpdated.Inc()
	return nil
}

// OnClientDeleted implements plugin.OnClientDeleted.
func (m *MetricsExtension) OnClientDeleted(_ context.Context, _ id.ClientID) error {
	m.ClientDeleted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Document lifecycle hooks
// ──────────────────────────────────────────────────

// OnDocumentCreated implements plugin.OnDocumentCreated.
func (m *MetricsExtension) OnDocumentCreated(_ context.Context, d *document.Document) error {
	if c, ok := m.DocumentCreated[d.Type]; ok {
		c.Inc()
	}
	if h, ok := m.DocumentTotal[d.Type]; ok {
		h.Observe(d.Total.InexactFloat64())
	}
	return nil
}

// OnDocumentUpdated implements plugin.OnDocumentUpdated.
func (m *MetricsExtension) OnDocumentUpdated(_ context.Context, oldDoc, newDoc *document.Document) error {
	m.DocumentUpdated.Inc()
	if newDoc.Type == document.TypeInvoice &&
		newDoc.Status == document.StatusPaid && oldDoc.Status != document.StatusPaid {
		m.InvoicePaid.Inc()
	}
	return nil
}

// OnDocumentDeleted implements plugin.OnDocumentDeleted.
func (m *MetricsExtension) OnDocumentDeleted(_ context.Context, d *document.Document) error {
	if c, ok := m.DocumentDeleted[d.Type]; ok {
		c.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// Numbering and settings hooks
// ──────────────────────────────────────────────────

// OnNumberCollision implements plugin.OnNumberCollision.
func (m *MetricsExtension) OnNumberCollision(_ context.Context, _ document.Type, _ string) error {
	m.NumberCollisions.Inc()
	return nil
}

// OnSettingsSaved implements plugin.OnSettingsSaved.
func (m *MetricsExtension) OnSettingsSaved(_ context.Context, _ *settings.Settings) error {
	m.SettingsSaved.Inc()
	return nil
}
