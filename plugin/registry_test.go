package plugin_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/plugin"
)

type recorder struct {
	name   string
	events []string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) OnClientCreated(_ context.Context, c *client.Client) error {
	r.events = append(r.events, "client.created:"+c.Name)
	return nil
}

func (r *recorder) OnDocumentDeleted(_ context.Context, d *document.Document) error {
	r.events = append(r.events, "document.deleted:"+d.Number)
	return nil
}

type panicky struct{}

func (panicky) Name() string { return "panicky" }

func (panicky) OnClientCreated(context.Context, *client.Client) error { panic("boom") }

type rejector struct{ reason error }

func (rejector) Name() string { return "rejector" }

func (r rejector) ValidateDocument(context.Context, *document.Document) error { return r.reason }

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	reg := plugin.NewRegistry()
	if err := reg.Register(&recorder{name: "a"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(&recorder{name: "a"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if got := reg.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
	if reg.Get("a") == nil || reg.Get("b") != nil {
		t.Error("Get did not find exactly the registered plugin")
	}
}

func TestEmitReachesOnlyImplementedHooks(t *testing.T) {
	ctx := context.Background()
	reg := plugin.NewRegistry()
	rec := &recorder{name: "rec"}
	if err := reg.Register(rec); err != nil {
		t.Fatal(err)
	}

	reg.EmitClientCreated(ctx, &client.Client{Name: "Acme"})
	reg.EmitClientDeleted(ctx, id.NewClientID())
	reg.EmitDocumentDeleted(ctx, &document.Document{Number: "INV-0001"})

	want := []string{"client.created:Acme", "document.deleted:INV-0001"}
	if strings.Join(rec.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestEmitRecoversFromPanics(t *testing.T) {
	var logs bytes.Buffer
	reg := plugin.NewRegistry().WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	rec := &recorder{name: "after"}
	for _, p := range []plugin.Plugin{panicky{}, rec} {
		if err := reg.Register(p); err != nil {
			t.Fatal(err)
		}
	}

	reg.EmitClientCreated(context.Background(), &client.Client{Name: "Acme"})

	if len(rec.events) != 1 {
		t.Errorf("plugin after the panicking one saw %d events, want 1", len(rec.events))
	}
	if !strings.Contains(logs.String(), "plugin panic: panicky") {
		t.Errorf("panic not logged: %s", logs.String())
	}
}

func TestValidateDocument(t *testing.T) {
	ctx := context.Background()
	reason := errors.New("missing purchase order")

	reg := plugin.NewRegistry()
	if err := reg.ValidateDocument(ctx, &document.Document{}); err != nil {
		t.Fatalf("no validators: %v", err)
	}

	if err := reg.Register(rejector{reason: reason}); err != nil {
		t.Fatal(err)
	}
	err := reg.ValidateDocument(ctx, &document.Document{})
	if !errors.Is(err, reason) {
		t.Fatalf("ValidateDocument() = %v, want %v", err, reason)
	}
	if !strings.Contains(err.Error(), "plugin rejector") {
		t.Errorf("error %q does not name the plugin", err)
	}
}
