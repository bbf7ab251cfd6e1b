package service

import (
	"context"
	"net/http"
	"testing"

	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
)

func TestGetTenant(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	mustCreate(t, w, w.acmeAdmin, "a")
	mustCreate(t, w, w.acmeUser, "b")
	mustCreate(t, w, w.acmeUser, "c")
	mustCreate(t, w, w.acmeUser, "d")

	resp, err := w.tenantSvc.GetTenant(ctx, w.acmeUser, "acme")
	if err != nil {
		t.Fatalf("GetTenant = %v", err)
	}

	if resp.NoteCount != 4 || resp.UserNoteCount != 3 {
		t.Errorf("counts = %d/%d, want 4/3", resp.NoteCount, resp.UserNoteCount)
	}
	if resp.NoteLimit == nil || *resp.NoteLimit != 3 || !resp.IsAtLimit {
		t.Errorf("limit = %v at=%v, want 3 true", resp.NoteLimit, resp.IsAtLimit)
	}

	resp, _ = w.tenantSvc.GetTenant(ctx, w.acmeAdmin, "acme")
	if resp.IsAtLimit {
		t.Error("admin with one note reported at limit")
	}

	if _, err = w.tenantSvc.GetTenant(ctx, w.acmeUser, "globex"); err == nil || err.Code() != http.StatusForbidden {
		t.Errorf("foreign slug = %v, want 403", err)
	}
	if _, err = w.tenantSvc.GetTenant(ctx, nil, "acme"); err == nil || err.Code() != http.StatusUnauthorized {
		t.Errorf("anonymous = %v, want 401", err)
	}
}

func TestGetTenant_ProHasNoLimit(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	if _, err := w.tenantSvc.UpgradeTenant(ctx, w.globexAdmin, "globex"); err != nil {
		t.Fatalf("UpgradeTenant = %v", err)
	}

	resp, err := w.tenantSvc.GetTenant(ctx, w.globexUser, "globex")
	if err != nil {
		t.Fatalf("GetTenant = %v", err)
	}
	if resp.NoteLimit != nil || resp.IsAtLimit || resp.Subscription != "pro" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestUpdateTenant(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor *entity.Identity
		slug  string
		sub   string
		code  int
	}{
		{"member", w.acmeUser, "acme", "pro", http.StatusForbidden},
		{"other tenant", w.acmeAdmin, "globex", "pro", http.StatusForbidden},
		{"invalid tier", w.acmeAdmin, "acme", "enterprise", http.StatusBadRequest},
		{"missing tier", w.acmeAdmin, "acme", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.tenantSvc.UpdateTenant(ctx, tt.actor, tt.slug, &contract.UpdateTenantRequest{Subscription: tt.sub})
			if err == nil || err.Code() != tt.code {
				t.Errorf("UpdateTenant = %v, want %d", err, tt.code)
			}
		})
	}

	// free -> free is a no-op
	summary, err := w.tenantSvc.UpdateTenant(ctx, w.acmeAdmin, "acme", &contract.UpdateTenantRequest{Subscription: "free"})
	if err != nil || summary.Subscription != "free" {
		t.Fatalf("free -> free = %v, %v", summary, err)
	}

	summary, err = w.tenantSvc.UpdateTenant(ctx, w.acmeAdmin, "acme", &contract.UpdateTenantRequest{Subscription: "pro"})
	if err != nil || summary.Subscription != "pro" || summary.Slug != "acme" {
		t.Fatalf("free -> pro = %v, %v", summary, err)
	}

	_, err = w.tenantSvc.UpdateTenant(ctx, w.acmeAdmin, "acme", &contract.UpdateTenantRequest{Subscription: "free"})
	if err == nil || err.Code() != http.StatusBadRequest {
		t.Errorf("pro -> free = %v, want 400", err)
	}

	stored, _ := w.tenants.FindBySlug(ctx, "acme")
	if stored.Subscription != entity.SubscriptionPro {
		t.Errorf("stored subscription = %s", stored.Subscription)
	}

	// Upgrading an already pro tenant is harmless
	if _, err = w.tenantSvc.UpgradeTenant(ctx, w.acmeAdmin, "acme"); err != nil {
		t.Errorf("pro -> pro = %v", err)
	}
}

func TestUpgradeTenant_Guards(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	if _, err := w.tenantSvc.UpgradeTenant(ctx, w.acmeUser, "acme"); err == nil || err.Code() != http.StatusForbidden {
		t.Errorf("member upgrade = %v, want 403", err)
	}
	if _, err := w.tenantSvc.UpgradeTenant(ctx, w.acmeAdmin, "globex"); err == nil || err.Code() != http.StatusForbidden {
		t.Errorf("cross-tenant upgrade = %v, want 403", err)
	}

	stored, _ := w.tenants.FindBySlug(ctx, "globex")
	if stored.Subscription != entity.SubscriptionFree {
		t.Error("globex was upgraded by acme")
	}
}
