package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/domain"
)

func makeAuth(desc string, active bool, permCount int) domain.Authorization {
	status := domain.AuthorizationUpdateRequestStatusInactive
	if active {
		status = domain.AuthorizationUpdateRequestStatusActive
	}
	perms := make([]domain.Permission, permCount)
	for i := range perms {
		perms[i] = domain.Permission{
			Action:   domain.PermissionActionRead,
			Resource: domain.Resource{Type: domain.ResourceTypeBuckets},
		}
	}
	auth := domain.Authorization{
		AuthorizationUpdateRequest: domain.AuthorizationUpdateRequest{Status: &status},
		Permissions:                &perms,
	}
	if desc != "" {
		auth.Description = &desc
	}
	return auth
}

func TestStandardDefinitions(t *testing.T) {
	defs := StandardDefinitions()
	if len(defs) != 5 {
		t.Fatalf("expected 5 standard tokens, got %d", len(defs))
	}

	wantNames := map[string]bool{
		"health_iot_admin":  true,
		"health_iot_write":  true,
		"health_iot_read":   true,
		"health_iot_alert":  true,
		"health_iot_backup": true,
	}
	for _, d := range defs {
		if !wantNames[d.Name] {
			t.Errorf("unexpected token name %s", d.Name)
		}
		if len(d.Permissions) == 0 {
			t.Errorf("%s has no permissions", d.Name)
		}
	}
}

func TestBuildPermissions(t *testing.T) {
	specs := []PermissionSpec{
		{Resource: domain.ResourceTypeBuckets, Read: true, Write: true},
		{Resource: domain.ResourceTypeTasks, Read: true},
	}
	perms := BuildPermissions(specs, "org123")
	if len(perms) != 3 {
		t.Fatalf("expected 3 permissions, got %d", len(perms))
	}
	for _, p := range perms {
		if p.Resource.OrgID == nil || *p.Resource.OrgID != "org123" {
			t.Errorf("permission not scoped to organization: %+v", p)
		}
	}
	if perms[0].Action != domain.PermissionActionRead || perms[1].Action != domain.PermissionActionWrite {
		t.Error("bucket read/write pair not built in order")
	}
}

func TestAuditFindings(t *testing.T) {
	auths := []domain.Authorization{
		makeAuth("healthy_token", true, 3),
		makeAuth("stale_token", false, 3),
		makeAuth("broad_token", true, 25),
		makeAuth("", true, 1),
	}

	findings := Audit(auths)

	hasFinding := func(token, substr string) bool {
		for _, f := range findings {
			if f.Token == token && strings.Contains(f.Message, substr) {
				return true
			}
		}
		return false
	}

	if !hasFinding("stale_token", "inactive") {
		t.Error("inactive token not flagged")
	}
	if !hasFinding("broad_token", "25 permissions") {
		t.Error("over-privileged token not flagged")
	}
	if !hasFinding("(no description)", "no description") {
		t.Error("description-less token not flagged")
	}
	for _, f := range findings {
		if f.Token == "healthy_token" {
			t.Errorf("healthy token flagged: %+v", f)
		}
	}
}

func TestExportRedactsSecrets(t *testing.T) {
	secret := "supersecrettokenvalue1234567890"
	auth := makeAuth("health_iot_read", true, 1)
	auth.Token = &secret
	now := time.Now()
	auth.CreatedAt = &now

	raw, err := Export([]domain.Authorization{auth})
	if err != nil {
		t.Fatal(err)
	}
	out := string(raw)

	if strings.Contains(out, secret) {
		t.Error("export leaks the full secret")
	}
	if !strings.Contains(out, secret[:8]+"...") {
		t.Error("export missing the redacted prefix")
	}
	if !strings.Contains(out, `"status": "active"`) {
		t.Errorf("export missing status:\n%s", out)
	}
}
