package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/pkg/errors"

	"github.com/vitalbench/vitalbench/pkg/influx"
)

// Manager wraps the authorization API with the operations the token CLI
// exposes.
type Manager struct {
	authAPI api.AuthorizationsAPI
	orgID   string
	orgName string
}

func NewManager(ctx context.Context, client *influx.Client) (*Manager, error) {
	orgID, err := client.OrganizationID(ctx)
	if err != nil {
		return nil, err
	}
	return &Manager{
		authAPI: client.AuthorizationsAPI(),
		orgID:   orgID,
		orgName: client.Org(),
	}, nil
}

// List returns every authorization of the organization.
func (m *Manager) List(ctx context.Context) ([]domain.Authorization, error) {
	auths, err := m.authAPI.FindAuthorizationsByOrgID(ctx, m.orgID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list authorizations")
	}
	if auths == nil {
		return nil, nil
	}
	return *auths, nil
}

// Find locates an authorization by its description.
func (m *Manager) Find(ctx context.Context, name string) (*domain.Authorization, error) {
	auths, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range auths {
		if Description(&auths[i]) == name {
			return &auths[i], nil
		}
	}
	return nil, errors.Errorf("no token named %q", name)
}

// Create provisions a new token from a definition and returns it with the
// secret populated.
func (m *Manager) Create(ctx context.Context, def Definition) (*domain.Authorization, error) {
	perms := BuildPermissions(def.Permissions, m.orgID)
	desc := def.Name
	status := domain.AuthorizationUpdateRequestStatusActive
	auth := &domain.Authorization{
		AuthorizationUpdateRequest: domain.AuthorizationUpdateRequest{
			Description: &desc,
			Status:      &status,
		},
		OrgID:       &m.orgID,
		Permissions: &perms,
	}
	created, err := m.authAPI.CreateAuthorization(ctx, auth)
	return created, errors.Wrapf(err, "cannot create token %q", def.Name)
}

// SetActive flips a token between active and inactive.
func (m *Manager) SetActive(ctx context.Context, auth *domain.Authorization, active bool) (*domain.Authorization, error) {
	status := domain.AuthorizationUpdateRequestStatusInactive
	if active {
		status = domain.AuthorizationUpdateRequestStatusActive
	}
	updated, err := m.authAPI.UpdateAuthorizationStatus(ctx, auth, status)
	return updated, errors.Wrapf(err, "cannot update token %q", Description(auth))
}

// Delete revokes a token permanently.
func (m *Manager) Delete(ctx context.Context, auth *domain.Authorization) error {
	return errors.Wrapf(m.authAPI.DeleteAuthorization(ctx, auth), "cannot delete token %q", Description(auth))
}

// Setup provisions the standard token set, skipping tokens that already
// exist. It returns the definitions it created.
func (m *Manager) Setup(ctx context.Context) ([]Definition, error) {
	existing, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(existing))
	for i := range existing {
		present[Description(&existing[i])] = true
	}

	var created []Definition
	for _, def := range StandardDefinitions() {
		if present[def.Name] {
			continue
		}
		if _, err := m.Create(ctx, def); err != nil {
			return created, err
		}
		created = append(created, def)
	}
	return created, nil
}

// Rotate replaces a token with a fresh secret carrying the same permissions.
// The old token is deactivated rather than deleted so in-flight clients keep
// working until the new secret is rolled out.
func (m *Manager) Rotate(ctx context.Context, name string, now time.Time) (*domain.Authorization, error) {
	old, err := m.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("%s (Rotated %s)", Description(old), now.UTC().Format("2006-01-02"))
	status := domain.AuthorizationUpdateRequestStatusActive
	replacement := &domain.Authorization{
		AuthorizationUpdateRequest: domain.AuthorizationUpdateRequest{
			Description: &desc,
			Status:      &status,
		},
		OrgID:       &m.orgID,
		Permissions: old.Permissions,
	}
	created, err := m.authAPI.CreateAuthorization(ctx, replacement)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create replacement for %q", name)
	}

	if _, err := m.SetActive(ctx, old, false); err != nil {
		return created, errors.Wrapf(err, "replacement created but old token %q still active", name)
	}
	return created, nil
}

// Description returns the authorization description, empty when unset.
func Description(auth *domain.Authorization) string {
	if auth.Description == nil {
		return ""
	}
	return *auth.Description
}

// IsActive reports whether the authorization status is active.
func IsActive(auth *domain.Authorization) bool {
	return auth.Status != nil && *auth.Status == domain.AuthorizationUpdateRequestStatusActive
}

// PermissionCount returns the number of granted permissions.
func PermissionCount(auth *domain.Authorization) int {
	if auth.Permissions == nil {
		return 0
	}
	return len(*auth.Permissions)
}
