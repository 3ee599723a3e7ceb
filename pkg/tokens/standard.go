// Package tokens manages the InfluxDB API tokens of the benchmark
// deployment: the standard token set, status changes, rotation and audits.
package tokens

import (
	"github.com/influxdata/influxdb-client-go/v2/domain"
)

// Definition describes one API token the deployment expects to exist. The
// Name doubles as the token description in InfluxDB, which is how tokens are
// looked up later.
type Definition struct {
	Name        string
	Purpose     string
	Permissions []PermissionSpec
}

// PermissionSpec is a resource type plus the actions granted on it.
type PermissionSpec struct {
	Resource domain.ResourceType
	Read     bool
	Write    bool
}

// StandardDefinitions is the token set every benchmark deployment is
// provisioned with.
func StandardDefinitions() []Definition {
	return []Definition{
		{
			Name:    "health_iot_admin",
			Purpose: "full administrative access for the benchmark operator",
			Permissions: []PermissionSpec{
				{Resource: domain.ResourceTypeBuckets, Read: true, Write: true},
				{Resource: domain.ResourceTypeTasks, Read: true, Write: true},
				{Resource: domain.ResourceTypeOrgs, Read: true, Write: true},
				{Resource: domain.ResourceTypeUsers, Read: true, Write: true},
				{Resource: domain.ResourceTypeDashboards, Read: true, Write: true},
				{Resource: domain.ResourceTypeAuthorizations, Read: true, Write: true},
			},
		},
		{
			Name:    "health_iot_write",
			Purpose: "ingestion pipeline, write-only access to the metrics bucket",
			Permissions: []PermissionSpec{
				{Resource: domain.ResourceTypeBuckets, Write: true},
			},
		},
		{
			Name:    "health_iot_read",
			Purpose: "dashboards and analysts, read-only access",
			Permissions: []PermissionSpec{
				{Resource: domain.ResourceTypeBuckets, Read: true},
			},
		},
		{
			Name:    "health_iot_alert",
			Purpose: "alerting service, reads vitals and manages checks",
			Permissions: []PermissionSpec{
				{Resource: domain.ResourceTypeBuckets, Read: true},
				{Resource: domain.ResourceTypeChecks, Read: true, Write: true},
				{Resource: domain.ResourceTypeNotificationRules, Read: true, Write: true},
			},
		},
		{
			Name:    "health_iot_backup",
			Purpose: "backup job, read-only access to buckets and tasks",
			Permissions: []PermissionSpec{
				{Resource: domain.ResourceTypeBuckets, Read: true},
				{Resource: domain.ResourceTypeTasks, Read: true},
				{Resource: domain.ResourceTypeOrgs, Read: true},
			},
		},
	}
}

// BuildPermissions expands the specs into the API permission list, scoped to
// the given organization.
func BuildPermissions(specs []PermissionSpec, orgID string) []domain.Permission {
	perms := make([]domain.Permission, 0, len(specs)*2)
	for _, spec := range specs {
		resource := domain.Resource{Type: spec.Resource, OrgID: &orgID}
		if spec.Read {
			perms = append(perms, domain.Permission{Action: domain.PermissionActionRead, Resource: resource})
		}
		if spec.Write {
			perms = append(perms, domain.Permission{Action: domain.PermissionActionWrite, Resource: resource})
		}
	}
	return perms
}
