package tokens

import (
	"encoding/json"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/domain"
)

const redactedSecretLen = 8

// ExportEntry is the redacted form of a token, safe to hand to an auditor.
// The secret is truncated so it can be matched against client configs
// without being usable.
type ExportEntry struct {
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	TokenPrefix     string     `json:"token_prefix"`
	PermissionCount int        `json:"permission_count"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// Export renders the authorization list as an indented JSON document with
// the secrets redacted.
func Export(auths []domain.Authorization) ([]byte, error) {
	entries := make([]ExportEntry, 0, len(auths))
	for i := range auths {
		auth := &auths[i]
		entry := ExportEntry{
			Name:            Description(auth),
			Status:          "inactive",
			PermissionCount: PermissionCount(auth),
			CreatedAt:       auth.CreatedAt,
			UpdatedAt:       auth.UpdatedAt,
		}
		if IsActive(auth) {
			entry.Status = "active"
		}
		if auth.Token != nil {
			secret := *auth.Token
			if len(secret) > redactedSecretLen {
				secret = secret[:redactedSecretLen]
			}
			entry.TokenPrefix = secret + "..."
		}
		entries = append(entries, entry)
	}
	return json.MarshalIndent(entries, "", "  ")
}
