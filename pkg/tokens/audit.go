package tokens

import (
	"fmt"

	"github.com/influxdata/influxdb-client-go/v2/domain"
)

const overPrivilegedThreshold = 20

// Finding is one audit observation about a token.
type Finding struct {
	Token    string `json:"token"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Audit inspects the authorization list for hygiene problems: inactive
// tokens that were never cleaned up, tokens with an excessive permission
// grant and tokens missing a description.
func Audit(auths []domain.Authorization) []Finding {
	var findings []Finding
	for i := range auths {
		auth := &auths[i]
		name := Description(auth)
		if name == "" {
			name = "(no description)"
			findings = append(findings, Finding{
				Token:    name,
				Severity: SeverityWarning,
				Message:  "token has no description, its purpose cannot be traced",
			})
		}
		if !IsActive(auth) {
			findings = append(findings, Finding{
				Token:    name,
				Severity: SeverityInfo,
				Message:  "token is inactive, delete it if the rotation has completed",
			})
		}
		if n := PermissionCount(auth); n > overPrivilegedThreshold {
			findings = append(findings, Finding{
				Token:    name,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("token carries %d permissions, review whether it needs that many", n),
			})
		}
	}
	return findings
}
