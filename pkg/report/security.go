package report

import (
	"sort"
	"strings"
)

// Security sub-score weights.
const (
	weightCompliance = 0.4
	weightFeatures   = 0.3
	weightRisk       = 0.2
	weightMaturity   = 0.1
)

type SecurityFeature struct {
	Name      string `json:"name"`
	Supported bool   `json:"supported"`
}

type Vulnerability struct {
	CVE      string `json:"cve"`
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
}

type ComplianceResult struct {
	Standard string `json:"standard"`
	Met      bool   `json:"met"`
}

type SecurityAssessment struct {
	Database        string             `json:"database"`
	Features        []SecurityFeature  `json:"features"`
	Compliance      []ComplianceResult `json:"compliance"`
	Vulnerabilities []Vulnerability    `json:"vulnerabilities"`

	FeatureScore    float64 `json:"feature_score"`
	ComplianceScore float64 `json:"compliance_score"`
	RiskScore       float64 `json:"risk_score"`
	MaturityScore   float64 `json:"maturity_score"`
	Overall         float64 `json:"overall"`
	Grade           string  `json:"grade"`
}

// maturityScores reflect how long each engine has hardened its security
// surface in production deployments.
var maturityScores = map[string]float64{
	DatabasePostgreSQL: 95,
	DatabaseMongoDB:    85,
	DatabaseInfluxDB:   75,
}

var securityFeatures = map[string][]SecurityFeature{
	DatabasePostgreSQL: {
		{Name: "encryption_at_rest", Supported: true},
		{Name: "tls_in_transit", Supported: true},
		{Name: "role_based_access_control", Supported: true},
		{Name: "row_level_security", Supported: true},
		{Name: "audit_logging", Supported: true},
		{Name: "column_level_encryption", Supported: true},
		{Name: "ldap_integration", Supported: true},
		{Name: "token_authentication", Supported: false},
	},
	DatabaseInfluxDB: {
		{Name: "encryption_at_rest", Supported: false},
		{Name: "tls_in_transit", Supported: true},
		{Name: "role_based_access_control", Supported: false},
		{Name: "row_level_security", Supported: false},
		{Name: "audit_logging", Supported: false},
		{Name: "column_level_encryption", Supported: false},
		{Name: "ldap_integration", Supported: false},
		{Name: "token_authentication", Supported: true},
	},
	DatabaseMongoDB: {
		{Name: "encryption_at_rest", Supported: true},
		{Name: "tls_in_transit", Supported: true},
		{Name: "role_based_access_control", Supported: true},
		{Name: "row_level_security", Supported: false},
		{Name: "audit_logging", Supported: true},
		{Name: "column_level_encryption", Supported: true},
		{Name: "ldap_integration", Supported: true},
		{Name: "token_authentication", Supported: false},
	},
}

var knownVulnerabilities = map[string][]Vulnerability{
	DatabasePostgreSQL: {
		{CVE: "CVE-2023-5869", Severity: "high", Summary: "integer overflow in array modification allows writes past buffer end"},
	},
	DatabaseInfluxDB: {
		{CVE: "CVE-2019-20933", Severity: "critical", Summary: "authentication bypass via JWT token with empty shared secret"},
	},
	DatabaseMongoDB: {
		{CVE: "CVE-2021-20330", Severity: "medium", Summary: "malformed wire message can crash mongod"},
	},
}

// complianceKeywords maps each standard to the feature-name keywords that
// count toward it.
var complianceKeywords = map[string][]string{
	"HIPAA": {"encrypt", "audit", "access"},
	"GDPR":  {"encrypt", "audit"},
	"SOC2":  {"audit", "access", "tls"},
}

var severityPenalty = map[string]float64{
	"critical": 40,
	"high":     25,
	"medium":   10,
	"low":      5,
}

// AssessSecurity builds the canned security assessment for one database.
func AssessSecurity(db string) *SecurityAssessment {
	a := &SecurityAssessment{
		Database:        db,
		Features:        securityFeatures[db],
		Vulnerabilities: knownVulnerabilities[db],
		MaturityScore:   maturityScores[db],
	}

	supported := 0
	for _, f := range a.Features {
		if f.Supported {
			supported++
		}
	}
	if len(a.Features) > 0 {
		a.FeatureScore = 100 * float64(supported) / float64(len(a.Features))
	}

	a.Compliance = checkCompliance(a.Features)
	met := 0
	for _, c := range a.Compliance {
		if c.Met {
			met++
		}
	}
	if len(a.Compliance) > 0 {
		a.ComplianceScore = 100 * float64(met) / float64(len(a.Compliance))
	}

	a.RiskScore = 100
	for _, v := range a.Vulnerabilities {
		a.RiskScore -= severityPenalty[v.Severity]
	}
	if a.RiskScore < 0 {
		a.RiskScore = 0
	}

	a.Overall = weightCompliance*a.ComplianceScore +
		weightFeatures*a.FeatureScore +
		weightRisk*a.RiskScore +
		weightMaturity*a.MaturityScore
	a.Grade = gradeFor(a.Overall)
	return a
}

// checkCompliance marks a standard as met when every keyword matches the
// name of some supported feature. Matching is by substring, so a keyword
// like "access" is satisfied by role_based_access_control even though the
// standard may require a narrower control. Kept as-is to stay comparable
// with historical report runs.
func checkCompliance(features []SecurityFeature) []ComplianceResult {
	standards := make([]string, 0, len(complianceKeywords))
	for s := range complianceKeywords {
		standards = append(standards, s)
	}
	sort.Strings(standards)

	results := make([]ComplianceResult, 0, len(standards))
	for _, standard := range standards {
		met := true
		for _, keyword := range complianceKeywords[standard] {
			found := false
			for _, f := range features {
				if f.Supported && strings.Contains(f.Name, keyword) {
					found = true
					break
				}
			}
			if !found {
				met = false
				break
			}
		}
		results = append(results, ComplianceResult{Standard: standard, Met: met})
	}
	return results
}

func gradeFor(score float64) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
