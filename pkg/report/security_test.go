package report

import "testing"

func TestAssessSecurityMaturityOrdering(t *testing.T) {
	pg := AssessSecurity(DatabasePostgreSQL)
	mongo := AssessSecurity(DatabaseMongoDB)
	influx := AssessSecurity(DatabaseInfluxDB)

	if pg.MaturityScore != 95 || mongo.MaturityScore != 85 || influx.MaturityScore != 75 {
		t.Errorf("maturity scores = %v/%v/%v, want 95/85/75",
			pg.MaturityScore, mongo.MaturityScore, influx.MaturityScore)
	}
	if !(pg.Overall > mongo.Overall && mongo.Overall > influx.Overall) {
		t.Errorf("expected pg > mongo > influx overall, got %v/%v/%v",
			pg.Overall, mongo.Overall, influx.Overall)
	}
}

func TestAssessSecurityCompliance(t *testing.T) {
	pg := AssessSecurity(DatabasePostgreSQL)
	for _, c := range pg.Compliance {
		if !c.Met {
			t.Errorf("postgresql should meet %s", c.Standard)
		}
	}

	influx := AssessSecurity(DatabaseInfluxDB)
	for _, c := range influx.Compliance {
		if c.Standard == "HIPAA" && c.Met {
			t.Error("influxdb should not meet HIPAA without audit logging")
		}
	}
}

func TestAssessSecurityCarriesCVEs(t *testing.T) {
	for _, db := range Databases {
		a := AssessSecurity(db)
		if len(a.Vulnerabilities) == 0 {
			t.Errorf("%s has no tracked vulnerabilities", db)
		}
		for _, v := range a.Vulnerabilities {
			if v.CVE == "" || v.Severity == "" {
				t.Errorf("%s vulnerability incomplete: %+v", db, v)
			}
		}
	}
}

func TestGradeFor(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{97, "A+"},
		{92, "A"},
		{85, "B"},
		{75, "C"},
		{65, "D"},
		{40, "F"},
	}
	for _, c := range cases {
		if got := gradeFor(c.score); got != c.want {
			t.Errorf("gradeFor(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}
