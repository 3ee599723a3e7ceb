package health

import "testing"

func TestIsAlertThresholds(t *testing.T) {
	cases := []struct {
		desc  string
		vital string
		value float64
		want  bool
	}{
		{"tachycardia", "heart_rate_bpm", 130, true},
		{"bradycardia", "heart_rate_bpm", 45, true},
		{"normal heart rate", "heart_rate_bpm", 72, false},
		{"heart rate upper edge", "heart_rate_bpm", 120, false},
		{"hypoxia", "spo2_percent", 88, true},
		{"normal spo2", "spo2_percent", 97, false},
		{"spo2 edge", "spo2_percent", 92, false},
		{"hypertensive", "blood_pressure_sys_mmhg", 170, true},
		{"hypotensive", "blood_pressure_sys_mmhg", 85, true},
		{"normal systolic", "blood_pressure_sys_mmhg", 120, false},
	}
	for _, c := range cases {
		if got := IsAlert(c.vital, c.value); got != c.want {
			t.Errorf("%s: IsAlert(%s, %v) = %v, want %v", c.desc, c.vital, c.value, got, c.want)
		}
	}
}

func TestHeartRateOffset(t *testing.T) {
	cases := []struct {
		hour int
		want float64
	}{
		{0, 0},
		{2, -10},
		{4, -10},
		{6, -10},
		{7, 0},
		{8, 5},
		{12, 5},
		{18, 5},
		{19, 0},
		{23, 0},
	}
	for _, c := range cases {
		if got := HeartRateOffset(c.hour); got != c.want {
			t.Errorf("HeartRateOffset(%d) = %v, want %v", c.hour, got, c.want)
		}
	}
}

func TestHeartRateJitter(t *testing.T) {
	cases := []struct {
		hour int
		want float64
	}{
		{0, 8},
		{2, 5},
		{6, 5},
		{7, 8},
		{8, 10},
		{18, 10},
		{19, 8},
		{23, 8},
	}
	for _, c := range cases {
		if got := HeartRateJitter(c.hour); got != c.want {
			t.Errorf("HeartRateJitter(%d) = %v, want %v", c.hour, got, c.want)
		}
	}
}

func TestHeartRateChannelStaysInHourBand(t *testing.T) {
	kind, ok := VitalKindByName("heart_rate_bpm")
	if !ok {
		t.Fatal("heart_rate_bpm not found")
	}
	c := newVitalChannel(kind)

	cases := []struct {
		desc string
		hour int
		low  float64
		high float64
	}{
		{"sleep", 4, 57, 67},
		{"active", 12, 67, 87},
		{"evening", 21, 64, 80},
	}
	for _, bc := range cases {
		for i := 0; i < 10000; i++ {
			v := c.next(bc.hour)
			if v < bc.low || v > bc.high {
				t.Fatalf("%s hour %d: reading %v outside [%v, %v]", bc.desc, bc.hour, v, bc.low, bc.high)
			}
		}
	}
}

func TestVitalKindByName(t *testing.T) {
	kind, ok := VitalKindByName("spo2_percent")
	if !ok {
		t.Fatal("spo2_percent not found")
	}
	if kind.Min != 70 || kind.Max != 100 || kind.Typical != 98 {
		t.Errorf("unexpected spo2 range: %+v", kind)
	}

	if _, ok := VitalKindByName("no_such_vital"); ok {
		t.Error("unknown vital reported as found")
	}
}

func TestVitalKindsCoverAllChannels(t *testing.T) {
	if len(VitalKinds) != 7 {
		t.Fatalf("expected 7 vital kinds, got %d", len(VitalKinds))
	}
	for _, k := range VitalKinds {
		if k.Min >= k.Max {
			t.Errorf("%s: min %v not below max %v", k.Name, k.Min, k.Max)
		}
		if k.Typical < k.Min || k.Typical > k.Max {
			t.Errorf("%s: typical %v outside [%v, %v]", k.Name, k.Typical, k.Min, k.Max)
		}
	}
}
