package triage

import "testing"

func TestClassifySentinels(t *testing.T) {
	cases := []struct {
		name     string
		analysis string
		want     Classification
		found    bool
	}{
		{"immediate leading", "TRIAGE_IMMEDIATE Go to the ER now.", ClassImmediateCare, true},
		{"schedule leading", "TRIAGE_SCHEDULE Likely migraine, see a doctor.", ClassSchedule, true},
		{"self care leading", "TRIAGE_SELF_CARE Rest and fluids.", ClassSelfCare, true},
		{"lowercase sentinel", "triage_schedule please book a visit", ClassSchedule, true},
		{"no sentinel", "You seem fine, drink water.", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := Classify(tc.analysis)
			if found != tc.found || got != tc.want {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tc.analysis, got, found, tc.want, tc.found)
			}
		})
	}
}

// Priority order decides, not string position: a response mentioning
// SELF_CARE before SCHEDULE still classifies as schedule.
func TestClassifyPriorityBeatsPosition(t *testing.T) {
	analysis := "TRIAGE_SELF_CARE might suffice, but TRIAGE_SCHEDULE is safer."
	got, found := Classify(analysis)
	if !found || got != ClassSchedule {
		t.Errorf("expected schedule to win over self-care, got (%q, %v)", got, found)
	}

	analysis = "TRIAGE_SELF_CARE or TRIAGE_SCHEDULE... actually TRIAGE_IMMEDIATE."
	got, found = Classify(analysis)
	if !found || got != ClassImmediateCare {
		t.Errorf("expected immediate to win, got (%q, %v)", got, found)
	}
}
