package triage

import "strings"

// Classification is the urgency level derived from the analysis text.
type Classification string

const (
	ClassImmediateCare Classification = "seek_immediate_care"
	ClassSchedule      Classification = "schedule_appointment"
	ClassSelfCare      Classification = "self_care_recommended"
)

// Sentinel tokens the system prompt asks the model to lead with.
const (
	sentinelImmediate = "TRIAGE_IMMEDIATE"
	sentinelSchedule  = "TRIAGE_SCHEDULE"
	sentinelSelfCare  = "TRIAGE_SELF_CARE"
)

// Classify scans the analysis for the sentinel tokens in priority order
// IMMEDIATE > SCHEDULE > SELF_CARE. Priority, not string position, decides
// when more than one token appears. No token means no classification; that
// is a valid outcome, never an error.
func Classify(analysis string) (Classification, bool) {
	upper := strings.ToUpper(analysis)
	switch {
	case strings.Contains(upper, sentinelImmediate):
		return ClassImmediateCare, true
	case strings.Contains(upper, sentinelSchedule):
		return ClassSchedule, true
	case strings.Contains(upper, sentinelSelfCare):
		return ClassSelfCare, true
	}
	return "", false
}
