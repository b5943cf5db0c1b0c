// ABOUTME: Tests for CRM record models
// ABOUTME: Validates timestamp parsing, normalization helpers, and record predicates
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampParsing(t *testing.T) {
	tests := []struct {
		name  string
		input Timestamp
		ok    bool
		want  time.Time
	}{
		{"rfc3339", "2025-03-04T10:30:00Z", true, time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", "2025-03-04T10:30:00-05:00", true, time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC)},
		{"sql datetime", "2025-03-04 10:30:00", true, time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)},
		{"date only", "2025-03-04", true, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"empty", "", false, time.Time{}},
		{"whitespace", "   ", false, time.Time{}},
		{"garbage", "last tuesday", false, time.Time{}},
		{"bad month", "2025-13-40", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.input.Time()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
			}
		})
	}
}

func TestTimestampSetReportsMalformedValues(t *testing.T) {
	assert.True(t, Timestamp("not a date").Set())
	assert.False(t, Timestamp("").Set())
}

func TestTimestampOfRoundTrips(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	got, ok := TimestampOf(at).Time()
	require.True(t, ok)
	assert.True(t, at.Equal(got))
}

func TestParseRecordKind(t *testing.T) {
	tests := map[string]RecordKind{
		"lead":          KindLead,
		"Leads":         KindLead,
		"opportunities": KindOpportunity,
		"people":        KindPerson,
		"account":       KindAccount,
		" prospects ":   KindProspect,
	}
	for input, want := range tests {
		got, ok := ParseRecordKind(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := ParseRecordKind("partner")
	assert.False(t, ok)
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, "closed_won", NormalizeStage("Closed Won"))
	assert.Equal(t, "needs_analysis", NormalizeStage("needs-analysis"))
	assert.Equal(t, "demo-scheduled", NormalizeStatus("Demo_Scheduled"))
	assert.Equal(t, RoleDecisionMaker, NormalizeRole("decision-maker"))
	assert.Equal(t, RoleStakeholder, NormalizeRole("Influencer"))
	assert.Equal(t, "", NormalizeRole("cfo"))
}

func TestRecordPredicates(t *testing.T) {
	r := Record{Type: "Partner"}
	assert.True(t, r.IsPartner())
	assert.False(t, r.HasContactChannel())

	r = Record{Type: "customer", Phone: "+1 555 0100"}
	assert.False(t, r.IsPartner())
	assert.True(t, r.HasContactChannel())
}

func TestUrgencySeverityOrdering(t *testing.T) {
	levels := []Urgency{UrgencyImmediate, UrgencyUrgent, UrgencySoon, UrgencyRoutine, UrgencyFuture}
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1].Severity(), levels[i].Severity())
	}
}

func TestTimestampTimeInReadsBareDatesLocally(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)

	got, ok := Timestamp("2025-10-04").TimeIn(loc)
	require.True(t, ok)
	assert.Equal(t, 4, got.Day())
	assert.Equal(t, loc, got.Location())

	got, ok = Timestamp("2025-10-04T01:00:00Z").TimeIn(loc)
	require.True(t, ok)
	assert.Equal(t, 3, got.In(loc).Day(), "explicit offsets win over loc")
}
