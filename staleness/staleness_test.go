// ABOUTME: Tests for the staleness classifier
// ABOUTME: Verifies labels, tier boundaries, monotonicity and field resolution order
package staleness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harperreed/speedrun/models"
)

var now = time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC)

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		label   string
		tier    Tier
	}{
		{"seconds", 30 * time.Second, "Just now", TierRecent},
		{"minutes", 45 * time.Minute, "45m ago", TierRecent},
		{"hours", 5 * time.Hour, "5h ago", TierRecent},
		{"yesterday", 30 * time.Hour, "Yesterday", TierRecent},
		{"three days", 3 * 24 * time.Hour, "3d ago", TierRecent},
		{"four days", 4 * 24 * time.Hour, "4d ago", TierModerate},
		{"eight days rounds up", 8 * 24 * time.Hour, "2w ago", TierModerate},
		{"fifteen days", 15 * 24 * time.Hour, "3w ago", TierStale},
		{"thirty days", 30 * 24 * time.Hour, "1mo ago", TierStale},
		{"thirty one days", 31 * 24 * time.Hour, "1mo ago", TierVeryStale},
		{"six months", 190 * 24 * time.Hour, "6mo ago", TierVeryStale},
		{"fourteen months rounds up", 420 * 24 * time.Hour, "2y ago", TierVeryStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(now.Add(-tt.elapsed), true, now)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.tier, got.Tier)
			assert.True(t, got.Known)
		})
	}
}

func TestClassifyNever(t *testing.T) {
	got := Classify(time.Time{}, false, now)
	assert.Equal(t, TierNever, got.Tier)
	assert.Equal(t, NeverLabel, got.Label)
	assert.Equal(t, models.ColorGray, got.Timing().Color)
	assert.False(t, got.Known)
}

func TestClassifyFutureIsJustNow(t *testing.T) {
	got := Classify(now.Add(48*time.Hour), true, now)
	assert.Equal(t, "Just now", got.Label)
	assert.Equal(t, TierRecent, got.Tier)
}

func TestTierIsMonotonic(t *testing.T) {
	prev := -1
	for hours := 0; hours < 24*800; hours += 7 {
		got := Classify(now.Add(-time.Duration(hours)*time.Hour), true, now)
		assert.GreaterOrEqual(t, got.Tier.Rank(), prev, "tier went backwards at %dh", hours)
		prev = got.Tier.Rank()
	}
	assert.Equal(t, TierVeryStale.Rank(), prev)
	assert.Less(t, prev, TierNever.Rank())
}

func TestResolveLastContactOrder(t *testing.T) {
	r := models.Record{
		LastContactDate:  "garbage",
		LastEngagementAt: "2025-10-01T09:00:00Z",
		LastEmailAt:      "2025-10-10T09:00:00Z",
		UpdatedAt:        now,
	}

	got, ok := ResolveLastContact(r)
	assert.True(t, ok)
	assert.Equal(t, 1, got.Day(), "malformed contact date is skipped, engagement wins over email")

	r.LastEngagementAt = ""
	got, _ = ResolveLastContact(r)
	assert.Equal(t, 10, got.Day())

	r.LastEmailAt = ""
	r.LastActivityAt = "2025-09-20"
	got, _ = ResolveLastContact(r)
	assert.Equal(t, 20, got.Day())

	r.LastActivityAt = ""
	got, _ = ResolveLastContact(r)
	assert.True(t, now.Equal(got))

	r.UpdatedAt = time.Time{}
	_, ok = ResolveLastContact(r)
	assert.False(t, ok)
}

func TestClassifyRecordMalformedIsNever(t *testing.T) {
	got := ClassifyRecord(models.Record{LastContactDate: "31/31/2025"}, now)
	assert.Equal(t, TierNever, got.Tier)
}

func TestTierColors(t *testing.T) {
	assert.Equal(t, models.ColorGreen, TierRecent.Color())
	assert.Equal(t, models.ColorYellow, TierModerate.Color())
	assert.Equal(t, models.ColorOrange, TierStale.Color())
	assert.Equal(t, models.ColorRed, TierVeryStale.Color())
}
