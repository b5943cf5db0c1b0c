// ABOUTME: Tests for RTP profile sync over the charm KV
// ABOUTME: Uses the badger-backed test client so no server is needed

package charm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/speedrun/models"
)

func TestPushPullProfile(t *testing.T) {
	c := NewTestClient(t)

	p, err := models.PresetProfile(models.StrategyMaximizeValue)
	require.NoError(t, err)
	require.NoError(t, p.Set("weightings.urgency", "12"))

	require.NoError(t, c.PushProfile("harper", p))

	got, err := c.PullProfile("harper")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPullProfileMissing(t *testing.T) {
	c := NewTestClient(t)

	_, err := c.PullProfile("nobody")
	assert.True(t, errors.Is(err, ErrNoRemoteProfile))
}

func TestPushProfileRejectsInvalid(t *testing.T) {
	c := NewTestClient(t)

	p := models.DefaultProfile()
	p.Weightings.DealSize = 500
	assert.Error(t, c.PushProfile("harper", p))
	assert.Error(t, c.PushProfile("", models.DefaultProfile()))

	users, err := c.ProfileUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestPullProfileRejectsCorruptData(t *testing.T) {
	c := NewTestClient(t)
	require.NoError(t, c.Set(profileKey("harper"), []byte("{not json")))

	_, err := c.PullProfile("harper")
	assert.Error(t, err)
}

func TestProfileUsers(t *testing.T) {
	c := NewTestClient(t)
	require.NoError(t, c.PushProfile("zed", models.DefaultProfile()))
	require.NoError(t, c.PushProfile("amy", models.DefaultProfile()))
	require.NoError(t, c.Set([]byte("unrelated"), []byte("x")))

	users, err := c.ProfileUsers()
	require.NoError(t, err)
	assert.Equal(t, []string{"amy", "zed"}, users)

	id, err := c.ID()
	require.NoError(t, err)
	assert.Equal(t, "test-user", id)
	assert.Equal(t, "localhost", c.Config().Host)
}
