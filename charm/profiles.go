// ABOUTME: RTP profile sync over Charm KV
// ABOUTME: Pushes and pulls per-user profiles as JSON so settings follow the seller across devices

package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/speedrun/models"
)

const profileKeyPrefix = "rtp-profile:"

// ErrNoRemoteProfile is returned when nothing has been pushed for a user.
var ErrNoRemoteProfile = errors.New("no synced profile")

func profileKey(userID string) []byte {
	return []byte(profileKeyPrefix + userID)
}

// PushProfile validates and stores a user's profile.
func (c *Client) PushProfile(userID string, p models.Profile) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := c.Set(profileKey(userID), data); err != nil {
		return fmt.Errorf("failed to push profile: %w", err)
	}
	return nil
}

// PullProfile fetches a user's profile after syncing with the server.
func (c *Client) PullProfile(userID string) (models.Profile, error) {
	if err := c.Sync(); err != nil {
		return models.Profile{}, fmt.Errorf("failed to sync: %w", err)
	}

	data, err := c.Get(profileKey(userID))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.Profile{}, fmt.Errorf("%w for %q", ErrNoRemoteProfile, userID)
		}
		return models.Profile{}, fmt.Errorf("failed to pull profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Profile{}, fmt.Errorf("failed to parse synced profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// ProfileUsers lists the users with a synced profile.
func (c *Client) ProfileUsers() ([]string, error) {
	keys, err := c.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var users []string
	for _, k := range keys {
		if s := string(k); strings.HasPrefix(s, profileKeyPrefix) {
			users = append(users, strings.TrimPrefix(s, profileKeyPrefix))
		}
	}
	sort.Strings(users)
	return users, nil
}
