// ABOUTME: Configuration for Charm KV backend connection
// ABOUTME: Holds the server host and auto-sync preference for profile sync

package charm

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName is the application name for Charm KV database.
	AppName = "speedrun"
)

// Config holds charm connection settings.
type Config struct {
	// Host is the charm server hostname (default: charm.2389.dev)
	Host string `json:"host,omitempty"`

	// AutoSync pushes to the server after every write
	AutoSync bool `json:"auto_sync"`
}

// DefaultConfig returns a config for host, falling back to the default server.
func DefaultConfig(host string) *Config {
	if host == "" {
		host = DefaultCharmHost
	}
	return &Config{
		Host:     host,
		AutoSync: true,
	}
}
