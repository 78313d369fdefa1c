package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int          `toml:"version"`
	Items   []itemSchema `toml:"items"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported items schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type itemSchema struct {
	ID             string   `toml:"id"`
	Name           string   `toml:"name"`
	Kind           string   `toml:"kind"`
	Location       string   `toml:"location,omitempty"`
	EntityID       string   `toml:"entity_id,omitempty"`
	MonitorID      string   `toml:"monitor_id,omitempty"`
	Tags           []string `toml:"tags,omitempty"`
	LastObservedAt string   `toml:"last_observed_at,omitempty"`
	CreatedAt      string   `toml:"created_at,omitempty"`
	UpdatedAt      string   `toml:"updated_at,omitempty"`
}
