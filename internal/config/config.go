// Package config loads dbscribe's TOML configuration file and validates
// it against the recognized keys in §6. A bad value for a recognized key
// is an InvalidConfiguration error surfaced at boot, per the error
// taxonomy in §7.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"dbscribe/internal/core"
	"dbscribe/internal/introspect"
)

// Models holds the `models.*` keys.
type Models struct {
	Path                 string   `toml:"path"`
	Namespace            string   `toml:"namespace"`
	BaseClass            string   `toml:"base_class"`
	GenerateRelationships *bool   `toml:"generate_relationships"`
	GenerateScopes       *bool    `toml:"generate_scopes"`
	UseFillable          *bool    `toml:"use_fillable"`
	GuardedColumns       []string `toml:"guarded_columns"`
}

func (m Models) generateRelationships() bool { return m.GenerateRelationships == nil || *m.GenerateRelationships }
func (m Models) generateScopes() bool        { return m.GenerateScopes == nil || *m.GenerateScopes }
func (m Models) useFillable() bool           { return m.UseFillable == nil || *m.UseFillable }

// Formatting holds the `formatting.*` keys.
type Formatting struct {
	Indent      string `toml:"indent"`
	SortImports bool   `toml:"sort_imports"`
}

// Features holds the `features.*` keys.
type Features struct {
	SeparateForeignKeys bool `toml:"separate_foreign_keys"`
	DetectPolymorphic   bool `toml:"detect_polymorphic"`
	Concurrency         int  `toml:"concurrency"`
}

// ConnectionConfig names the dialect and DSN a `connection` key resolves
// to. §6 specifies `connection` only as "default connection name"; the
// `[connections.NAME]` table is this port's necessary extension to give
// that name somewhere to resolve to, since DB connection acquisition is
// an out-of-scope collaborator with no other source of dialect/DSN data.
type ConnectionConfig struct {
	Dialect string `toml:"dialect"`
	DSN     string `toml:"dsn"`
}

// Config is the full recognized configuration surface from §6.
type Config struct {
	Connection     string                       `toml:"connection"`
	Connections    map[string]ConnectionConfig  `toml:"connections"`
	ExcludeTables  []string                      `toml:"exclude_tables"`
	MigrationsPath string                        `toml:"migrations_path"`
	Models         Models                        `toml:"models"`
	TypeMappings   map[string]map[string]string `toml:"type_mappings"` // dialect -> native token -> canonical type
	Formatting     Formatting                    `toml:"formatting"`
	Features       Features                      `toml:"features"`
}

// Default returns a Config with every boolean default applied (the
// `models.*` feature flags default to true; features.separate_foreign_keys
// defaults to false and features.detect_polymorphic to true).
func Default() Config {
	t, f := true, false
	return Config{
		MigrationsPath: "database/migrations",
		Models: Models{
			Path:                  "app/Models",
			Namespace:             "App\\Models",
			BaseClass:             "Model",
			GenerateRelationships: &t,
			GenerateScopes:        &t,
			UseFillable:           &t,
		},
		Formatting: Formatting{Indent: "    "},
		Features:   Features{SeparateForeignKeys: f, DetectPolymorphic: t, Concurrency: introspect.DefaultConcurrency},
	}
}

// GenerateRelationships reports the effective `models.generate_relationships`.
func (c Config) GenerateRelationships() bool { return c.Models.generateRelationships() }

// GenerateScopes reports the effective `models.generate_scopes`.
func (c Config) GenerateScopes() bool { return c.Models.generateScopes() }

// UseFillable reports the effective `models.use_fillable`.
func (c Config) UseFillable() bool { return c.Models.useFillable() }

// Concurrency reports the effective `features.concurrency`, the ceiling
// on tables introspect.ParseAll parses in flight at once. Zero or unset
// falls back to introspect.DefaultConcurrency.
func (c Config) Concurrency() int {
	if c.Features.Concurrency <= 0 {
		return introspect.DefaultConcurrency
	}
	return c.Features.Concurrency
}

// ResolveConnection looks up a named entry from `[connections.NAME]`.
func (c Config) ResolveConnection(name string) (ConnectionConfig, bool) {
	cc, ok := c.Connections[name]
	return cc, ok
}

// Load parses TOML configuration text into a Config seeded with
// Default(), then Validate()s the result.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks recognized keys for well-formed values. Unrecognized
// keys are accepted without error by BurntSushi/toml's decode-into-struct
// behavior; only known, ill-formed values are rejected here.
func (c Config) Validate() error {
	switch c.Formatting.Indent {
	case "", "\t":
	default:
		for _, r := range c.Formatting.Indent {
			if r != ' ' {
				return fmt.Errorf("%w: formatting.indent must be spaces or a tab, got %q", core.ErrInvalidConfig, c.Formatting.Indent)
			}
		}
	}
	for dialect := range c.TypeMappings {
		switch core.Dialect(dialect) {
		case core.DialectMySQL, core.DialectMariaDB, core.DialectPostgreSQL, core.DialectSQLite, core.DialectMSSQL:
		default:
			return fmt.Errorf("%w: type_mappings has unrecognized dialect %q", core.ErrInvalidConfig, dialect)
		}
	}
	for name, cc := range c.Connections {
		switch core.Dialect(cc.Dialect) {
		case core.DialectMySQL, core.DialectMariaDB, core.DialectPostgreSQL, core.DialectSQLite, core.DialectMSSQL:
		default:
			return fmt.Errorf("%w: connections.%s has unrecognized dialect %q", core.ErrInvalidConfig, name, cc.Dialect)
		}
	}
	return nil
}
