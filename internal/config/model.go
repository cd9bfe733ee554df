// internal/config/model.go
//
// Typed configuration model for corpsite.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                       – dotenv values,
//   • `conf/site.yaml`                           – primary static file,
//   • `CORPSITE_`-prefixed environment overrides – highest precedence.
//
// Any string value that begins with `vault:` is resolved through the
// configured SecretResolver before unmarshalling, so the model never stores
// Vault references, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`; koanf ignores `yaml` tags.
//   • Durations accept Go syntax ("15s", "24h") from YAML and env alike.
//   • `Paths` is filled at runtime; YAML must not try to set it.

package config

import "time"

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// Database selects the driver and connection string.
//
// MySQL DSNs need `parseTime=true`.  The password part is usually a
// `vault:` reference so credentials stay out of flat files.
type Database struct {
	Driver  string `koanf:"driver"   validate:"required,oneof=mysql sqlite"`
	DSN     string `koanf:"dsn"      validate:"required"`
	MaxOpen int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle int    `koanf:"max_idle" validate:"gte=0"`
	// Migrate runs every component's DDL on start.
	Migrate bool `koanf:"migrate"`
}

// Auth configures password hashing and bearer tokens.
type Auth struct {
	JWTSecret  string        `koanf:"jwt_secret"  validate:"required,min=32"`
	TokenTTL   time.Duration `koanf:"token_ttl"   validate:"gt=0"`
	Issuer     string        `koanf:"issuer"      validate:"required"`
	BcryptCost int           `koanf:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// Log controls the zap core.
type Log struct {
	Level   string `koanf:"level"   validate:"oneof=debug info warn error"`
	Dir     string `koanf:"dir"`
	Console bool   `koanf:"console"`
}

// Pages tunes hierarchy construction.
type Pages struct {
	Orphans string `koanf:"orphans" validate:"oneof=promote drop"`
}

// Home tunes the aggregated landing payload.
type Home struct {
	Posts int `koanf:"posts" validate:"gte=1,lte=50"`
}

// GeoIP points at an optional MaxMind country database.
type GeoIP struct {
	DB string `koanf:"db"`
}

// NATS enables contact notifications on a subject.  Empty URL means the
// log publisher is used instead.
type NATS struct {
	URL     string `koanf:"url"     validate:"omitempty,url"`
	Subject string `koanf:"subject" validate:"required_with=URL"`
}

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // CORPSITE_ROOT or discovered parent
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Log      Log      `koanf:"log"`
	Pages    Pages    `koanf:"pages"`
	Home     Home     `koanf:"home"`
	GeoIP    GeoIP    `koanf:"geoip"`
	NATS     NATS     `koanf:"nats"`
	Paths    Paths    `koanf:"-"`
}

// applyDefaults fills zero values before validation.
func applyDefaults(c *Config) {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "corpsite"
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Pages.Orphans == "" {
		c.Pages.Orphans = "promote"
	}
	if c.Home.Posts == 0 {
		c.Home.Posts = 3
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		c.NATS.Subject = "corpsite.contact.submitted"
	}
}
