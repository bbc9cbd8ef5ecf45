package configs

// Redis holds configuration for the cache/counter store. When Enabled is
// false the process falls back to an in-memory store, which is suitable for
// single-node deployments and local development only: frequency and stat
// counters are then not shared across instances.
type Redis struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	Addr     string `env:"ADDRESS" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
