package preference

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	// Backend is one of sqlite, redis or memory.
	Backend    string      `mapstructure:"Backend"`
	SQLitePath string      `mapstructure:"SQLitePath"`
	Redis      RedisConfig `mapstructure:"Redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"Addr"`
	Username string `mapstructure:"Username"`
	Password string `mapstructure:"Password"`
	DB       int    `mapstructure:"DB"`
	// HashKey is the redis hash holding the preferences.
	HashKey string `mapstructure:"HashKey"`
}
