package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey         string `yaml:"secret_key"`
	AccessTokenTTL    string `yaml:"access_token_ttl"`
	RefreshTokenTTL   string `yaml:"refresh_token_ttl"`
	RotationThreshold string `yaml:"rotation_threshold"`
}

// AuthConfig : пути фильтров аутентификации
type AuthConfig struct {
	LoginPath   string `yaml:"login_path"`
	RefreshPath string `yaml:"refresh_path"`
	LogoutPath  string `yaml:"logout_path"`
}

// CookieConfig : атрибуты refresh-куки.
// Secure и Path настраиваются при деплое
type CookieConfig struct {
	Secure bool   `yaml:"secure"`
	Path   string `yaml:"path"`
	MaxAge int    `yaml:"max_age"`
}

type TTLConfig struct {
	// Минимальное время жизни записи в блэклисте (например "60s")
	Blacklist string `yaml:"blacklist"`
}
