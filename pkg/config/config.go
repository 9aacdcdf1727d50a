package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Uploads  UploadsConfig
	Map      MapConfig
	EditAuth EditAuthConfig
	Exports  ExportsConfig
	CORS     CORSConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// UploadsConfig controls the event-images bucket and the resize pipeline.
type UploadsConfig struct {
	Dir             string
	PublicBaseURL   string
	MaxUploadBytes  int64
	MaxWidth        int
	MaxHeight       int
	JPEGQuality     int
	ListCacheTTL    time.Duration
	SweepInterval   time.Duration
	SweepMinFileAge time.Duration
}

// MapConfig carries the mapping-widget parameters handed to the client.
// An empty AccessToken disables the map feature rather than failing startup.
type MapConfig struct {
	AccessToken string
	StyleURL    string
	CenterLat   float64
	CenterLon   float64
	Zoom        float64
	Pitch       float64
	Bearing     float64
}

// EditAuthConfig configures the short-lived tokens issued after an
// event password check.
type EditAuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// ExportsConfig toggles the CSV/PDF schedule export endpoint.
type ExportsConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	maxUpload := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 8 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:             v.GetString("UPLOADS_DIR"),
		PublicBaseURL:   v.GetString("UPLOADS_PUBLIC_BASE_URL"),
		MaxUploadBytes:  maxUpload,
		MaxWidth:        v.GetInt("UPLOADS_MAX_WIDTH"),
		MaxHeight:       v.GetInt("UPLOADS_MAX_HEIGHT"),
		JPEGQuality:     v.GetInt("UPLOADS_JPEG_QUALITY"),
		ListCacheTTL:    parseDuration(v.GetString("EVENTS_LIST_CACHE_TTL"), time.Minute),
		SweepInterval:   parseDuration(v.GetString("UPLOADS_SWEEP_INTERVAL"), 6*time.Hour),
		SweepMinFileAge: parseDuration(v.GetString("UPLOADS_SWEEP_MIN_AGE"), 24*time.Hour),
	}

	cfg.Map = MapConfig{
		AccessToken: v.GetString("MAPBOX_ACCESS_TOKEN"),
		StyleURL:    v.GetString("MAPBOX_STYLE_URL"),
		CenterLat:   v.GetFloat64("MAP_CENTER_LAT"),
		CenterLon:   v.GetFloat64("MAP_CENTER_LON"),
		Zoom:        v.GetFloat64("MAP_ZOOM"),
		Pitch:       v.GetFloat64("MAP_PITCH"),
		Bearing:     v.GetFloat64("MAP_BEARING"),
	}

	cfg.EditAuth = EditAuthConfig{
		Secret:   v.GetString("EDIT_TOKEN_SECRET"),
		TokenTTL: parseDuration(v.GetString("EDIT_TOKEN_TTL"), 15*time.Minute),
	}

	cfg.Exports = ExportsConfig{Enabled: v.GetBool("ENABLE_EXPORTS")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_events")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("UPLOADS_DIR", "./event-images")
	v.SetDefault("UPLOADS_PUBLIC_BASE_URL", "/event-images")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 8*1024*1024)
	v.SetDefault("UPLOADS_MAX_WIDTH", 1200)
	v.SetDefault("UPLOADS_MAX_HEIGHT", 900)
	v.SetDefault("UPLOADS_JPEG_QUALITY", 70)
	v.SetDefault("EVENTS_LIST_CACHE_TTL", "1m")
	v.SetDefault("UPLOADS_SWEEP_INTERVAL", "6h")
	v.SetDefault("UPLOADS_SWEEP_MIN_AGE", "24h")

	v.SetDefault("MAPBOX_ACCESS_TOKEN", "")
	v.SetDefault("MAPBOX_STYLE_URL", "mapbox://styles/mapbox/dark-v11")
	v.SetDefault("MAP_CENTER_LAT", 38.9869)
	v.SetDefault("MAP_CENTER_LON", -76.9426)
	v.SetDefault("MAP_ZOOM", 15.5)
	v.SetDefault("MAP_PITCH", 60)
	v.SetDefault("MAP_BEARING", -20)

	v.SetDefault("EDIT_TOKEN_SECRET", "dev_edit_secret")
	v.SetDefault("EDIT_TOKEN_TTL", "15m")

	v.SetDefault("ENABLE_EXPORTS", true)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
