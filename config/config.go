package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Minio  MinioConfig  `yaml:"minio"`
	Auth   AuthConfig   `yaml:"auth"`
	Admin  AdminConfig  `yaml:"admin"`
	Upload UploadConfig `yaml:"upload"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"` // development, production
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      int      `yaml:"rate_limit"` // requests per minute per IP
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret"`
	TokenExpireHours   int    `yaml:"token_expire_hours"`
	RefreshExpireHours int    `yaml:"refresh_expire_hours"`
}

// AdminConfig describes the bootstrap admin account created on first start.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type UploadConfig struct {
	MaxImageSizeMB    int `yaml:"max_image_size_mb"`
	MaxDocumentSizeMB int `yaml:"max_document_size_mb"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 100
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = "data/realstate.db"
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Auth.RefreshExpireHours == 0 {
		cfg.Auth.RefreshExpireHours = 24 * 7
	}
	if cfg.Minio.ExpireDays == 0 {
		cfg.Minio.ExpireDays = 7
	}
	if cfg.Upload.MaxImageSizeMB == 0 {
		cfg.Upload.MaxImageSizeMB = 10
	}
	if cfg.Upload.MaxDocumentSizeMB == 0 {
		cfg.Upload.MaxDocumentSizeMB = 25
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@realstate.local"
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Administrator"
	}

	// Secrets may come from the environment instead of the file
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
