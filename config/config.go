package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 内置默认值，生产环境中不应继续使用
const (
	DefaultSessionSecret    = "tayta_pancho_secret_super_seguro"
	DefaultDirectorUsername = "director"
	DefaultDirectorPassword = "1234"
)

// Config 应用程序配置
type Config struct {
	APIPort      int
	LogLevel     string
	LogFile      LogFileConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Session      SessionConfig
	Director     DirectorConfig
	Upload       UploadConfig
	StoreTimeout time.Duration
	Timezone     string
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled    bool
	Path       string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
}

// DatabaseConfig 数据库配置，Driver 为 sqlite 或 mysql
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig Redis配置，Host 为空时不启用缓存
type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

// Enabled 是否配置了Redis
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// SessionConfig 会话配置
type SessionConfig struct {
	Secret string
	MaxAge int // 秒
	Secure bool
}

// DirectorConfig 启动时创建的director账号
type DirectorConfig struct {
	Username string
	Password string
}

// UploadConfig 上传配置
type UploadConfig struct {
	StaticDir string
	MaxBytes  int64
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// 加载.env文件，文件不存在时直接使用环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "5s"))
	if err != nil || storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}

	return &Config{
		APIPort:  getEnvInt("API_PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile: LogFileConfig{
			Enabled:    getEnvBool("LOG_FILE_ENABLED", false),
			Path:       getEnv("LOG_FILE_PATH", "logs/hermandad.log"),
			MaxSize:    getEnvInt("LOG_FILE_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 7),
			MaxAge:     getEnvInt("LOG_FILE_MAX_AGE", 30),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "hermandad.db"),
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnvInt("DB_PORT", 3306),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "hermandad"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", DefaultSessionSecret),
			MaxAge: 8 * 60 * 60,
			Secure: getEnvBool("SESSION_SECURE", false),
		},
		Director: DirectorConfig{
			Username: getEnv("DIRECTOR_USERNAME", DefaultDirectorUsername),
			Password: getEnv("DIRECTOR_PASSWORD", DefaultDirectorPassword),
		},
		Upload: UploadConfig{
			StaticDir: getEnv("STATIC_DIR", "static"),
			MaxBytes:  int64(getEnvInt("UPLOAD_MAX_MB", 5)) << 20,
		},
		StoreTimeout: storeTimeout,
		Timezone:     getEnv("APP_TIMEZONE", "America/Lima"),
	}, nil
}

// Warnings 返回仍在使用内置默认值的配置项
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Session.Secret == DefaultSessionSecret {
		warnings = append(warnings, "SESSION_SECRET not set, using built-in default secret")
	}
	if c.Director.Password == DefaultDirectorPassword {
		warnings = append(warnings, "DIRECTOR_PASSWORD not set, using built-in default password")
	}
	return warnings
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
