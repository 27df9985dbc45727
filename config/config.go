// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 环境变量前缀，WIKI_DATABASE_HOST 覆盖 database.host
const EnvPrefix = "WIKI_"

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	GRPC     GRPCConfig     `koanf:"grpc"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
	JWT      JWTConfig      `koanf:"jwt"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"` // debug, release, test
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	FrontendURL  string        `koanf:"frontend_url"`
}

type GRPCConfig struct {
	Enabled bool `koanf:"enabled"`
	Port    int  `koanf:"port"`
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"` // postgres, sqlite
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	Path         string `koanf:"path"` // sqlite 文件路径
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	Password    string `koanf:"password"`
	DB          int    `koanf:"db"`
	PoolSize    int    `koanf:"pool_size"`
	NeighborTTL int    `koanf:"neighbor_ttl"` // 秒
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

type JWTConfig struct {
	Secret string `koanf:"secret"`
}

// Load 加载配置文件到全局 Conf
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(); envErr != nil {
			slog.Debug("未加载 .env 文件", "error", envErr)
		}

		var conf *AppConfig
		conf, k, err = parse(configPath)
		if err != nil {
			return
		}
		Conf = conf
	})

	return err
}

// MustLoad 加载配置，失败则 panic
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		panic(fmt.Sprintf("配置加载失败: %v", err))
	}
}

// Parse 读取配置文件与环境变量，不修改全局状态
func Parse(configPath string) (*AppConfig, error) {
	conf, _, err := parse(configPath)
	return conf, err
}

func parse(configPath string) (*AppConfig, *koanf.Koanf, error) {
	ko := koanf.New(".")

	// 加载配置文件
	if configPath != "" {
		if err := ko.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
	}

	// 加载环境变量（会覆盖配置文件）
	if err := ko.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	conf := &AppConfig{}
	if err := ko.Unmarshal("", conf); err != nil {
		return nil, nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(conf)
	return conf, ko, nil
}

// envKey WIKI_DATABASE_MAX_OPEN_CONNS -> database.max_open_conns
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func applyDefaults(c *AppConfig) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.FrontendURL == "" {
		c.Server.FrontendURL = "http://localhost:5173"
	}
	// 转换时间单位
	c.Server.ReadTimeout = c.Server.ReadTimeout * time.Second
	c.Server.WriteTimeout = c.Server.WriteTimeout * time.Second

	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9090
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Redis.NeighborTTL == 0 {
		c.Redis.NeighborTTL = 300
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// GetString 获取字符串配置
func GetString(key string) string {
	if k == nil {
		panic("配置未初始化")
	}
	return k.String(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	if k == nil {
		panic("配置未初始化")
	}
	return k.Int(key)
}

// GetBool 获取布尔配置
func GetBool(key string) bool {
	if k == nil {
		panic("配置未初始化")
	}
	return k.Bool(key)
}
