package config

import (
    "strings"

    "github.com/spf13/viper"
)

type Config struct {
    Server   ServerConfig   `mapstructure:"server"`
    Database DatabaseConfig `mapstructure:"database"`
    Redis    RedisConfig    `mapstructure:"redis"`
    JWT      JWTConfig      `mapstructure:"jwt"`
    Log      LogConfig      `mapstructure:"log"`
    Sentry   SentryConfig   `mapstructure:"sentry"`
    Trace    TraceConfig    `mapstructure:"trace"`
    Feed     FeedConfig     `mapstructure:"feed"`
}

type ServerConfig struct {
    Port int    `mapstructure:"port"`
    Mode string `mapstructure:"mode"` // debug / release
}

type DatabaseConfig struct {
    Driver string `mapstructure:"driver"` // postgres / sqlite
    DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
    Addr     string `mapstructure:"addr"`
    Password string `mapstructure:"password"`
    DB       int    `mapstructure:"db"`
    // 粉丝列表缓存 TTL（秒）
    CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

type JWTConfig struct {
    Secret      string `mapstructure:"secret"`
    ExpireHours int    `mapstructure:"expire_hours"`
}

type LogConfig struct {
    Level string `mapstructure:"level"`
}

type SentryConfig struct {
    DSN string `mapstructure:"dsn"`
}

type TraceConfig struct {
    Enabled  bool   `mapstructure:"enabled"`
    Endpoint string `mapstructure:"endpoint"` // otlp http endpoint
}

type FeedConfig struct {
    // pull: 拉模型，直接查关注关系; push: 推模型，outbox 扇出到 inbox
    Mode     string       `mapstructure:"mode"`
    PageSize int          `mapstructure:"page_size"`
    Fanout   FanoutConfig `mapstructure:"fanout"`
}

type FanoutConfig struct {
    Workers          int `mapstructure:"workers"`
    BatchSize        int `mapstructure:"batch_size"`
    ClaimLimit       int `mapstructure:"claim_limit"`
    PollIntervalMS   int `mapstructure:"poll_interval_ms"`
    ReplicatorQueue  int `mapstructure:"replicator_queue"`
    ReplicatorWorker int `mapstructure:"replicator_workers"`
}

// Load 读取 config.yaml 并叠加环境变量（前缀 APP_）
func Load() (*Config, error) {
    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")

    v.SetEnvPrefix("APP")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    v.SetDefault("server.port", 8080)
    v.SetDefault("server.mode", "release")
    v.SetDefault("database.driver", "postgres")
    v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=social port=5432 sslmode=disable")
    v.SetDefault("redis.addr", "localhost:6379")
    v.SetDefault("redis.cache_ttl_seconds", 300)
    v.SetDefault("jwt.secret", "dev-secret-change-me")
    v.SetDefault("jwt.expire_hours", 72)
    v.SetDefault("log.level", "info")
    v.SetDefault("feed.mode", "pull")
    v.SetDefault("feed.page_size", 20)
    v.SetDefault("feed.fanout.workers", 4)
    v.SetDefault("feed.fanout.batch_size", 500)
    v.SetDefault("feed.fanout.claim_limit", 128)
    v.SetDefault("feed.fanout.poll_interval_ms", 50)
    v.SetDefault("feed.fanout.replicator_queue", 10000)
    v.SetDefault("feed.fanout.replicator_workers", 4)

    if err := v.ReadInConfig(); err != nil {
        // 没有配置文件时走默认值 + 环境变量
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
            return nil, err
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, err
    }
    return &cfg, nil
}
