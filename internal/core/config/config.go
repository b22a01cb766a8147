package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
	// CORSOrigins 前端站点列表；cookie 会话要求显式 origin + credentials
	CORSOrigins []string
}

type LogRotate struct {
	Enabled    bool   `mapstructure:"enabled"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxsizemb"`
	MaxBackups int    `mapstructure:"maxbackups"`
	MaxAgeDays int    `mapstructure:"maxagedays"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level  string
	JSON   bool
	Rotate LogRotate `mapstructure:"rotate"`
}

type JWT struct {
	Secret    string
	Issuer    string
	LeewaySec int
}

type Redis struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Upstream 业务后端（所有实体数据的真正归属方）
type Upstream struct {
	BaseURL    string
	TimeoutSec int
}

type Session struct {
	CookieDomain string
	Secure       bool
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	Redis    Redis `mapstructure:"redis"`
	Upstream Upstream
	Session  Session
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

func (u Upstream) Timeout() time.Duration {
	if u.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(u.TimeoutSec) * time.Second
}

func (j JWT) Leeway() time.Duration {
	if j.LeewaySec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(j.LeewaySec) * time.Second
}
