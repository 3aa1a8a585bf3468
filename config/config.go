package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// SysConfig system level config
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig web server config
type WebConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Secret  string `yaml:"secret" json:"secret"`
	JwtExps int64  `yaml:"jwt_exps" json:"jwt_exps"`
}

// DBConfig database config
type DBConfig struct {
	Type    string `yaml:"type" json:"type"`
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Name    string `yaml:"name" json:"name"`
	User    string `yaml:"user" json:"user"`
	Passwd  string `yaml:"passwd" json:"passwd"`
	MaxConn int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int   `yaml:"idle_conn" json:"idle_conn"`
	Debug   bool   `yaml:"debug" json:"debug"`
}

// LogConfig logger config
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "grocer",
		Location: "Asia/Shanghai",
		Workdir:  "/var/grocer",
		Debug:    true,
	},
	Web: WebConfig{
		Host:    "0.0.0.0",
		Port:    1816,
		Secret:  "9b6de5cc-grocer-0976-4f12-bf6f-22ec1e4cff11",
		JwtExps: 86400,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "grocer",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/grocer/grocer.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

// LoadConfig reads the yaml config file and applies environment overrides.
// A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("GROCER_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("GROCER_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvBoolValue("GROCER_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("GROCER_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("GROCER_WEB_SECRET", func(v string) { cfg.Web.Secret = v })

	setEnvValue("GROCER_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("GROCER_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("GROCER_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("GROCER_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("GROCER_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	setEnvValue("GROCER_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("GROCER_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })

	_ = os.MkdirAll(cfg.System.Workdir, 0o755)
	_ = os.MkdirAll(filepath.Join(cfg.System.Workdir, "images"), 0o755)
	return cfg
}
