package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (local; default), TEST, QA, PROD
		Build    string

		AppName           string
		SecretKey         string
		AdminSignupSecret string
		FrontendBaseURL   string

		DefaultFromName    string
		DefaultFromAddress string
		SendgridApiKey     string
		RollbarToken       string

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
	}

	ServerConfig struct {
		Host               string
		Port               string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		URL string
	}

	RedisConfig struct {
		URL string
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddress}
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Elimu")
	v.SetDefault("secretKey", "kq2x-7lp)wnb$+41=um&docg8(r!y)#*f9(#gt5j^$zawm3eqx")
	v.SetDefault("adminSignupSecret", "")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromName", "Elimu")
	v.SetDefault("defaultFromAddress", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("databaseURL", "")
	v.SetDefault("redisURL", "")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		Env:      env,
		Build:    v.GetString("build"),

		AppName:           v.GetString("appName"),
		SecretKey:         v.GetString("secretKey"),
		AdminSignupSecret: v.GetString("adminSignupSecret"),
		FrontendBaseURL:   v.GetString("frontendBaseURL"),

		DefaultFromName:    v.GetString("defaultFromName"),
		DefaultFromAddress: v.GetString("defaultFromAddress"),
		SendgridApiKey:     v.GetString("sendgridApiKey"),
		RollbarToken:       v.GetString("rollbarToken"),

		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Port:               v.GetString("serverPort"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("shutdownTimeout"),
		},
		Database: DatabaseConfig{URL: v.GetString("databaseURL")},
		Redis:    RedisConfig{URL: v.GetString("redisURL")},
	}
}
