package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey  string        `mapstructure:"secret_key"`
		Algorithm  string        `mapstructure:"algorithm"`
		AccessTTL  time.Duration `mapstructure:"access_ttl"`
		RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
		// RotateRefresh controls refresh-token rotation: when enabled, every
		// successful refresh revokes the presented refresh token and issues
		// a new one alongside the new access token.
		RotateRefresh bool `mapstructure:"rotate_refresh"`
	} `mapstructure:"jwt"`
	Cookie struct {
		// Secure must be true in production so cookies travel over HTTPS only.
		Secure bool `mapstructure:"secure"`
	} `mapstructure:"cookie"`
	RateLimit struct {
		RegisterPerHour int `mapstructure:"register_per_hour"`
		LoginPerMinute  int `mapstructure:"login_per_minute"`
	} `mapstructure:"ratelimit"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
