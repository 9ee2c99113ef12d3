package configs

import (
	"errors"

	"github.com/spf13/viper"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/logger"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	JWT struct {
		SECRET   string `mapstructure:"secret"`
		TTLHours int    `mapstructure:"ttl-hours"`
	} `mapstructure:"jwt"`
	Auth struct {
		PasswordMinLength int `mapstructure:"password-min-length"`
	} `mapstructure:"auth"`
	Credits struct {
		Initial int64 `mapstructure:"initial"`
	} `mapstructure:"credits"`
	Referral struct {
		Bonus int64 `mapstructure:"bonus"`
	} `mapstructure:"referral"`
	Purchase struct {
		DefaultAmount int64 `mapstructure:"default-amount"`
	} `mapstructure:"purchase"`
}

var AppConfig Config

func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("jwt.ttl-hours", 168)
	viper.SetDefault("auth.password-min-length", 6)
	viper.SetDefault("credits.initial", 10)
	viper.SetDefault("referral.bonus", 2)
	viper.SetDefault("purchase.default-amount", 10)

	viper.AutomaticEnv()

	var fileLookupError viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &fileLookupError) {
			logger.Log.Fatal("config file not found", zap.Error(err))
		}
		logger.Log.Fatal("failed to read config", zap.Error(err))
	}

	viper.Unmarshal(&AppConfig)
}
