package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hostbay/panelgate/internal/api/http"
	"github.com/hostbay/panelgate/internal/db"
)

type Config struct {
	Log         LogConfig
	Http        http.Config
	Database    db.Config
	Pterodactyl PterodactylConfig
	Notify      NotifyConfig
}

type PterodactylConfig struct {
	CreateURL string `mapstructure:"create_url"`
}

type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

var config Config

func InitConfig() {
	var err error

	_ = godotenv.Load()

	viper.SetConfigName("application")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/panelgate-server")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("pterodactyl.create_url", "PTERODACTYL_CREATE_URL")
	_ = viper.BindEnv("notify.webhook_url", "NOTIFY_WEBHOOK_URL")
	_ = viper.BindEnv("http.admin_api_key", "ADMIN_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		panic(err)
	}

	initLogger(config.Log.Level)

	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		configJSON, err := json.MarshalIndent(config, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
}
