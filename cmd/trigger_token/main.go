// Command trigger_token mints a bearer token for the ingest trigger API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/sftp_txn_ingest/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	subject := flag.String("subject", "", "caller identity recorded with every triggered run")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	v := viper.New()
	v.AutomaticEnv()

	token, err := utils.GenerateTriggerToken(*subject, v.GetString("JWT_SECRET"), *ttl)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
