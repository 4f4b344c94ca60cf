// Command token issues bearer tokens for the analytics dashboard endpoints.
//
//	DASHBOARD_JWT_SECRET=... go run ./cmd/token -subject ops -ttl 12h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"visitor-analytics-service/internal/platform/auth"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type tokenConfig struct {
	Secret string `env:"DASHBOARD_JWT_SECRET,required"`
}

func main() {
	subject := flag.String("subject", "dashboard", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	cfg := tokenConfig{}
	if err := env.Parse(&cfg); err != nil {
		logrus.Fatalf("failed to parse config from environment: %v", err)
	}
	if len(cfg.Secret) < 16 {
		logrus.Fatal("DASHBOARD_JWT_SECRET must be at least 16 bytes")
	}
	if *ttl <= 0 {
		logrus.Fatalf("invalid ttl: %s", *ttl)
	}

	token, err := auth.GenerateToken([]byte(cfg.Secret), *subject, *ttl)
	if err != nil {
		logrus.Fatalf("failed to issue token: %v", err)
	}

	fmt.Fprintln(os.Stdout, token)
}
