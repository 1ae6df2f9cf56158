// Command admintoken prints a short-lived admin bearer token for the purge
// endpoint, signed with the service's AUTH_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/haeseoky/member-service/internal/auth"
	"github.com/haeseoky/member-service/internal/config"
)

func main() {
	subject := flag.String("subject", "ops", "token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	manager := auth.NewTokenManager(cfg.Auth.JWTSecret)
	token, err := manager.IssueAdminToken(*subject, *ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	fmt.Println(token)
}
