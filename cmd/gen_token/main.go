// Command gen_token prints a short-lived admin token for the cache purge
// endpoint, signed with JWT_SECRET from the environment.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"show-status/internal/auth"
)

func main() {
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	subject := flag.String("subject", "admin", "token subject")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set; the purge endpoint is disabled without it")
	}

	token, err := auth.New(secret).GenerateToken(*subject, *ttl)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
