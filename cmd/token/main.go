package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Abraxas-365/shortlist/internal/config"
	"github.com/Abraxas-365/shortlist/pkg/iam/auth"
)

func main() {
	subject := flag.String("sub", "ops", "token subject")
	scopes := flag.String("scopes", auth.ScopeAll, "comma separated scopes")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireServer()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	list := make([]string, 0)
	for _, s := range strings.Split(*scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}

	token, err := auth.NewTokenService(cfg.Server.JWTSecret, auth.DefaultIssuer).GenerateAccessToken(*subject, list, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
