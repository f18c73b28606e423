// Command get_token runs the Discord login flow once and prints a dashboard
// session cookie, for calling the API with curl.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/infrastructure/config"
	"flightdesk-service/internal/infrastructure/oauth"
	"flightdesk-service/internal/infrastructure/session"
	"flightdesk-service/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.OAuthConfigured() {
		log.Fatal("DISCORD_CLIENT_ID, DISCORD_CLIENT_SECRET and SECRET_KEY must be set")
	}

	redirect := "http://localhost:8090/auth/callback"
	provider := oauth.NewDiscordOAuth(cfg.DiscordClientID, cfg.DiscordClientSecret, redirect, cfg.GuildID, logger.NewNop())
	signer := session.NewSigner(cfg.SecretKey, 24*time.Hour)

	state := uuid.NewString()

	// Start an HTTP server to handle the OAuth callback
	http.HandleFunc("/auth/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		token, err := provider.ExchangeCode(ctx, r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		identity, err := provider.FetchIdentity(ctx, token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		cookie, err := signer.Sign(entity.DashboardSession{
			UserID:   identity.UserID,
			Username: identity.Username,
			Avatar:   identity.Avatar,
			HasRole:  identity.HasRole(cfg.RoleRequired),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		fmt.Printf("\nUser: %s (%s), role: %v\n", identity.Username, identity.UserID, identity.HasRole(cfg.RoleRequired))
		fmt.Printf("Cookie: %s=%s\n\n", session.CookieName, cookie)

		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		go func() {
			time.Sleep(100 * time.Millisecond)
			os.Exit(0)
		}()
	})

	fmt.Printf("Add %s as a redirect URI, then open this URL in your browser:\n%s\n", redirect, provider.GenerateAuthURL(state))

	log.Fatal(http.ListenAndServe(":8090", nil))
}
