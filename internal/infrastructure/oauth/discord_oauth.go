package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"flightdesk-service/pkg/logger"

	"golang.org/x/oauth2"
)

// DiscordAPI is the REST base used for identity lookups
const DiscordAPI = "https://discord.com/api/v10"

// Scopes requested at login
var Scopes = []string{"identify", "guilds.members.read"}

// Endpoint is Discord's OAuth2 endpoint
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  DiscordAPI + "/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// ErrUserLookup is returned when the authorized user cannot be fetched
var ErrUserLookup = errors.New("failed to fetch discord user")

// Identity is the Discord user behind an access token
type Identity struct {
	UserID   string
	Username string
	Avatar   string
	Roles    []string
}

// HasRole reports whether the member carries roleID in the configured guild
func (i *Identity) HasRole(roleID string) bool {
	for _, r := range i.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

type discordUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Avatar        string `json:"avatar"`
	Discriminator string `json:"discriminator"`
}

type guildMember struct {
	Roles []string `json:"roles"`
}

// DiscordOAuth handles the dashboard login flow against Discord
type DiscordOAuth struct {
	config  *oauth2.Config
	guildID string
	apiBase string
	logger  logger.Logger
}

// NewDiscordOAuth creates a new Discord OAuth handler
func NewDiscordOAuth(clientID, clientSecret, redirectURL, guildID string, logger logger.Logger) *DiscordOAuth {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
	}

	return &DiscordOAuth{
		config:  config,
		guildID: guildID,
		apiBase: DiscordAPI,
		logger:  logger,
	}
}

// WithAPIBase points identity lookups at another base URL
func (o *DiscordOAuth) WithAPIBase(base string) *DiscordOAuth {
	o.apiBase = base
	return o
}

// Config exposes the underlying OAuth2 configuration
func (o *DiscordOAuth) Config() *oauth2.Config {
	return o.config
}

// GenerateAuthURL generates a URL for the user to authorize the application
func (o *DiscordOAuth) GenerateAuthURL(state string) string {
	return o.config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for a token
func (o *DiscordOAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// FetchIdentity loads the user and, when a guild is configured, their roles in it.
// A missing guild membership yields no roles rather than an error.
func (o *DiscordOAuth) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	client := o.config.Client(ctx, token)

	var user discordUser
	if err := o.getJSON(client, "/users/@me", &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserLookup, err)
	}

	identity := &Identity{
		UserID:   user.ID,
		Username: user.GlobalName,
		Avatar:   avatarURL(user),
	}
	if identity.Username == "" {
		identity.Username = user.Username
	}
	if identity.Username == "" {
		identity.Username = "Unknown"
	}

	if o.guildID == "" {
		return identity, nil
	}
	var member guildMember
	if err := o.getJSON(client, "/users/@me/guilds/"+o.guildID+"/member", &member); err != nil {
		o.logger.Warn("Could not fetch guild member", "user_id", user.ID, "error", err)
		return identity, nil
	}
	identity.Roles = member.Roles
	return identity, nil
}

func (o *DiscordOAuth) getJSON(client *http.Client, path string, out interface{}) error {
	resp, err := client.Get(o.apiBase + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func avatarURL(u discordUser) string {
	if u.Avatar != "" {
		return "https://cdn.discordapp.com/avatars/" + u.ID + "/" + u.Avatar + ".png"
	}
	index := 0
	for _, c := range u.Discriminator {
		if c >= '0' && c <= '9' {
			index = index*10 + int(c-'0')
		}
	}
	return fmt.Sprintf("https://cdn.discordapp.com/embed/avatars/%d.png", index%5)
}
