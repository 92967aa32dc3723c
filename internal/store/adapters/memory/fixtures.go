package memory

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	"github.com/dropDatabas3/askjohn/internal/security/secret"
	tokens "github.com/dropDatabas3/askjohn/internal/security/token"
)

// Fixtures es el formato YAML de datos de dev. Los secrets y tokens se
// declaran en texto plano y se hashean al cargar, así el archivo sirve
// directo para probar con curl.
type Fixtures struct {
	Clients []struct {
		ClientID           string   `yaml:"client_id"`
		Name               string   `yaml:"name"`
		Type               string   `yaml:"type"`
		Secret             string   `yaml:"secret"`
		Scopes             []string `yaml:"scopes"`
		Roles              []string `yaml:"roles"`
		AllowIntrospection bool     `yaml:"allow_introspection"`
	} `yaml:"clients"`

	AccessTokens []struct {
		Token     string   `yaml:"token"`
		ClientID  string   `yaml:"client_id"`
		Scopes    []string `yaml:"scopes"`
		Principal string   `yaml:"principal"`
		TTL       string   `yaml:"ttl"`
	} `yaml:"access_tokens"`

	RefreshTokens []struct {
		Token         string   `yaml:"token"`
		ClientID      string   `yaml:"client_id"`
		GrantedScopes []string `yaml:"granted_scopes"`
		Principal     string   `yaml:"principal"`
		TTL           string   `yaml:"ttl"`
	} `yaml:"refresh_tokens"`

	Users []struct {
		Username string `yaml:"username"`
		ClientID string `yaml:"client_id"`
		Sub      string `yaml:"sub"`
		Email    string `yaml:"email"`
		Name     string `yaml:"name"`
	} `yaml:"users"`
}

// LoadFixtures carga un archivo YAML de fixtures en el adapter.
func (a *Adapter) LoadFixtures(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	now := time.Now().UTC()

	for i, c := range f.Clients {
		phc := ""
		if c.Secret != "" {
			if phc, err = secret.Hash(secret.Default, c.Secret); err != nil {
				return fmt.Errorf("hash secret for client %q: %w", c.ClientID, err)
			}
		}
		typ := c.Type
		if typ == "" {
			typ = repository.ClientTypeConfidential
		}
		a.AddClient(&repository.Client{
			ID:                 fmt.Sprintf("fixture-client-%d", i),
			ClientID:           c.ClientID,
			Name:               c.Name,
			Type:               typ,
			Scopes:             c.Scopes,
			Roles:              c.Roles,
			AllowIntrospection: c.AllowIntrospection,
			SecretPHC:          phc,
		})
	}

	for i, t := range f.AccessTokens {
		ttl, err := parseTTL(t.TTL)
		if err != nil {
			return fmt.Errorf("access token %d: %w", i, err)
		}
		a.AddAccessToken(&repository.AccessToken{
			ID:        fmt.Sprintf("fixture-at-%d", i),
			ClientID:  t.ClientID,
			TokenHash: tokens.SHA256Base64URL(t.Token),
			Scopes:    t.Scopes,
			Principal: t.Principal,
			IssuedAt:  now,
			ExpiresAt: now.Add(ttl),
		})
	}

	for i, t := range f.RefreshTokens {
		ttl, err := parseTTL(t.TTL)
		if err != nil {
			return fmt.Errorf("refresh token %d: %w", i, err)
		}
		a.AddRefreshToken(&repository.RefreshToken{
			ID:            fmt.Sprintf("fixture-rt-%d", i),
			ClientID:      t.ClientID,
			TokenHash:     tokens.SHA256Base64URL(t.Token),
			GrantedScopes: t.GrantedScopes,
			Principal:     t.Principal,
			IssuedAt:      now,
			ExpiresAt:     now.Add(ttl),
		})
	}

	for _, u := range f.Users {
		a.AddUserInfo(u.Username, u.ClientID, &repository.UserInfo{
			Sub:      u.Sub,
			Username: u.Username,
			Email:    u.Email,
			Name:     u.Name,
		})
	}

	return nil
}

func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ttl %q: %w", s, err)
	}
	return d, nil
}
