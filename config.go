package accounts

import (
	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// Config carries everything the server needs, sourced from the environment.
type Config struct {
	HTTPAddr             string `env:"HTTP_ADDR" envDefault:":3000"`
	DSN                  string `env:"DSN" envDefault:"file:accounts.db?cache=shared&_fk=1"`
	TokenSecret          string `env:"TOKEN_SECRET,required"`
	TokenExpirationHours int    `env:"TOKEN_EXPIRATION_HOURS" envDefault:"72"`
	TokenIssuer          string `env:"TOKEN_ISSUER" envDefault:"go-accounts"`
	AvatarDir            string `env:"AVATAR_DIR" envDefault:"public/avatar"`
	MailHost             string `env:"MAIL_HOST"`
	MailPort             int    `env:"MAIL_PORT" envDefault:"587"`
	MailUsername         string `env:"MAIL_USERNAME"`
	MailPassword         string `env:"MAIL_PASSWORD"`
	MailFrom             string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`
	Debug                bool   `env:"DEBUG" envDefault:"false"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to parse environment configuration")
	}
	return cfg, nil
}

func (c *Config) GetSigningKey() string   { return c.TokenSecret }
func (c *Config) GetTokenExpiration() int { return c.TokenExpirationHours }
func (c *Config) GetIssuer() string       { return c.TokenIssuer }
func (c *Config) GetHTTPAddr() string     { return c.HTTPAddr }
func (c *Config) MailConfigured() bool    { return c.MailHost != "" }
