package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/pdfsaver/pkg/infra/notify"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `masq:"secret"`
	Env string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN; failures are reported when set",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("PDFSAVER_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Value:       "production",
			Destination: &c.Env,
			Sources:     cli.EnvVars("PDFSAVER_SENTRY_ENV"),
		},
	}
}

// Reporter returns nil when no DSN is configured
func (c *Sentry) Reporter() (*notify.Sentry, error) {
	if c.DSN == "" {
		return nil, nil
	}
	return notify.NewSentry(c.DSN, c.Env)
}
