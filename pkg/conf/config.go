// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// Package conf loads the Gastro server configuration.
package conf

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Gastro Server configuration
type Config struct {
	LogLevel      string `yaml:"log_level" split_words:"true"` // "debug", "info", "warn", "error"
	PublicBaseUrl string `yaml:"public_base_url" split_words:"true"`
	Port          int    `yaml:"port"`
	Dsn           string `yaml:"dsn"`
	Resources     string `yaml:"resources"`
	Access        `yaml:"access"`
	JWT           `yaml:"jwt"`
	OTP           `yaml:"otp"`
	Twilio        `yaml:"twilio"`
	Firebase      `yaml:"firebase"`
	Cors          `yaml:"cors"`
	Maps          `yaml:"maps"`
	Dashboard     `yaml:"dashboard"`
}

// Access holds the basic auth credentials of the admin api.
// The admin api is not served when they are empty.
type Access struct {
	Username string `yaml:"username" envconfig:"access_username"`
	Password string `yaml:"password" envconfig:"access_password"`
}

// Enabled reports whether the admin api credentials are set.
func (a Access) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

type JWT struct {
	SecretKey string            `yaml:"secret_key" envconfig:"jwt_secret_key"`
	TTL       time.Duration     `yaml:"ttl" envconfig:"jwt_ttl"`
	Admin     map[string]string `yaml:"admin" envconfig:"jwt_admin"` // username -> password
}

type OTP struct {
	Provider       string        `yaml:"provider" envconfig:"otp_provider"` // "log" || "twilio" || "firebase"
	Length         int           `yaml:"length" envconfig:"otp_length"`
	TTL            time.Duration `yaml:"ttl" envconfig:"otp_ttl"`
	MaxAttempts    int           `yaml:"max_attempts" envconfig:"otp_max_attempts"`
	ResendInterval time.Duration `yaml:"resend_interval" envconfig:"otp_resend_interval"`
	Burst          int           `yaml:"burst" envconfig:"otp_burst"`
	DefaultCountry string        `yaml:"default_country" envconfig:"otp_default_country"`
	FixedCode      string        `yaml:"fixed_code" envconfig:"otp_fixed_code"` // development only
	PurgeInterval  time.Duration `yaml:"purge_interval" envconfig:"otp_purge_interval"`
}

type Twilio struct {
	AccountSid string `yaml:"account_sid" envconfig:"twilio_account_sid"`
	AuthToken  string `yaml:"auth_token" envconfig:"twilio_auth_token"`
	From       string `yaml:"from" envconfig:"twilio_from"`
	Body       string `yaml:"body" envconfig:"twilio_body"` // fmt template, receives the code
}

type Firebase struct {
	ProjectID       string `yaml:"project_id" envconfig:"firebase_project_id"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"firebase_credentials_file"`
}

type Cors struct {
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"cors_allowed_origins"`
}

type Maps struct {
	LinkTemplate string `yaml:"link_template" envconfig:"maps_link_template"` // RFC 6570 template, receives "query"
}

type Dashboard struct {
	TopOwners int `yaml:"top_owners" envconfig:"dashboard_top_owners"`
}

const (
	ProviderLog      = "log"
	ProviderTwilio   = "twilio"
	ProviderFirebase = "firebase"
)

// Init reads the configuration from a yaml file, if any, then from GASTRO_* environment variables.
func Init(configFile string) (*Config, error) {

	var c Config

	if configFile != "" {
		f, _ := filepath.Abs(configFile)
		yamlData, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		err = yaml.Unmarshal(yamlData, &c)
		if err != nil {
			return nil, err
		}
	}

	// environment variables override the file
	err := envconfig.Process("gastro", &c)
	if err != nil {
		return nil, err
	}

	c.setDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = 3001
	}
	if c.Dsn == "" {
		c.Dsn = "sqlite3://gastro.db"
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 24 * time.Hour
	}
	if c.OTP.Provider == "" {
		c.OTP.Provider = ProviderLog
	}
	if c.OTP.Length == 0 {
		c.OTP.Length = 6
	}
	if c.OTP.TTL == 0 {
		c.OTP.TTL = 5 * time.Minute
	}
	if c.OTP.MaxAttempts == 0 {
		c.OTP.MaxAttempts = 5
	}
	if c.OTP.ResendInterval == 0 {
		c.OTP.ResendInterval = 30 * time.Second
	}
	if c.OTP.Burst == 0 {
		c.OTP.Burst = 3
	}
	if c.OTP.DefaultCountry == "" {
		c.OTP.DefaultCountry = "+52"
	}
	if c.OTP.PurgeInterval == 0 {
		c.OTP.PurgeInterval = time.Hour
	}
	if c.Twilio.Body == "" {
		c.Twilio.Body = "Your Gastro Catalogo verification code is %s"
	}
	if c.Maps.LinkTemplate == "" {
		c.Maps.LinkTemplate = "https://www.google.com/maps/search/?api=1{&query}"
	}
	if c.Dashboard.TopOwners == 0 {
		c.Dashboard.TopOwners = 5
	}
}

// Validate checks the consistency of the configuration.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("a jwt secret key is required")
	}
	if (c.Access.Username == "") != (c.Access.Password == "") {
		return errors.New("the admin access requires both a username and a password")
	}
	for username, password := range c.JWT.Admin {
		if username == "" || password == "" {
			return errors.New("dashboard admin accounts require a username and a password")
		}
	}
	switch c.OTP.Provider {
	case ProviderLog:
	case ProviderTwilio:
		if c.Twilio.AccountSid == "" || c.Twilio.AuthToken == "" || c.Twilio.From == "" {
			return errors.New("twilio account sid, auth token and sender number are required")
		}
	case ProviderFirebase:
		if c.Firebase.ProjectID == "" {
			return errors.New("a firebase project id is required")
		}
	default:
		return errors.New("invalid otp provider: " + c.OTP.Provider)
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return errors.New("the otp length must be between 4 and 10")
	}
	if c.OTP.FixedCode != "" && len(c.OTP.FixedCode) != c.OTP.Length {
		return errors.New("the fixed otp code does not match the otp length")
	}
	return nil
}
