package config

import (
	"github.com/pagebound/score-service/internal/envconfig"
)

type Config struct {
	Port         string `validate:"required"`
	GCPProjectID string `validate:"required"`
	FirestoreDB  string `validate:"required"`
	DataStore    string `validate:"required,oneof=firestore memory"`
	Auth         AuthConfig
}

type AuthConfig struct {
	Mode     string `validate:"required"`
	JWKSURL  string
	Audience string
	Issuer   string
}

func Load() (Config, error) {
	cfg := Config{
		Port:         envconfig.Get("PORT", "8080"),
		GCPProjectID: envconfig.Get("GCP_PROJECT_ID", "pagebound-dev"),
		FirestoreDB:  envconfig.Get("FIRESTORE_DATABASE", "(default)"),
		DataStore:    envconfig.Get("DATASTORE", "firestore"),
		Auth: AuthConfig{
			Mode:     envconfig.Get("AUTH_MODE", "jwks"),
			JWKSURL:  envconfig.Get("JWKS_URL", ""),
			Audience: envconfig.Get("AUTH_AUDIENCE", ""),
			Issuer:   envconfig.Get("AUTH_ISSUER", ""),
		},
	}
	return cfg, envconfig.Validate(cfg)
}
