package config

import (
	"strings"
	"time"
)

type Config interface {
	EnvConfig
	BackendConfig
	TokenConfig
	CorsConfig
	ProvisionConfig
}

type EnvConfig interface {
	GetEnv() string
	GetPort() string
	GetAppName() string
}

type BackendConfig interface {
	GetBackendBaseURL() string
	GetBackendTimeout() time.Duration
	GetCompanyID() string
	GetServiceUsername() string
	GetServicePassword() string
}

type TokenConfig interface {
	GetTokenSecret() string
	GetTokenTTL() time.Duration
	GetTokenIssuer() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type ProvisionConfig interface {
	GetProvisionOnBoot() bool
}

type AllowedOrigins map[string]struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func New() Config {
	return newViperConfig()
}
