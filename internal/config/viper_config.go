package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Configuration keys. Each is overridable through the environment with the
// GATEWAY_ prefix (dots become underscores), e.g. GATEWAY_BACKEND_BASE_URL.
const (
	keyEnv             = "env"
	keyPort            = "port"
	keyAppName         = "app_name"
	keyBackendBaseURL  = "backend.base_url"
	keyBackendTimeout  = "backend.timeout"
	keyCompanyID       = "backend.company_id"
	keyServiceUsername = "backend.service_username"
	keyServicePassword = "backend.service_password"
	keyTokenSecret     = "token.secret"
	keyTokenTTL        = "token.ttl"
	keyTokenIssuer     = "token.issuer"
	keyAllowedOrigins  = "cors.allowed_origins"
	keyProvisionOnBoot = "provision_on_boot"
)

type viperConfig struct {
	v *viper.Viper
}

var _ Config = viperConfig{}

func newViperConfig() viperConfig {
	v := viper.New()

	v.SetDefault(keyEnv, "DEV")
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyAppName, "ERP Gateway")
	v.SetDefault(keyBackendBaseURL, "https://localhost:50000/b1s/v1")
	v.SetDefault(keyBackendTimeout, 30*time.Second)
	v.SetDefault(keyCompanyID, "")
	v.SetDefault(keyServiceUsername, "")
	v.SetDefault(keyServicePassword, "")
	v.SetDefault(keyTokenSecret, "")
	v.SetDefault(keyTokenTTL, 30*time.Minute)
	v.SetDefault(keyTokenIssuer, "erp-gateway")
	v.SetDefault(keyAllowedOrigins, []string{})
	v.SetDefault(keyProvisionOnBoot, false)

	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gateway")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/erp-gateway")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn().Err(err).Msg("failed to read config file, using env and defaults")
		}
	}

	return viperConfig{v: v}
}

func (c viperConfig) GetEnv() string {
	return c.v.GetString(keyEnv)
}

func (c viperConfig) GetPort() string {
	port := c.v.GetString(keyPort)
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (c viperConfig) GetAppName() string {
	return c.v.GetString(keyAppName)
}

func (c viperConfig) GetBackendBaseURL() string {
	return c.v.GetString(keyBackendBaseURL)
}

func (c viperConfig) GetBackendTimeout() time.Duration {
	return c.v.GetDuration(keyBackendTimeout)
}

func (c viperConfig) GetCompanyID() string {
	return c.v.GetString(keyCompanyID)
}

func (c viperConfig) GetServiceUsername() string {
	return c.v.GetString(keyServiceUsername)
}

func (c viperConfig) GetServicePassword() string {
	return c.v.GetString(keyServicePassword)
}

func (c viperConfig) GetTokenSecret() string {
	return c.v.GetString(keyTokenSecret)
}

func (c viperConfig) GetTokenTTL() time.Duration {
	return c.v.GetDuration(keyTokenTTL)
}

func (c viperConfig) GetTokenIssuer() string {
	return c.v.GetString(keyTokenIssuer)
}

func (c viperConfig) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, origin := range c.v.GetStringSlice(keyAllowedOrigins) {
		origins[origin] = struct{}{}
	}
	return origins
}

func (c viperConfig) GetAllowedMethods() string {
	return "GET, POST, PATCH, DELETE"
}

func (c viperConfig) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}

func (c viperConfig) GetProvisionOnBoot() bool {
	return c.v.GetBool(keyProvisionOnBoot)
}
