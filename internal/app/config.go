package app

import (
	"time"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	BootstrapAdminEnabled bool
	BootstrapAdminEmail   string

	FrontendBaseURL string
	AllowedOrigins  string
	Port            string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	return Config{
		JWTSecretKey:          jwtSecretKey,
		AccessTokenTTL:        time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:       time.Duration(refreshTokenTTLSeconds) * time.Second,
		BootstrapAdminEnabled: utils.GetEnvAsBool("BOOTSTRAP_ADMIN_ENABLED", false, log),
		BootstrapAdminEmail:   utils.GetEnv("BOOTSTRAP_ADMIN_EMAIL", "", log),
		FrontendBaseURL:       utils.GetEnv("FRONTEND_BASE_URL", "http://localhost:3000", log),
		AllowedOrigins:        utils.GetEnv("ALLOWED_ORIGINS", "", log),
		Port:                  utils.GetEnv("PORT", "8080", log),
	}
}
