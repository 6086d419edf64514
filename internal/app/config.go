package app

import (
	"time"

	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/envutil"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	HTTPAddr       string
	MaxUploadBytes int64
	IFCTimeout     time.Duration

	ServiceName string
	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	httpAddr := envutil.GetEnv("HTTP_ADDR", ":8080", log)
	maxUploadMB := envutil.GetEnvAsInt("MAX_UPLOAD_MB", 100, log)
	ifcTimeoutSeconds := envutil.GetEnvAsInt("IFC_PARSE_TIMEOUT", 30, log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		HTTPAddr:        httpAddr,
		MaxUploadBytes:  int64(maxUploadMB) << 20,
		IFCTimeout:      time.Duration(ifcTimeoutSeconds) * time.Second,
		ServiceName:     envutil.GetEnv("SERVICE_NAME", "material-passport", log),
		Environment:     envutil.GetEnv("ENVIRONMENT", "development", log),
		Version:         envutil.GetEnv("SERVICE_VERSION", "dev", log),
	}
}
