package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// 秘密鍵の最低長（バイト）。短い鍵では起動させない。
const minJWTSecretLen = 32

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット（32バイト以上必須）

	AccessTokenTTL  time.Duration // アクセストークン有効期間（既定900s）
	RefreshTokenTTL time.Duration // リフレッシュトークン有効期間（既定7日）
	NearExpiry      time.Duration // 「そろそろrefresh」の閾値（既定300s）

	RateLimitSweep time.Duration // レートリミッタの掃除間隔（既定5分）

	RedisAddr     string // 空ならキャッシュ無しで動く
	RedisPassword string
	RedisDB       int

	S3Endpoint  string // 空ならメディアの署名付きURLは無効
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）
}

// Loadは環境変数から読む。必須が欠けていれば起動自体を失敗させる
// （認証ルートだけ落ちるより、プロセスごと止める）。
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AccessTokenTTL:  envSeconds("ACCESS_TOKEN_TTL_SECONDS", 900),
		RefreshTokenTTL: envSeconds("REFRESH_TOKEN_TTL_SECONDS", 7*24*3600),
		NearExpiry:      envSeconds("TOKEN_NEAR_EXPIRY_SECONDS", 300),

		RateLimitSweep: envSeconds("RATE_LIMIT_SWEEP_SECONDS", 300),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    os.Getenv("S3_REGION"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		GoEnv: os.Getenv("GO_ENV"),
		FEURL: os.Getenv("FE_URL"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretLen {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLen)
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return Config{}, fmt.Errorf("token TTLs must be positive")
	}

	return cfg, nil
}

func envSeconds(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
