package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 失敗理由の種別。呼び出し側はこれで分岐する（throwしない）。
type Kind string

const (
	KindExpired      Kind = "expired"
	KindMalformed    Kind = "malformed"
	KindBadSignature Kind = "bad-signature"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// 時計を差し替え可能にする約束（テストで時間を進める）
type Clock interface {
	Now() time.Time
}

type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"sid"`
	TokenType string `json:"typ"`
}

// access/refreshをまとめて発行した結果
type Pair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// Verifyの構造化結果。Valid=falseでもpanic/throwはしない。
type Result struct {
	Valid  bool
	Claims *Claims
	Kind   Kind
}

// 発行に必要な利用者情報
type Subject struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// 署名付きトークンの発行と検証。サーバー側に状態は持たない。
type Codec struct {
	secret        []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	nearThreshold time.Duration
	clock         Clock
	parser        *jwt.Parser
}

func NewCodec(secret []byte, accessTTL, refreshTTL, nearThreshold time.Duration, clock Clock) *Codec {
	c := &Codec{
		secret:        secret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		nearThreshold: nearThreshold,
		clock:         clock,
	}

	//HS256のみ許可。expの判定も注入した時計で行う
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return c.clock.Now() }),
	)

	return c
}

// access+refreshのペアを発行する。入力と秘密鍵と時計だけで決まる（副作用なし）。
func (c *Codec) Issue(sub Subject, sessionID string) (Pair, error) {
	now := c.clock.Now()

	accessExp := now.Add(c.accessTTL)
	refreshExp := now.Add(c.refreshTTL)

	access, err := c.sign(sub, sessionID, TypeAccess, now, accessExp)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := c.sign(sub, sessionID, TypeRefresh, now, refreshExp)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (c *Codec) sign(sub Subject, sessionID string, typ string, iat, exp time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:    sub.UserID,
		Email:     sub.Email,
		Name:      sub.Name,
		Role:      sub.Role,
		SessionID: sessionID,
		TokenType: typ,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// 署名と有効期限を検証する。壊れた入力でもerrorを返すだけ。
func (c *Codec) Verify(raw string) Result {
	claims := &Claims{}

	t, err := c.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		//署名不正と期限切れはKindで区別できるようにする
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Result{Valid: false, Kind: KindBadSignature}
		case errors.Is(err, jwt.ErrTokenExpired):
			return Result{Valid: false, Kind: KindExpired}
		default:
			return Result{Valid: false, Kind: KindMalformed}
		}
	}

	if !t.Valid {
		return Result{Valid: false, Kind: KindMalformed}
	}

	//自分が発行した形かの最低限のチェック
	if claims.UserID == "" || claims.TokenType == "" {
		return Result{Valid: false, Kind: KindMalformed}
	}

	return Result{Valid: true, Claims: claims}
}

// exp - now <= threshold なら期限が近い（等しい場合も近い扱い）。
func (c *Codec) NearExpiry(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Sub(c.clock.Now()) <= c.nearThreshold
}

// アクセストークンの有効期間（レスポンスのexpires_in用）
func (c *Codec) AccessTTL() time.Duration {
	return c.accessTTL
}
