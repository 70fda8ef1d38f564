package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/session"
	"app/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 時計を差し替え可能にする約束
type Clock interface {
	Now() time.Time
}

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, name string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AuthRegisterResponse struct {
	User UserDTO `json:"user"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ログイン・refresh共通のレスポンス（クライアント側で保存する）
type AuthTokenResponse struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	User             UserDTO   `json:"user"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type SessionDTO struct {
	ID           string    `json:"id"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	LastActivity time.Time `json:"lastActivity"`
	CreatedAt    time.Time `json:"createdAt"`
	IsCurrent    bool      `json:"isCurrent"`
}

type SessionListResponse struct {
	Sessions []SessionDTO `json:"sessions"`
	Current  string       `json:"current"`
}

type AuthUsecase struct {
	users     repository.UserRepository
	sessions  *session.Store
	codec     *token.Codec
	validator AuthValidator
	clock     Clock
}

func NewAuthUsecase(
	users repository.UserRepository,
	sessions *session.Store,
	codec *token.Codec,
	validator AuthValidator,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		sessions:  sessions,
		codec:     codec,
		validator: validator,
		clock:     clock,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Name, req.Password); err != nil {
		return nil, err
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrInternal
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(pwHash),
		Role:         model.RoleMember,
		IsActive:     true,
	}

	//保存（email重複はuniqueIndexで弾かれる）
	if err := u.users.Create(ctx, user); err != nil {
		return nil, ErrConflict
	}

	return &AuthRegisterResponse{User: toUserDTO(user)}, nil
}

// ログイン成功でセッションを1つ作り、トークンペアを発行する。
func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest, ipAddress string, userAgent string) (*AuthTokenResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	//ユーザー取得
	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, ErrInternal
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return nil, ErrForbidden
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	//セッション作成（multi-device可）
	sess, err := u.sessions.Create(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, ErrInternal
	}

	//トークンペア発行
	pair, err := u.codec.Issue(subjectOf(user), sess.ID)
	if err != nil {
		return nil, ErrInternal
	}

	//last_login更新
	now := u.clock.Now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	return &AuthTokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresAt:        pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             toUserDTO(user),
	}, nil
}

// refreshトークン＋生きているセッションで新しいペアを発行する。
// アクセストークンは自己完結なので旧トークンの回収はしない（自然に期限切れ）。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*AuthTokenResponse, error) {
	v, err := u.sessions.Validate(ctx, refreshToken)
	if err != nil {
		return nil, ErrInternal
	}
	if !v.Valid() {
		//期限切れもセッション失効も再ログイン
		return nil, ErrUnauthorized
	}

	//accessトークンではrefreshさせない
	if v.Claims.TokenType != token.TypeRefresh {
		return nil, ErrUnauthorized
	}

	user, err := u.users.FindByID(ctx, v.Claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !user.IsActive {
		return nil, ErrForbidden
	}

	pair, err := u.codec.Issue(subjectOf(user), v.Session.ID)
	if err != nil {
		return nil, ErrInternal
	}

	return &AuthTokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresAt:        pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             toUserDTO(user),
	}, nil
}

// 現在のセッションだけ失効する。
// すでに無い場合も「ログアウト済み」として成功にする（リトライ安全）。
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) (*SuccessResponse, error) {
	if err := u.sessions.Revoke(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return &SuccessResponse{Message: "already logged out"}, nil
		}
		return nil, ErrInternal
	}

	return &SuccessResponse{Message: "logout success"}, nil
}

// 全デバイスからログアウト。
func (u *AuthUsecase) LogoutAll(ctx context.Context, userID string) (*SuccessResponse, error) {
	if err := u.sessions.RevokeAll(ctx, userID); err != nil {
		return nil, ErrInternal
	}

	return &SuccessResponse{Message: "logged out from all devices"}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID string) (*UserDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !user.IsActive {
		return nil, ErrForbidden
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// 「ログイン中のデバイス」一覧。現在のセッションに印を付ける。
func (u *AuthUsecase) ListSessions(ctx context.Context, userID string, currentSessionID string) (*SessionListResponse, error) {
	sessions, err := u.sessions.List(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionDTO{
			ID:           s.ID,
			IPAddress:    s.IPAddress,
			UserAgent:    s.UserAgent,
			LastActivity: s.LastActivity,
			CreatedAt:    s.CreatedAt,
			IsCurrent:    s.ID == currentSessionID,
		})
	}

	return &SessionListResponse{
		Sessions: out,
		Current:  currentSessionID,
	}, nil
}

// 指定セッションを失効する。他人のセッションは触らせない。
// 現在のセッションを消した場合はメッセージで区別する。
func (u *AuthUsecase) RevokeSession(ctx context.Context, userID string, sessionID string, currentSessionID string) (*SuccessResponse, error) {
	if sessionID == "" {
		return nil, ErrValidation
	}

	sess, err := u.sessions.List(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	owned := false
	for _, s := range sess {
		if s.ID == sessionID {
			owned = true
			break
		}
	}
	if !owned {
		//無い＝すでに失効済み扱い（リトライ安全）
		return &SuccessResponse{Message: "session already logged out"}, nil
	}

	if err := u.sessions.Revoke(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return &SuccessResponse{Message: "session already logged out"}, nil
		}
		return nil, ErrInternal
	}

	if sessionID == currentSessionID {
		return &SuccessResponse{Message: "current session logged out"}, nil
	}
	return &SuccessResponse{Message: "session revoked"}, nil
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}

func subjectOf(u *model.User) token.Subject {
	return token.Subject{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
	}
}
