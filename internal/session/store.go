package session

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/token"

	"github.com/google/uuid"
)

// セッションが無い（失効済み）場合のKind。codecの3種に加える。
const KindNotFound token.Kind = "not-found"

// 時計を差し替え可能にする約束
type Clock interface {
	Now() time.Time
}

// Validateの三値結果。
// 「有効だがそろそろrefreshして」をエラーにせず伝えるためにboolではなく状態を持つ。
type State int

const (
	StateInvalid State = iota
	StateValid
	StateValidNeedsRefresh
)

type Validation struct {
	State   State
	Kind    token.Kind //Invalidのときの理由
	Claims  *token.Claims
	Session *model.Session
}

func (v Validation) Valid() bool {
	return v.State != StateInvalid
}

// サーバー側のセッション台帳。トークンが暗号的に有効でも
// ここに無ければ失効済みとして扱う（明示的なrevokeを可能にする）。
type Store struct {
	repo  repository.SessionRepository
	codec *token.Codec
	clock Clock
}

func NewStore(repo repository.SessionRepository, codec *token.Codec, clock Clock) *Store {
	return &Store{
		repo:  repo,
		codec: codec,
		clock: clock,
	}
}

// ログイン成功時に1回呼ぶ。idは衝突しないようにuuid。
func (s *Store) Create(ctx context.Context, userID string, ipAddress string, userAgent string) (*model.Session, error) {
	now := s.clock.Now()

	sess := &model.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		CreatedAt:    now,
		LastActivity: now,
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// トークン検証＋セッション照合。
// 有効ならlast_activityを進め、期限が近ければNeedsRefreshで返す。
func (s *Store) Validate(ctx context.Context, rawToken string) (Validation, error) {
	res := s.codec.Verify(rawToken)
	if !res.Valid {
		return Validation{State: StateInvalid, Kind: res.Kind}, nil
	}

	sess, err := s.repo.FindByID(ctx, res.Claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			//revoke済み・存在しないはnot-found（ログアウト済み扱い）
			return Validation{State: StateInvalid, Kind: KindNotFound}, nil
		}
		//ストレージ障害だけは呼び出し側へ伝播（500に変換される）
		return Validation{}, err
	}

	//検証が通ったリクエストごとに活動時刻を進める
	if err := s.repo.Touch(ctx, sess.ID, s.clock.Now()); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return Validation{}, err
	}

	state := StateValid
	if s.codec.NearExpiry(res.Claims) {
		state = StateValidNeedsRefresh
	}

	return Validation{
		State:   state,
		Claims:  res.Claims,
		Session: sess,
	}, nil
}

// ユーザーの生きているセッション一覧（作成時刻の昇順で安定）。
func (s *Store) List(ctx context.Context, userID string) ([]model.Session, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// 1セッションを失効する。無ければErrSessionNotFound。
func (s *Store) Revoke(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// ユーザーの全セッションを失効する。
// 返ってきた時点で生きているセッションは残っていない。
func (s *Store) RevokeAll(ctx context.Context, userID string) error {
	return s.repo.DeleteAllByUserID(ctx, userID)
}
