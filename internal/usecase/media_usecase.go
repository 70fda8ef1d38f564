package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// 署名付きURLの有効期間
const presignTTL = 15 * time.Minute

// オブジェクトストレージに依存する約束（実装はS3互換）
type MediaStorage interface {
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignUpload(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)
}

// アップロード先キーの払い出し
type StorageKeyFunc func(now time.Time) string

type MediaUsecase struct {
	mediaRepo repo.MediaRepository
	txm       repo.TransactionManager
	storage   MediaStorage //nil可（ストレージ未設定の環境）
	newKey    StorageKeyFunc
	clock     Clock
}

// DI
func NewMediaUsecase(
	mediaRepo repo.MediaRepository,
	txm repo.TransactionManager,
	storage MediaStorage,
	newKey StorageKeyFunc,
	clock Clock,
) *MediaUsecase {
	return &MediaUsecase{
		mediaRepo: mediaRepo,
		txm:       txm,
		storage:   storage,
		newKey:    newKey,
		clock:     clock,
	}
}

type ListMediaInput struct {
	Page  int
	Limit int
	Type  string
}

type MediaListOutput struct {
	Items []model.Media `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *MediaUsecase) ListPublished(ctx context.Context, in ListMediaInput) (MediaListOutput, error) {
	if in.Page < 1 {
		return MediaListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return MediaListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.mediaRepo.List(ctx, repo.MediaFilter{
		Type:  model.MediaType(in.Type),
		Page:  in.Page,
		Limit: in.Limit,
	})
	if err != nil {
		return MediaListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return MediaListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

type MediaURLOutput struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// 公開済みメディアのダウンロードURL。実データはストレージから直接配られる。
func (u *MediaUsecase) DownloadURL(ctx context.Context, id string) (*MediaURLOutput, error) {
	if u.storage == nil {
		return nil, NewHTTPError(http.StatusServiceUnavailable, "storage not configured")
	}

	m, err := u.mediaRepo.FindByID(ctx, id)
	if err != nil {
		if err == repo.ErrMediaNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !m.Published {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}

	url, err := u.storage.PresignDownload(ctx, m.StorageKey, presignTTL)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "presign failed")
	}

	return &MediaURLOutput{
		URL:       url,
		ExpiresAt: u.clock.Now().Add(presignTTL),
	}, nil
}

type CreateUploadInput struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	MimeType string `json:"mime_type"`
}

type CreateUploadOutput struct {
	Media     model.Media `json:"media"`
	UploadURL string      `json:"upload_url"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// 管理者用。メタデータを未公開で作り、アップロード用の署名付きPUT URLを返す。
func (u *MediaUsecase) CreateUpload(ctx context.Context, actorUserID string, in CreateUploadInput) (*CreateUploadOutput, error) {
	if u.storage == nil {
		return nil, NewHTTPError(http.StatusServiceUnavailable, "storage not configured")
	}
	if in.Title == "" || in.MimeType == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "title and mime_type are required")
	}

	switch model.MediaType(in.Type) {
	case model.MediaTypeAudio, model.MediaTypeVideo, model.MediaTypeImage, model.MediaTypeDocument:
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid media type")
	}

	now := u.clock.Now()

	m := &model.Media{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Type:       model.MediaType(in.Type),
		StorageKey: u.newKey(now),
		MimeType:   in.MimeType,
	}

	uploadURL, err := u.storage.PresignUpload(ctx, m.StorageKey, m.MimeType, presignTTL)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "presign failed")
	}

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Media().Create(ctx, m); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionCreate, model.AuditResourceMedia, m.ID, nil, m, now))
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusConflict, "could not create media")
	}

	return &CreateUploadOutput{
		Media:     *m,
		UploadURL: uploadURL,
		ExpiresAt: now.Add(presignTTL),
	}, nil
}

// アップロード完了後に公開フラグを立てる。
func (u *MediaUsecase) Publish(ctx context.Context, actorUserID string, id string, sizeBytes int64) (*model.Media, error) {
	m, err := u.mediaRepo.FindByID(ctx, id)
	if err != nil {
		if err == repo.ErrMediaNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := *m
	now := u.clock.Now()

	m.Published = true
	if sizeBytes > 0 {
		m.SizeBytes = sizeBytes
	}

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Media().Update(ctx, m); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionUpdate, model.AuditResourceMedia, m.ID, &before, m, now))
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return m, nil
}

func (u *MediaUsecase) Delete(ctx context.Context, actorUserID string, id string) error {
	m, err := u.mediaRepo.FindByID(ctx, id)
	if err != nil {
		if err == repo.ErrMediaNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Media().Delete(ctx, id); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionDelete, model.AuditResourceMedia, id, m, nil, now))
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
