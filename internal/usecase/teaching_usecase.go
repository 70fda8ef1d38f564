package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

const teachingCacheTTL = 5 * time.Minute

type TeachingUsecase struct {
	teachingRepo repo.TeachingRepository
	txm          repo.TransactionManager
	cache        repo.Cache //nil可（キャッシュ無し運用）
	clock        Clock
}

// DI
func NewTeachingUsecase(
	teachingRepo repo.TeachingRepository,
	txm repo.TransactionManager,
	cache repo.Cache,
	clock Clock,
) *TeachingUsecase {
	return &TeachingUsecase{
		teachingRepo: teachingRepo,
		txm:          txm,
		cache:        cache,
		clock:        clock,
	}
}

// GET /teachingsの入力DTO
type ListTeachingsInput struct {
	Page     int
	Limit    int
	Category string
}

type TeachingListOutput struct {
	Items []model.Teaching `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *TeachingUsecase) ListPublished(ctx context.Context, in ListTeachingsInput) (TeachingListOutput, error) {
	if in.Page < 1 {
		return TeachingListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return TeachingListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.teachingRepo.List(ctx, repo.TeachingFilter{
		Category: model.TeachingCategory(in.Category),
		Page:     in.Page,
		Limit:    in.Limit,
	})
	if err != nil {
		return TeachingListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return TeachingListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 公開済みをslugで1件。読み取りはキャッシュ前段あり。
func (u *TeachingUsecase) GetBySlug(ctx context.Context, slug string) (*model.Teaching, error) {
	if slug == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	cacheKey := "teaching:slug:" + slug

	if u.cache != nil {
		if raw, err := u.cache.Get(ctx, cacheKey); err == nil {
			var t model.Teaching
			if err := json.Unmarshal([]byte(raw), &t); err == nil {
				return &t, nil
			}
			//壊れたキャッシュは捨ててDBへ
			_ = u.cache.Del(ctx, cacheKey)
		}
	}

	t, err := u.teachingRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == repo.ErrTeachingNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !t.Published {
		//未公開は公開APIからは見えない
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}

	if u.cache != nil {
		if raw, err := json.Marshal(t); err == nil {
			_ = u.cache.Set(ctx, cacheKey, string(raw), teachingCacheTTL)
		}
	}

	return t, nil
}

type CreateTeachingInput struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Author   string `json:"author"`
	Publish  bool   `json:"publish"`
}

// 管理者用。作成と監査ログを同じTxで書く。
func (u *TeachingUsecase) Create(ctx context.Context, actorUserID string, in CreateTeachingInput) (*model.Teaching, error) {
	if in.Title == "" || in.Content == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "title and content are required")
	}

	now := u.clock.Now()

	t := &model.Teaching{
		ID:       uuid.NewString(),
		Title:    in.Title,
		Slug:     Slugify(in.Title),
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		Category: model.TeachingCategory(in.Category),
		Author:   in.Author,
	}
	if in.Publish {
		t.Published = true
		t.PublishedAt = &now
	}

	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Teachings().Create(ctx, t); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionCreate, model.AuditResourceTeaching, t.ID, nil, t, now))
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusConflict, "could not create teaching")
	}

	return t, nil
}

type UpdateTeachingInput struct {
	Title    *string `json:"title"`
	Excerpt  *string `json:"excerpt"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Publish  *bool   `json:"publish"`
}

func (u *TeachingUsecase) Update(ctx context.Context, actorUserID string, id string, in UpdateTeachingInput) (*model.Teaching, error) {
	t, err := u.teachingRepo.FindByID(ctx, id)
	if err != nil {
		if err == repo.ErrTeachingNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := *t
	now := u.clock.Now()

	if in.Title != nil {
		t.Title = *in.Title
		t.Slug = Slugify(*in.Title)
	}
	if in.Excerpt != nil {
		t.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		t.Content = *in.Content
	}
	if in.Category != nil {
		t.Category = model.TeachingCategory(*in.Category)
	}
	if in.Publish != nil {
		t.Published = *in.Publish
		if *in.Publish && t.PublishedAt == nil {
			t.PublishedAt = &now
		}
	}

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Teachings().Update(ctx, t); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionUpdate, model.AuditResourceTeaching, t.ID, &before, t, now))
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidate(ctx, before.Slug, t.Slug)

	return t, nil
}

func (u *TeachingUsecase) Delete(ctx context.Context, actorUserID string, id string) error {
	t, err := u.teachingRepo.FindByID(ctx, id)
	if err != nil {
		if err == repo.ErrTeachingNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Teachings().Delete(ctx, id); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionDelete, model.AuditResourceTeaching, id, t, nil, now))
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidate(ctx, t.Slug)

	return nil
}

func (u *TeachingUsecase) invalidate(ctx context.Context, slugs ...string) {
	if u.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		keys = append(keys, "teaching:slug:"+s)
	}
	_ = u.cache.Del(ctx, keys...)
}

// 監査ログの行を組み立てる。before/afterはJSON文字列で残す。
func auditEntry(actorUserID string, action model.AuditAction, resource model.AuditResourceType, resourceID string, before interface{}, after interface{}, at time.Time) *model.AuditLog {
	log := &model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		CreatedAt:    at,
	}
	if before != nil {
		if raw, err := json.Marshal(before); err == nil {
			log.BeforeJSON = string(raw)
		}
	}
	if after != nil {
		if raw, err := json.Marshal(after); err == nil {
			log.AfterJSON = string(raw)
		}
	}
	return log
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// タイトルからURL用のslugを作る。
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugNonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = uuid.NewString()
	}
	return s
}
