package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3互換ストレージ（MinIO含む）の署名付きURL発行。
// 実データは本体を通らずクライアントが直接オブジェクトストレージとやり取りする。
type S3Client struct {
	presign *s3.PresignClient
	bucket  string
}

type S3Config struct {
	Endpoint  string //MinIO等の場合のみ。空ならAWS既定
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// アップロード先キーを払い出す（日付＋uuidで衝突しない）。
func NewStorageKey(now time.Time) string {
	return fmt.Sprintf("media/%d/%02d/%v", now.Year(), now.Month(), uuid.New())
}

// Presigned GET
func (c *S3Client) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Presigned PUT
func (c *S3Client) PresignUpload(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
