package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"tg-datalake/internal/domain"
	"tg-datalake/internal/infra/metrics"
)

const parquetContentType = "application/vnd.apache.parquet"

// S3Store реализует domain.ObjectStore поверх AWS S3.
type S3Store struct {
	client     *s3.Client
	downloader *manager.Downloader
	uploader   *manager.Uploader
	log        zerolog.Logger
}

var _ domain.ObjectStore = (*S3Store)(nil)

// NewS3 создаёт клиента из стандартной цепочки конфигурации AWS.
// Непустой endpoint включает path-style адресацию для S3-совместимых хранилищ.
func NewS3(ctx context.Context, endpoint string, log zerolog.Logger) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка конфигурации aws: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3FromClient(client, log), nil
}

// NewS3FromClient оборачивает готовый клиент.
func NewS3FromClient(client *s3.Client, log zerolog.Logger) *S3Store {
	return &S3Store{
		client:     client,
		downloader: manager.NewDownloader(client),
		uploader:   manager.NewUploader(client),
		log:        log,
	}
}

// List возвращает объекты под префиксом одним запросом ListObjectsV2.
func (s *S3Store) List(ctx context.Context, bucket, prefix string) (objects []domain.ObjectInfo, err error) {
	start := time.Now()
	defer func() { metrics.ObserveNetworkRequest("s3", "list", bucket, start, err) }()

	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 list %s/%s: %w", bucket, prefix, err)
	}
	if aws.ToBool(out.IsTruncated) {
		s.log.Warn().Str("bucket", bucket).Str("prefix", prefix).Int("keys", len(out.Contents)).Msg("s3: список объектов обрезан, берём первую страницу")
	}
	objects = make([]domain.ObjectInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		objects = append(objects, domain.ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	return objects, nil
}

// Download скачивает объект в локальный файл.
func (s *S3Store) Download(ctx context.Context, bucket, key, path string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveNetworkRequest("s3", "download", bucket, start, err) }()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание %s: %w", path, err)
	}
	defer f.Close()

	if _, err := s.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	return f.Close()
}

// Upload загружает локальный файл в объект.
func (s *S3Store) Upload(ctx context.Context, bucket, key, path string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveNetworkRequest("s3", "upload", bucket, start, err) }()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("открытие %s: %w", path, err)
	}
	defer f.Close()

	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(parquetContentType),
	}); err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", bucket, key, err)
	}
	s.log.Debug().Str("bucket", bucket).Str("key", key).Msg("s3: файл загружен")
	return nil
}
