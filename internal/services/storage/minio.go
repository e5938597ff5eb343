// Package storage mirrors finished reports to S3-compatible object storage.
//
// The local report directory stays the source of truth: retrieval always
// serves from disk, and a failed upload is logged, never returned to the
// client.
package storage

import (
	"context"
	"fmt"
	"log"
	"path"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/models"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/report"
)

// keyPrefix is prepended to every object key.
const keyPrefix = "reports"

// uploadTimeout bounds a single mirror upload.
const uploadTimeout = 2 * time.Minute

// Config holds the MinIO connection settings.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Mirror uploads reports to a bucket.
type Mirror struct {
	client *minio.Client
	bucket string
	wg     sync.WaitGroup
}

// NewMirror connects to MinIO and makes sure the bucket exists.
func NewMirror(ctx context.Context, cfg Config) (*Mirror, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		log.Printf("🪣 Created bucket %s", cfg.Bucket)
	}

	return &Mirror{client: cli, bucket: cfg.Bucket}, nil
}

// Upload copies the file at localPath to the bucket under key and returns
// the object's URL.
func (m *Mirror) Upload(ctx context.Context, localPath, key string) (string, error) {
	_, err := m.client.FPutObject(ctx, m.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", err
	}

	// Public URL when the bucket is public; private buckets need a presigned URL.
	return fmt.Sprintf("%s/%s/%s", m.client.EndpointURL(), m.bucket, key), nil
}

// ReportCreated uploads the new report in the background.
func (m *Mirror) ReportCreated(ctx context.Context, artifact *report.Artifact, resp *models.AnalysisResponse) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		uploadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uploadTimeout)
		defer cancel()

		url, err := m.Upload(uploadCtx, artifact.Path, ObjectKey(artifact.Filename))
		if err != nil {
			log.Printf("⚠️  Failed to mirror %s: %v", artifact.Filename, err)
			return
		}
		log.Printf("☁️  Mirrored %s → %s", artifact.Filename, url)
	}()
}

// Wait blocks until in-flight uploads finish.
func (m *Mirror) Wait() {
	m.wg.Wait()
}

// ObjectKey returns the bucket key for a report file.
func ObjectKey(filename string) string {
	return path.Join(keyPrefix, filename)
}
