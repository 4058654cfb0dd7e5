package managers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"contact-hub/internal/config"
)

// StorageMgr uploads binary blobs to an object store and returns a public URL.
// Only the avatar update path uses it.
type StorageMgr interface {
	UploadAvatar(ctx context.Context, body io.Reader, key, contentType string) (string, error)
}

// S3StorageManager stores avatars in an S3-compatible bucket. A custom
// endpoint allows MinIO or any other S3 clone in development.
type S3StorageManager struct {
	client       *s3.Client
	bucket       string
	publicPrefix string
}

// NewStorageManager builds an S3 client from the static credentials in the
// configuration.
func NewStorageManager(cfg *config.Config) (StorageMgr, error) {
	log.Info("Initializing storage manager")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicPrefix := cfg.S3PublicPrefix
	if publicPrefix == "" {
		publicPrefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	log.Info("Initialized storage manager")
	return &S3StorageManager{
		client:       client,
		bucket:       cfg.S3Bucket,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}, nil
}

// UploadAvatar writes the object under the given key, overwriting any
// previous version, and returns its public URL.
func (sm *S3StorageManager) UploadAvatar(ctx context.Context, body io.Reader, key, contentType string) (string, error) {
	_, err := sm.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(sm.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return sm.publicPrefix + "/" + key, nil
}
