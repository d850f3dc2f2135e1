package database

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bluekite-labs/shopdesk-service/internal/config"
	"github.com/sirupsen/logrus"
)

// ObjectStorage abstrae el almacenamiento de artefactos binarios (imágenes QR).
// El núcleo sólo necesita escribir y borrar blobs por clave.
type ObjectStorage interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewObjectStorage construye la implementación según la configuración
func NewObjectStorage(cfg *config.StorageConfig, logger *logrus.Logger) (ObjectStorage, error) {
	if cfg.Type == "s3" {
		return NewS3Storage(cfg, logger)
	}
	return NewLocalStorage(cfg, logger)
}

// S3Storage almacena blobs en un bucket S3-compatible
type S3Storage struct {
	client *s3.Client
	config *config.StorageConfig
	logger *logrus.Logger
	bucket string
}

// NewS3Storage crea una nueva instancia del storage S3
func NewS3Storage(cfg *config.StorageConfig, logger *logrus.Logger) (*S3Storage, error) {
	// Resolver endpoint personalizado para proveedores S3-compatibles
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               cfg.Endpoint,
			SigningRegion:     cfg.Region,
			HostnameImmutable: true,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			},
		}),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &S3Storage{
		client: s3Client,
		config: cfg,
		logger: logger,
		bucket: cfg.Bucket,
	}, nil
}

// HealthCheck verifica que el bucket sea accesible
func (s *S3Storage) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("error checking object storage connection: %w", err)
	}

	return nil
}

// Write sube un blob al bucket y retorna su URL
func (s *S3Storage) Write(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading object %s: %w", key, err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"key":    key,
		"size":   len(data),
	}).Info("Object uploaded")

	return s.URL(key), nil
}

// Delete elimina un blob del bucket
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error deleting object %s: %w", key, err)
	}

	return nil
}

// URL retorna la URL pública del blob
func (s *S3Storage) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.config.Endpoint, "/"), s.bucket, key)
}

// LocalStorage almacena blobs en el disco local, para desarrollo
type LocalStorage struct {
	root   string
	logger *logrus.Logger
}

// NewLocalStorage crea una nueva instancia del storage local
func NewLocalStorage(cfg *config.StorageConfig, logger *logrus.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("error creating storage directory: %w", err)
	}

	return &LocalStorage{
		root:   cfg.Path,
		logger: logger,
	}, nil
}

// Write escribe un blob en disco y retorna su ruta
func (l *LocalStorage) Write(ctx context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(l.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("error creating directory for %s: %w", key, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("error writing object %s: %w", key, err)
	}

	return l.URL(key), nil
}

// Delete elimina un blob del disco. Un blob inexistente no es error:
// el objetivo es que no queden archivos huérfanos.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	path := filepath.Join(l.root, filepath.FromSlash(key))

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error deleting object %s: %w", key, err)
	}

	return nil
}

// URL retorna la ruta relativa del blob
func (l *LocalStorage) URL(key string) string {
	return "/" + strings.TrimPrefix(key, "/")
}
