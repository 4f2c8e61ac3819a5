package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"acaiteria/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotAnImage is returned when an upload is not an image
var ErrNotAnImage = errors.New("arquivo enviado não é uma imagem")

// ErrStorageDisabled is returned when S3 is not configured
var ErrStorageDisabled = errors.New("armazenamento de arquivos não configurado")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// StorageService provides file storage functionality
type StorageService struct {
	s3Client *s3.S3
	bucket   string
	baseURL  string
}

// NewStorageService creates a new storage service
func NewStorageService(cfg config.Storage) (*StorageService, error) {
	if !cfg.Enabled() {
		return nil, ErrStorageDisabled
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		// MinIO e compatíveis
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.DisableSSL = aws.Bool(strings.HasPrefix(cfg.Endpoint, "http://"))
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		bucket:   cfg.Bucket,
		baseURL:  publicBaseURL(cfg),
	}, nil
}

func publicBaseURL(cfg config.Storage) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	if cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// ImageKey builds the object key for a product image
func ImageKey(folder, filename, contentType string) string {
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)
}

// UploadImage uploads a multipart image to S3 and returns its public URL and key
func (s *StorageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Detect content type
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file for content type detection: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("%w: %s", ErrNotAnImage, contentType)
	}

	key := ImageKey(folder, fileHeader.Filename, contentType)

	// Upload to S3 without ACL (bucket should have public access policy)
	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(fileHeader.Size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("%s/%s", s.baseURL, key)
	log.Info().Str("key", key).Msg("Imagem enviada para o S3")
	return publicURL, key, nil
}

// DeleteFile deletes a file from S3
func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	log.Info().Str("key", key).Msg("Arquivo removido do S3")
	return nil
}
