// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/contmarket/catalog-backend/internal/config"
)

// StorageService stores container photos. Downloads go to S3 when AWS
// credentials are configured, to a local uploads directory otherwise.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
	client   *http.Client
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	svc := &StorageService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Storage.DownloadTimeout) * time.Second,
		},
	}

	if cfg.AWS.AccessKeyID == "" {
		// Local disk storage for development
		if err := os.MkdirAll(cfg.Storage.UploadsDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create uploads dir: %w", err)
		}
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

// StoreFromURL downloads a photo and stores it under a name derived from the
// source URL. The same URL always yields the same stored reference, which
// keeps repeated imports idempotent.
func (s *StorageService) StoreFromURL(ctx context.Context, remoteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid photo url %q: %w", remoteURL, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download photo: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.config.Storage.MaxDownloadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo body: %w", err)
	}
	if int64(len(body)) > s.config.Storage.MaxDownloadSize {
		return "", fmt.Errorf("photo exceeds %d bytes", s.config.Storage.MaxDownloadSize)
	}

	filename := photoFilename(remoteURL)
	contentType := resp.Header.Get("Content-Type")

	if s.s3Client != nil {
		return s.storeToS3(body, "photos/"+filename, contentType)
	}
	return s.storeToLocal(body, filename)
}

func (s *StorageService) storeToS3(body []byte, key, contentType string) (string, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           aws.String("public-read"),
	}
	if _, err := s.s3Client.PutObject(params); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.s3URL(key), nil
}

func (s *StorageService) storeToLocal(body []byte, filename string) (string, error) {
	filePath := filepath.Join(s.config.Storage.UploadsDir, filename)
	if _, err := os.Stat(filePath); err == nil {
		// Already downloaded in an earlier run
		return s.config.Storage.PublicBaseURL + "/" + filename, nil
	}
	if err := os.WriteFile(filePath, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return s.config.Storage.PublicBaseURL + "/" + filename, nil
}

// Delete removes a stored photo. Unknown references are ignored so that
// photo rows pointing at external URLs can still be deleted.
func (s *StorageService) Delete(storedURL string) error {
	if s.s3Client != nil {
		key := strings.TrimPrefix(storedURL, s.s3URL(""))
		_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.config.AWS.S3Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to delete from S3: %w", err)
		}
		return nil
	}

	prefix := s.config.Storage.PublicBaseURL + "/"
	if !strings.HasPrefix(storedURL, prefix) {
		return nil
	}
	filePath := filepath.Join(s.config.Storage.UploadsDir, strings.TrimPrefix(storedURL, prefix))
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete photo file: %w", err)
	}
	return nil
}

func (s *StorageService) s3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

// photoFilename derives a stable name from the source URL: sha256 of the URL
// plus its original extension.
func photoFilename(remoteURL string) string {
	sum := sha256.Sum256([]byte(remoteURL))
	ext := ".jpg"
	if parsed, err := url.Parse(remoteURL); err == nil {
		if e := strings.ToLower(path.Ext(parsed.Path)); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return hex.EncodeToString(sum[:16]) + ext
}
