package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"artisan/internal/config"
	"artisan/internal/utils"
	"artisan/pkg/logger"
	"artisan/pkg/storage"
)

const (
	mediaKeyPrefix     = "blog"
	mediaCacheControl  = "public, max-age=31536000"
	mirrorFetchTimeout = 15 * time.Second
)

var (
	ErrStorageDisabled  = errors.New("media storage is not configured")
	ErrUnsupportedMedia = errors.New("unsupported image type")
	ErrMediaTooLarge    = errors.New("image exceeds the upload limit")
)

type MediaUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

type MediaService interface {
	// Upload normalises an image and stores it, returning its public URL.
	Upload(ctx context.Context, upload *MediaUpload) (*storage.UploadResponse, error)
	Delete(ctx context.Context, key string) error
	// MirrorRemote copies a remote image into storage. It returns the source
	// URL unchanged when mirroring is disabled.
	MirrorRemote(ctx context.Context, sourceURL string) (string, error)
	Enabled() bool
}

type mediaService struct {
	provider   storage.StorageProvider
	maxBytes   int64
	maxWidth   uint
	mirror     bool
	httpClient *http.Client
	now        func() time.Time
	logger     *logger.Logger
}

// NewMediaService wraps provider; a nil provider yields a service whose
// uploads fail with ErrStorageDisabled.
func NewMediaService(provider storage.StorageProvider, cfg *config.StorageConfig, logger *logger.Logger) MediaService {
	s := &mediaService{
		provider:   provider,
		maxBytes:   utils.MaxImageSize,
		httpClient: &http.Client{Timeout: mirrorFetchTimeout},
		now:        time.Now,
		logger:     logger,
	}
	if cfg != nil {
		if cfg.MaxUploadBytes > 0 {
			s.maxBytes = cfg.MaxUploadBytes
		}
		s.maxWidth = cfg.MaxImageWidth
		s.mirror = cfg.MirrorInbound
	}
	return s
}

func (s *mediaService) Enabled() bool {
	return s.provider != nil
}

func (s *mediaService) Upload(ctx context.Context, upload *MediaUpload) (*storage.UploadResponse, error) {
	if s.provider == nil {
		return nil, ErrStorageDisabled
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrMediaTooLarge
	}

	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	ext := utils.ExtensionForContentType(contentType)
	if ext == "" && utils.IsValidImageFormat(upload.Filename) {
		ext = utils.GetFileExtension(upload.Filename)
		contentType = utils.GetContentType(upload.Filename)
	}
	if ext == "" {
		return nil, ErrUnsupportedMedia
	}

	// WebP is stored as is; everything the decoder understands is resized.
	if ext != ".webp" && s.maxWidth > 0 {
		normalized, normalizedType, err := utils.NormalizeImage(data, s.maxWidth)
		if err != nil {
			s.logger.WithError(err).WithField("filename", upload.Filename).Debug("Storing image without resizing")
		} else {
			data = normalized
			contentType = normalizedType
			ext = utils.ExtensionForContentType(normalizedType)
		}
	}

	key := utils.GenerateObjectKey(mediaKeyPrefix, "image"+ext, s.now())
	resp, err := s.provider.Upload(ctx, &storage.UploadRequest{
		Key:          key,
		Reader:       bytes.NewReader(data),
		ContentType:  contentType,
		Size:         int64(len(data)),
		CacheControl: mediaCacheControl,
		Metadata:     map[string]string{"original-name": path.Base(upload.Filename)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store image via %s: %w", s.provider.Name(), err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"key":      resp.Key,
		"size":     resp.Size,
		"provider": s.provider.Name(),
	}).Info("Stored blog image")
	return resp, nil
}

func (s *mediaService) Delete(ctx context.Context, key string) error {
	if s.provider == nil {
		return ErrStorageDisabled
	}
	return s.provider.Delete(ctx, key)
}

func (s *mediaService) MirrorRemote(ctx context.Context, sourceURL string) (string, error) {
	if !s.mirror || s.provider == nil || sourceURL == "" {
		return sourceURL, nil
	}
	if !strings.HasPrefix(sourceURL, "http://") && !strings.HasPrefix(sourceURL, "https://") {
		return sourceURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return sourceURL, fmt.Errorf("failed to build mirror request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return sourceURL, fmt.Errorf("failed to fetch %s: %w", sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return sourceURL, fmt.Errorf("failed to fetch %s: status %d", sourceURL, resp.StatusCode)
	}

	stored, err := s.Upload(ctx, &MediaUpload{
		Filename:    path.Base(req.URL.Path),
		ContentType: resp.Header.Get("Content-Type"),
		Reader:      resp.Body,
	})
	if err != nil {
		return sourceURL, err
	}
	return stored.URL, nil
}
