package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/pkg/storage"
)

const (
	thumbnailMaxWidth  = 200
	thumbnailMaxHeight = 200
)

type Service interface {
	Upload(ctx context.Context, handbookID, uploaderID string, header *multipart.FileHeader) (*Document, error)
	GetByID(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context, filter Filter) ([]*Document, int, error)
	// Download opens the stored content. The caller closes the reader.
	Download(ctx context.Context, id string) (io.ReadCloser, *Document, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Document, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo            Repository
	store           storage.Storage
	handbookService handbook.Service
}

func NewService(repo Repository, store storage.Storage, handbookService handbook.Service) Service {
	return &service{
		repo:            repo,
		store:           store,
		handbookService: handbookService,
	}
}

func acceptedContentType(ct string) bool {
	return strings.HasPrefix(ct, "image/") || ct == "application/pdf"
}

func (s *service) Upload(ctx context.Context, handbookID, uploaderID string, header *multipart.FileHeader) (*Document, error) {
	if header.Size > MaxSize {
		return nil, ErrTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !acceptedContentType(contentType) {
		return nil, ErrUnsupportedType
	}
	if err := s.handbookService.EnsureWritable(ctx, handbookID); err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffered in memory so the content can be read twice: once for the
	// original, once for the thumbnail. MaxSize keeps this bounded.
	content, err := io.ReadAll(io.LimitReader(src, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	if int64(len(content)) > MaxSize {
		return nil, ErrTooLarge
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	storagePath := fmt.Sprintf("documents/%s/%s%s", handbookID, id, ext)

	if err := s.store.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	var thumbnailPath *string
	if strings.HasPrefix(contentType, "image/") {
		thumb, err := storage.Thumbnail(bytes.NewReader(content), thumbnailMaxWidth, thumbnailMaxHeight)
		if err != nil {
			// A broken thumbnail never blocks the upload.
			log.Printf("thumbnail for document %s failed: %v", id, err)
		} else {
			tPath := fmt.Sprintf("documents/%s/%s_thumb.jpg", handbookID, id)
			if err := s.store.Save(ctx, tPath, thumb); err == nil {
				thumbnailPath = &tPath
			}
		}
	}

	d := &Document{
		ID:             id,
		HandbookID:     handbookID,
		UploaderUserID: uploaderID,
		Filename:       header.Filename,
		StoragePath:    storagePath,
		ThumbnailPath:  thumbnailPath,
		ContentType:    contentType,
		Size:           int64(len(content)),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		// Roll the blobs back when the metadata insert fails.
		_ = s.store.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.store.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}
	return d, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Document, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Document, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.store.Get(ctx, d.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve document content: %w", err)
	}
	return stream, d, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Document, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if d.ThumbnailPath == nil {
		return nil, nil, ErrNotFound
	}
	stream, err := s.store.Get(ctx, *d.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve document thumbnail: %w", err)
	}
	return stream, d, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, d.StoragePath); err != nil {
		log.Printf("delete document blob %s: %v", d.StoragePath, err)
	}
	if d.ThumbnailPath != nil {
		_ = s.store.Delete(ctx, *d.ThumbnailPath)
	}
	return s.repo.Delete(ctx, id)
}
