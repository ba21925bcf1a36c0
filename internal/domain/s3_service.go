package domain

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/masa1724/pdf2image/internal/ports"
)

type s3Service struct {
	client ports.S3Client
	now    func() time.Time
}

func NewS3Service(client ports.S3Client) ports.ArtifactStore {
	return &s3Service{client: client, now: time.Now}
}

// ObjectKey — путь в бакете
func (s *s3Service) ObjectKey(jobID, filename string) string {
	date := s.now().Format("2006-01-02")
	clean := filepath.Base(filename)
	return fmt.Sprintf("%s/%s/%s", jobID, date, clean)
}

// SaveArtifact — загружает готовый файл, возвращает публичный URL
func (s *s3Service) SaveArtifact(ctx context.Context, jobID, path string) (string, error) {
	if jobID == "" {
		return "", fmt.Errorf("jobID required")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.ObjectKey(jobID, path)
	return s.client.PutObject(ctx, key, f, st.Size(), contentType)
}

// nopStore — S3 не настроен, файлы остаются только локально
type nopStore struct{}

func NewNopStore() ports.ArtifactStore {
	return nopStore{}
}

func (nopStore) ObjectKey(jobID, filename string) string {
	return jobID + "/" + filepath.Base(filename)
}

func (nopStore) SaveArtifact(context.Context, string, string) (string, error) {
	return "", nil
}
