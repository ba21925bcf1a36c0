package domain

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type putCall struct {
	key         string
	body        string
	size        int64
	contentType string
}

type fakeS3 struct {
	calls []putCall
}

func (c *fakeS3) PutObject(_ context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	c.calls = append(c.calls, putCall{key: key, body: string(b), size: size, contentType: contentType})
	return "https://bucket/" + key, nil
}

func TestSaveArtifact(t *testing.T) {
	client := &fakeS3{}
	svc := &s3Service{
		client: client,
		now:    func() time.Time { return time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC) },
	}

	p := filepath.Join(t.TempDir(), "doc.png")
	if err := os.WriteFile(p, []byte("pngdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	url, err := svc.SaveArtifact(context.Background(), "job-1", p)
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://bucket/job-1/2026-03-05/doc.png" {
		t.Errorf("url = %s", url)
	}

	want := putCall{key: "job-1/2026-03-05/doc.png", body: "pngdata", size: 7, contentType: "image/png"}
	if len(client.calls) != 1 || client.calls[0] != want {
		t.Errorf("calls = %+v, want %+v", client.calls, want)
	}
}

func TestSaveArtifact_Errors(t *testing.T) {
	svc := NewS3Service(&fakeS3{})

	if _, err := svc.SaveArtifact(context.Background(), "", "x.png"); err == nil {
		t.Error("empty job id accepted")
	}
	if _, err := svc.SaveArtifact(context.Background(), "job", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestNopStore(t *testing.T) {
	url, err := NewNopStore().SaveArtifact(context.Background(), "job", "whatever")
	if url != "" || err != nil {
		t.Errorf("nop store = %q, %v", url, err)
	}
}
