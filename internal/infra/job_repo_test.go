package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/masa1724/pdf2image/internal/ports"
)

func TestMemJobRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemJobRepo()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, &ports.Job{ID: id, Status: ports.JobRunning, CreatedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}

	msg := "boom"
	if err := repo.Finish(ctx, "b", ports.JobFailed, nil, &msg); err != nil {
		t.Fatal(err)
	}
	if err := repo.Finish(ctx, "c", ports.JobDone, []string{"/out/c.png"}, nil); err != nil {
		t.Fatal(err)
	}

	b, err := repo.Get(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != ports.JobFailed || b.Error == nil || *b.Error != "boom" || b.FinishedAt == nil {
		t.Errorf("b = %+v", b)
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, j := range recent {
		ids = append(ids, j.ID)
	}
	if d := cmp.Diff([]string{"c", "b"}, ids); d != "" {
		t.Errorf("recent (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"/out/c.png"}, recent[0].Artifacts); d != "" {
		t.Errorf("artifacts (-want +got):\n%s", d)
	}
}

func TestMemJobRepo_NotFound(t *testing.T) {
	repo := NewMemJobRepo()

	if _, err := repo.Get(context.Background(), "x"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Get: err = %v, want ErrJobNotFound", err)
	}
	if err := repo.Finish(context.Background(), "x", ports.JobDone, nil, nil); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Finish: err = %v, want ErrJobNotFound", err)
	}
}
