package ports

import "context"

// ArtifactStore — куда выкладываются готовые файлы.
type ArtifactStore interface {
	ObjectKey(jobID, filename string) string
	SaveArtifact(ctx context.Context, jobID, path string) (string, error)
}
