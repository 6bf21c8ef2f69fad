package applicantinfra

import (
	"context"
	"path"

	"github.com/Abraxas-365/shortlist/pkg/fsx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

// FileSnapshotArchive writes documents to <applicant-id>/<hash>.json
type FileSnapshotArchive struct {
	fs fsx.FileSystem
}

func NewFileSnapshotArchive(fs fsx.FileSystem) *FileSnapshotArchive {
	return &FileSnapshotArchive{fs: fs}
}

func (a *FileSnapshotArchive) Store(ctx context.Context, ref applicant.ApplicantRef, hash kernel.ContentHash, document string) error {
	p := SnapshotPath(ref, hash)

	// Same hash means same bytes
	exists, err := a.fs.Exists(ctx, p)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return a.fs.WriteFile(ctx, p, []byte(document), "application/json")
}

func SnapshotPath(ref applicant.ApplicantRef, hash kernel.ContentHash) string {
	return path.Join(ref.ID.String(), hash.String()+".json")
}
