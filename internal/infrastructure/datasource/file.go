package datasource

import (
	"context"
	"os"

	"github.com/turtacn/InsightBoard/internal/domain/record"
	apperrors "github.com/turtacn/InsightBoard/pkg/errors"
)

// FileSource reads the collection from a local JSON array.
type FileSource struct {
	path string
}

// NewFileSource returns a source for path.  The file is read on every Fetch.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements dataset.Source.
func (s *FileSource) Name() string { return "file" }

// Fetch implements dataset.Source.
func (s *FileSource) Fetch(ctx context.Context) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "open dataset file").WithDetail(s.path)
	}
	defer f.Close()

	records, err := record.Decode(f)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDataParse, "decode dataset file").WithDetail(s.path)
	}
	return records, nil
}

//Personal.AI order the ending
