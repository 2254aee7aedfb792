package minio

import (
	"context"
	"io"

	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// Opener streams one object.  *Client implements it.
type Opener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// ObjectSource reads the record collection from one JSON object.
type ObjectSource struct {
	opener Opener
	bucket string
	key    string
}

// NewObjectSource returns a source for bucket/key.
func NewObjectSource(opener Opener, bucket, key string) *ObjectSource {
	return &ObjectSource{opener: opener, bucket: bucket, key: key}
}

// Name implements dataset.Source.
func (s *ObjectSource) Name() string { return "minio" }

// Location returns "bucket/key".
func (s *ObjectSource) Location() string { return s.bucket + "/" + s.key }

// Fetch implements dataset.Source.
func (s *ObjectSource) Fetch(ctx context.Context) ([]record.Record, error) {
	rc, err := s.opener.Open(ctx, s.bucket, s.key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := record.Decode(rc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataParse, "decode dataset object").WithDetail(s.Location())
	}
	return records, nil
}

//Personal.AI order the ending
