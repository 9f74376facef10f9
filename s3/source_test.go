package s3_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a fixed set of objects, two keys per page.
type fakeAPI struct {
	objects  map[string]string
	keys     []string
	prefixes []string
}

func (f *fakeAPI) ListObjectsV2(_ context.Context, in *awss3.ListObjectsV2Input, _ ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error) {
	f.prefixes = append(f.prefixes, aws.ToString(in.Prefix))

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range f.keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := min(start+2, len(f.keys))

	out := &awss3.ListObjectsV2Output{}
	for _, k := range f.keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:  aws.String(k),
			Size: aws.Int64(int64(len(f.objects[k]))),
		})
	}
	if end < len(f.keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(f.keys[end])
	}
	return out, nil
}

func (f *fakeAPI) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		objects: map[string]string{
			"acme/":              "",
			"acme/MSA.pdf":       "%PDF-msa",
			"acme/cap-table.xls": "xls",
			"acme/nda.PDF":       "%PDF-nda",
		},
		keys: []string{"acme/", "acme/MSA.pdf", "acme/cap-table.xls", "acme/nda.PDF"},
	}
}

func TestSource_ListFiles(t *testing.T) {
	t.Parallel()

	t.Run("pages through objects under prefix", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI()
		files, err := s3.NewSource(api, "deal-room", "/acme/").ListFiles(context.Background())

		require.NoError(t, err)
		require.Len(t, files, 3)
		assert.Equal(t, "acme/MSA.pdf", files[0].ID)
		assert.Equal(t, "MSA.pdf", files[0].Name)
		assert.Equal(t, lawdit.MimePDF, files[0].MimeType)
		assert.Equal(t, int64(8), files[0].Size)
		assert.Equal(t, lawdit.MimeOctetStream, files[1].MimeType)
		assert.Equal(t, lawdit.MimePDF, files[2].MimeType)
		assert.Equal(t, "acme/", api.prefixes[0])
		assert.Len(t, api.prefixes, 2)
	})
}

func TestSource_DownloadPDF(t *testing.T) {
	t.Parallel()

	t.Run("streams object body", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := s3.NewSource(newFakeAPI(), "deal-room", "acme").DownloadPDF(context.Background(),
			&lawdit.SourceFile{ID: "acme/MSA.pdf", MimeType: lawdit.MimePDF}, &buf)

		require.NoError(t, err)
		assert.Equal(t, "%PDF-msa", buf.String())
	})

	t.Run("returns ENOTFOUND for missing key", func(t *testing.T) {
		t.Parallel()

		err := s3.NewSource(newFakeAPI(), "deal-room", "acme").DownloadPDF(context.Background(),
			&lawdit.SourceFile{ID: "acme/gone.pdf", MimeType: lawdit.MimePDF}, &bytes.Buffer{})

		assert.Equal(t, lawdit.ENOTFOUND, lawdit.ErrorCode(err))
	})

	t.Run("rejects non-PDF objects", func(t *testing.T) {
		t.Parallel()

		err := s3.NewSource(newFakeAPI(), "deal-room", "acme").DownloadPDF(context.Background(),
			&lawdit.SourceFile{ID: "acme/cap-table.xls", MimeType: lawdit.MimeOctetStream}, &bytes.Buffer{})

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})
}
