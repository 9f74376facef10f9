// Package s3 provides a data room source backed by an S3 bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/lawdit/lawdit"
)

// API is the subset of the S3 client used by Source.
type API interface {
	awss3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
}

// Ensure Source implements lawdit.Source at compile time.
var _ lawdit.Source = (*Source)(nil)

// Source lists objects under a bucket prefix. File IDs are object keys.
type Source struct {
	client API
	bucket string
	prefix string
}

// NewClient creates an S3 client from the default AWS configuration chain
// (environment, shared config, instance role).
func NewClient(ctx context.Context, region string) (*awss3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return awss3.NewFromConfig(cfg), nil
}

// NewSource creates a Source for objects of bucket under prefix.
func NewSource(client API, bucket, prefix string) *Source {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Source{client: client, bucket: bucket, prefix: prefix}
}

// ListFiles pages through every object under the prefix. Keys ending in
// "/" are folder markers and are skipped.
func (s *Source) ListFiles(ctx context.Context) ([]*lawdit.SourceFile, error) {
	input := &awss3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}

	var files []*lawdit.SourceFile
	p := awss3.NewListObjectsV2Paginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			files = append(files, &lawdit.SourceFile{
				ID:       key,
				Name:     path.Base(key),
				MimeType: mimeType(key),
				Size:     aws.ToInt64(obj.Size),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// DownloadPDF streams the object body to w.
func (s *Source) DownloadPDF(ctx context.Context, file *lawdit.SourceFile, w io.Writer) error {
	if file.MimeType != lawdit.MimePDF {
		return lawdit.Errorf(lawdit.EINVALID, "unsupported file type %s for %s", file.MimeType, file.Name)
	}

	obj, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(file.ID),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return lawdit.Errorf(lawdit.ENOTFOUND, "object %s not found", file.ID)
		}
		return fmt.Errorf("get object %s: %w", file.ID, err)
	}
	defer obj.Body.Close()

	if _, err := io.Copy(w, obj.Body); err != nil {
		return fmt.Errorf("read object %s: %w", file.ID, err)
	}
	return nil
}

func mimeType(key string) string {
	if strings.EqualFold(path.Ext(key), ".pdf") {
		return lawdit.MimePDF
	}
	return lawdit.MimeOctetStream
}
