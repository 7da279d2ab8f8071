package s3

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"quizgen/pkg/loader"
)

// S3DocumentLoader is a DocumentLoader implementation that loads file
// contents from an S3 bucket. It uses the AWS SDK v2 for Go and works
// with S3-compatible storage like MinIO via a custom endpoint.
type S3DocumentLoader struct {
	bucket string
	prefix string
	ext    string
	client *s3.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3DocumentLoaderParams defines the configuration for creating a
// new S3DocumentLoader.
//
// Bucket specifies the S3 bucket name and Prefix the key prefix that
// ListDocuments enumerates. Endpoint allows overriding the S3 endpoint,
// Region specifies the AWS region, and AccessKey/SecretKey provide
// static credentials.
type NewS3DocumentLoaderParams struct {
	Bucket    string
	Prefix    string
	Ext       string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3DocumentLoader creates a new S3DocumentLoader using the provided
// parameters.
func NewS3DocumentLoader(ctx context.Context, params NewS3DocumentLoaderParams) (*S3DocumentLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &S3DocumentLoader{
		bucket: params.Bucket,
		prefix: params.Prefix,
		ext:    params.Ext,
		client: client,
		cache:  make(map[string][]byte),
	}, nil
}

// NewS3DocumentLoaderWithClient creates a new S3DocumentLoader using an
// existing s3.Client. This is useful to reuse a preconfigured AWS client.
func NewS3DocumentLoaderWithClient(bucket, prefix, ext string, client *s3.Client) *S3DocumentLoader {
	return &S3DocumentLoader{
		bucket: bucket,
		prefix: prefix,
		ext:    ext,
		client: client,
		cache:  make(map[string][]byte),
	}
}

// GetFileText retrieves the contents of the given document from the
// configured S3 bucket. Results are cached.
func (l *S3DocumentLoader) GetFileText(ctx context.Context, doc loader.Document) ([]byte, error) {
	cacheKey := loader.CacheKey(doc)

	l.cacheMu.RLock()
	if cached, ok := l.cache[cacheKey]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(cacheKey, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[cacheKey]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(doc.Path),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}

		byts := buf.Bytes()

		l.cacheMu.Lock()
		l.cache[cacheKey] = byts
		l.cacheMu.Unlock()

		return byts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// ListDocuments enumerates the objects under the configured prefix
// matching the configured extension.
func (l *S3DocumentLoader) ListDocuments(ctx context.Context) ([]loader.Document, error) {
	var docs []loader.Document

	paginator := s3.NewListObjectsV2Paginator(l.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.bucket),
		Prefix: aws.String(l.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			if l.ext != "" && !strings.EqualFold(filepath.Ext(key), l.ext) {
				continue
			}
			docs = append(docs, loader.NewDocument(loader.NewDocumentParams{
				ID:     filepath.Base(key),
				Path:   key,
				Loader: l,
			}))
		}
	}

	return docs, nil
}
