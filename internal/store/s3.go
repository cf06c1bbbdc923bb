package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/yagro/gostore/internal/config"
	"github.com/yagro/gostore/pkg/errors"
)

// S3Store persists uploaded files as objects in an S3 bucket. Path and
// URL composition follow the same prefix/destination/filename rules as
// the local store; the object key is the relative path.
type S3Store struct {
	client      *s3.Client
	bucket      string
	region      string
	urlPrefix   string
	domain      string
	destination string
}

// NewS3Store creates an S3-backed store. Bucket and region are required;
// access and secret keys are optional and fall back to the ambient AWS
// credential chain. An endpoint override supports S3-compatible services.
func NewS3Store(ctx context.Context, storeCfg *config.StoreConfig, s3Cfg *config.S3Config) (*S3Store, error) {
	if err := storeCfg.ApplyDefaults(); err != nil {
		return nil, errors.ConfigError("failed to apply store defaults", err)
	}
	if s3Cfg.Bucket == "" {
		return nil, errors.ConfigError("s3.bucket is required for the s3 store", errors.ErrConfigError)
	}
	if s3Cfg.Region == "" {
		return nil, errors.ConfigError("s3.region is required for the s3 store", errors.ErrConfigError)
	}

	var configOpts []func(*awsconfig.LoadOptions) error
	configOpts = append(configOpts, awsconfig.WithRegion(s3Cfg.Region))

	if s3Cfg.AccessKey != "" && s3Cfg.SecretKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3Cfg.AccessKey, s3Cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, errors.ConfigError("failed to load AWS config", err)
	}

	var s3Opts []func(*s3.Options)
	if s3Cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3Cfg.Endpoint)
			o.UsePathStyle = s3Cfg.UsePathStyle
		})
	}

	return &S3Store{
		client:      s3.NewFromConfig(awsCfg, s3Opts...),
		bucket:      s3Cfg.Bucket,
		region:      s3Cfg.Region,
		urlPrefix:   storeCfg.URLPrefix,
		domain:      storeCfg.Domain,
		destination: storeCfg.Destination,
	}, nil
}

// key returns the object key for filename: destination/filename when a
// destination is set.
func (s *S3Store) key(filename string) string {
	if s.destination != "" {
		return path.Join(s.destination, filename)
	}
	return filename
}

// AbsolutePath returns the object key for filename. S3 has no
// filesystem; the key is the closest notion of a location.
func (s *S3Store) AbsolutePath(filename string) string {
	return s.key(filename)
}

// RelativePath returns the store-specific portion of the path, including
// the destination when one is set.
func (s *S3Store) RelativePath(filename string) string {
	return s.key(filename)
}

// relativeURLPath builds the unencoded URL path: prefix, destination
// when set, then the filename.
func (s *S3Store) relativeURLPath(filename string) string {
	parts := []string{s.urlPrefix}
	if s.destination != "" {
		parts = append(parts, s.destination)
	}
	parts = append(parts, filename)

	return path.Join(parts...)
}

// RelativeURL returns the public URL for filename minus the domain.
func (s *S3Store) RelativeURL(filename string) string {
	return pathToURI(s.relativeURLPath(filename))
}

// AbsoluteURL resolves the relative URL against the configured domain.
// Without a domain it falls back to the bucket's virtual-hosted endpoint
// with the object key as the path.
func (s *S3Store) AbsoluteURL(filename string) string {
	domain := s.domain
	if domain == "" {
		domain = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.bucket, s.region)
		base, err := url.Parse(domain)
		if err != nil {
			return s.RelativeURL(filename)
		}
		return base.ResolveReference(&url.URL{Path: "/" + s.key(filename)}).String()
	}

	base, err := url.Parse(domain)
	if err != nil {
		return s.RelativeURL(filename)
	}

	ref := &url.URL{Path: s.relativeURLPath(filename)}
	return base.ResolveReference(ref).String()
}

// Exists reports whether an object with filename's key is present.
func (s *S3Store) Exists(filename string) (bool, error) {
	_, err := s.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(filename)),
	})
	if err != nil {
		var notFound *types.NotFound
		if stderrors.As(err, &notFound) {
			return false, nil
		}
		return false, errors.StorageError("head", err)
	}
	return true, nil
}

// Save uploads the file's content under its sanitized filename and
// returns that name. Streaming handles upload directly; others are
// spooled through a temp file. The upload handle is released exactly
// once on every exit path.
func (s *S3Store) Save(file UploadedFile) (string, error) {
	defer file.Close()

	filename, err := SafeFilename(file.Filename())
	if err != nil {
		return "", err
	}

	body, cleanup, err := uploadBody(file)
	if err != nil {
		return "", errors.StorageError("open upload", err)
	}
	defer cleanup()

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(filename)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.WriteError(s.key(filename), err)
	}

	return filename, nil
}

// uploadBody obtains a reader for the upload's content. Handles that
// cannot stream are persisted to a temp file first via their mandatory
// save-to-path capability.
func uploadBody(file UploadedFile) (io.Reader, func(), error) {
	if opener, ok := file.(Opener); ok {
		rc, err := opener.Open()
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { rc.Close() }, nil
	}

	tmp, err := os.CreateTemp("", "gostore-upload-*")
	if err != nil {
		return nil, nil, err
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := file.SaveTo(tmpName); err != nil {
		os.Remove(tmpName)
		return nil, nil, err
	}

	f, err := os.Open(tmpName)
	if err != nil {
		os.Remove(tmpName)
		return nil, nil, err
	}

	return f, func() {
		f.Close()
		os.Remove(tmpName)
	}, nil
}

// Verify interface compliance at compile time
var _ Provider = (*S3Store)(nil)
