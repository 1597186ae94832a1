package source

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/vango-dev/dvue/internal/errors"
)

const (
	// DefaultCacheSize is the number of S3 objects kept in memory.
	DefaultCacheSize = 64

	// DefaultCacheTTL is how long a cached S3 object is served.
	DefaultCacheTTL = 30 * time.Second

	// MaxObjectSize bounds a single read.
	MaxObjectSize = 8 << 20
)

// S3API is the subset of *s3.Client the loader uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Ref is a parsed source reference.
type Ref struct {
	// Bucket is set for s3:// references.
	Bucket string

	// Key is the object key, or the file path for local references.
	Key string
}

// IsS3 reports whether the reference names an S3 object.
func (r Ref) IsS3() bool { return r.Bucket != "" }

// String returns the reference in its original form.
func (r Ref) String() string {
	if r.IsS3() {
		return "s3://" + r.Bucket + "/" + r.Key
	}
	return r.Key
}

// ParseRef parses a path or s3://bucket/key URI.
func ParseRef(ref string) (Ref, error) {
	scheme, rest, ok := strings.Cut(ref, "://")
	if !ok {
		if ref == "" {
			return Ref{}, errors.New("E120").WithDetail("Empty source reference")
		}
		return Ref{Key: ref}, nil
	}
	if scheme != "s3" {
		return Ref{}, errors.New("E121").
			WithDetail("Unsupported scheme " + scheme + ":// in " + ref).
			WithSuggestion("Use a local path or an s3://bucket/key URI")
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Ref{}, errors.New("E121").
			WithDetail("S3 references need a bucket and a key: " + ref)
	}
	return Ref{Bucket: bucket, Key: key}, nil
}

// Loader reads references. A nil S3 client rejects s3:// references.
type Loader struct {
	s3     S3API
	cache  *expirable.LRU[string, []byte]
	logger *slog.Logger
}

// NewLoader creates a Loader with the default cache.
func NewLoader(client S3API, logger *slog.Logger) *Loader {
	return NewLoaderWithCache(client, DefaultCacheSize, DefaultCacheTTL, logger)
}

// NewLoaderWithCache creates a Loader caching up to size S3 objects for ttl.
func NewLoaderWithCache(client S3API, size int, ttl time.Duration, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		s3:     client,
		cache:  expirable.NewLRU[string, []byte](size, nil, ttl),
		logger: logger.With("component", "source"),
	}
}

// Read returns the contents of ref.
func (l *Loader) Read(ctx context.Context, ref string) ([]byte, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if !r.IsS3() {
		return readFile(r.Key)
	}

	if data, ok := l.cache.Get(ref); ok {
		return data, nil
	}
	data, err := l.readS3(ctx, r)
	if err != nil {
		return nil, err
	}
	l.cache.Add(ref, data)
	return data, nil
}

// Invalidate drops a cached S3 object.
func (l *Loader) Invalidate(ref string) {
	l.cache.Remove(ref)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").WithDetail("No file at " + path).Wrap(err)
		}
		return nil, errors.New("E122").Wrap(err)
	}
	return data, nil
}

func (l *Loader) readS3(ctx context.Context, r Ref) ([]byte, error) {
	if l.s3 == nil {
		return nil, errors.New("E121").
			WithDetail("S3 is not configured").
			WithSuggestion("Set s3.region in the config file")
	}

	start := time.Now()
	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(r.Key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if stderrors.As(err, &noKey) || stderrors.As(err, &noBucket) {
			return nil, errors.New("E120").WithDetail("No object at " + r.String()).Wrap(err)
		}
		return nil, errors.New("E122").WithDetail("Failed to fetch " + r.String()).Wrap(err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(out.Body, MaxObjectSize+1))
	if err != nil {
		return nil, errors.New("E122").WithDetail("Failed to read " + r.String()).Wrap(err)
	}
	if n > MaxObjectSize {
		return nil, errors.New("E122").WithDetail(r.String() + " is larger than 8MiB")
	}

	l.logger.Debug("fetched s3 object", "ref", r.String(), "bytes", n, "duration", time.Since(start))
	return buf.Bytes(), nil
}
