package source

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/dvue/internal/config"
)

// NewS3Client builds an S3 client from config. It returns nil when no
// region is configured. Credentials come from the standard AWS_*
// environment variables; without them requests are sent anonymously,
// which works for public buckets.
func NewS3Client(cfg config.S3Config) *s3.Client {
	if cfg.Region == "" {
		return nil
	}
	return s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: endpoint(cfg.Endpoint),
		UsePathStyle: cfg.UsePathStyle,
		Credentials:  envCredentials(),
	})
}

// NewLoaderFromConfig creates a Loader whose s3:// support follows cfg.
func NewLoaderFromConfig(cfg config.S3Config, logger *slog.Logger) *Loader {
	var client S3API
	if c := NewS3Client(cfg); c != nil {
		client = c
	}
	return NewLoader(client, logger)
}

func endpoint(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

// envCredentials reads AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
// AWS_SESSION_TOKEN, falling back to unsigned requests.
func envCredentials() aws.CredentialsProvider {
	if os.Getenv("AWS_ACCESS_KEY_ID") == "" || os.Getenv("AWS_SECRET_ACCESS_KEY") == "" {
		return aws.AnonymousCredentials{}
	}
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}, nil
	}))
}
