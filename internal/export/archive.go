package export

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver guarda uma cópia dos relatórios gerados.
type Archiver interface {
	Archive(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver envia para um bucket S3 compatível (R2, MinIO, AWS).
type S3Archiver struct {
	client     objectPutter
	bucket     string
	publicBase string
	now        func() time.Time
}

type S3Options struct {
	Bucket          string
	Endpoint        string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

func NewS3Archiver(ctx context.Context, opts S3Options) (*S3Archiver, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion("auto"),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Archiver{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: opts.PublicURL,
		now:        time.Now,
	}, nil
}

// Archive grava em relatorios/AAAA/MM/<arquivo> e devolve a URL pública (ou a chave,
// sem URL pública configurada).
func (a *S3Archiver) Archive(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := ArchiveKey(a.now(), filename)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	if a.publicBase == "" {
		return key, nil
	}
	return strings.TrimRight(a.publicBase, "/") + "/" + (&url.URL{Path: key}).EscapedPath(), nil
}

// ArchiveKey prefixa o horário no nome para não sobrescrever exportações anteriores.
func ArchiveKey(now time.Time, filename string) string {
	return path.Join("relatorios", now.Format("2006/01"), now.Format("150405")+"_"+path.Base(filename))
}
