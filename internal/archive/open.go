package archive

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by Open.
const (
	EnvDriver      = "FIELDTRAX_ARCHIVE_DRIVER"
	EnvFSRoot      = "FIELDTRAX_ARCHIVE_FS_ROOT"
	EnvS3Bucket    = "FIELDTRAX_ARCHIVE_S3_BUCKET"
	EnvS3Region    = "FIELDTRAX_ARCHIVE_S3_REGION"
	EnvS3Endpoint  = "FIELDTRAX_ARCHIVE_S3_ENDPOINT"
	EnvS3PathStyle = "FIELDTRAX_ARCHIVE_S3_PATH_STYLE"
)

// Open selects a Store from the process environment.
//
//	FIELDTRAX_ARCHIVE_DRIVER: fs|s3|memory (default fs)
//	FIELDTRAX_ARCHIVE_FS_ROOT: directory for the fs driver (default ./fieldtrax-archive)
//	FIELDTRAX_ARCHIVE_S3_BUCKET: bucket for the s3 driver (required)
//	FIELDTRAX_ARCHIVE_S3_REGION: region (default us-east-1)
//	FIELDTRAX_ARCHIVE_S3_ENDPOINT: custom endpoint, e.g. MinIO
//	FIELDTRAX_ARCHIVE_S3_PATH_STYLE: true|false
//
// S3 credentials come from the standard AWS variables and profiles.
func Open(ctx context.Context) (Store, error) {
	return OpenWith(ctx, os.Getenv)
}

// OpenWith is Open with an explicit variable lookup.
func OpenWith(ctx context.Context, getenv func(string) string) (Store, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(getenv(EnvDriver))))
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFSStore(getenv(EnvFSRoot))
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverS3:
		cfg, err := s3ConfigFrom(getenv)
		if err != nil {
			return nil, err
		}
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("%s: unknown archive driver %q", EnvDriver, driver)
	}
}

func s3ConfigFrom(getenv func(string) string) (S3Config, error) {
	cfg := S3Config{
		Bucket:   strings.TrimSpace(getenv(EnvS3Bucket)),
		Region:   strings.TrimSpace(getenv(EnvS3Region)),
		Endpoint: strings.TrimSpace(getenv(EnvS3Endpoint)),
	}
	if cfg.Bucket == "" {
		return S3Config{}, fmt.Errorf("%s required for s3 archive driver", EnvS3Bucket)
	}
	if raw := strings.TrimSpace(getenv(EnvS3PathStyle)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return S3Config{}, fmt.Errorf("%s: %w", EnvS3PathStyle, err)
		}
		cfg.PathStyle = v
	}
	return cfg, nil
}
