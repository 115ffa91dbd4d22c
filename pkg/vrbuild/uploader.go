package vrbuild

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/vrsoftware/vrbuild/pkg/storage"
)

// S3Uploader is an interface for uploading files to AWS S3 buckets.
type S3Uploader interface {
	Upload(ctx context.Context, filepath, bucket, key string) (string, error)
}

// FileCopyUploader is an interface for copying files from one directory to another.
type FileCopyUploader interface {
	Upload(ctx context.Context, src string, dst string) (string, error)
}

// Destination is a location that files are uploaded to.
type Destination struct {
	Method storage.UploadMethod
	// Bucket is the S3 bucket, it is empty for other methods.
	Bucket string
	// Path is the object key prefix for S3, the directory for filecopy.
	Path string
}

// ParseDestination parses a s3://<bucket>/[<prefix>], file://<path> or a
// plain directory path destination.
func ParseDestination(dest string) (*Destination, error) {
	switch {
	case strings.HasPrefix(dest, "s3://"):
		u, err := url.Parse(dest)
		if err != nil {
			return nil, err
		}

		if u.Host == "" {
			return nil, fmt.Errorf("%s: bucket part is missing", dest)
		}

		return &Destination{
			Method: storage.UploadMethodS3,
			Bucket: u.Host,
			Path:   strings.Trim(u.Path, "/"),
		}, nil

	case strings.HasPrefix(dest, "file://"):
		p := strings.TrimPrefix(dest, "file://")
		if p == "" {
			return nil, fmt.Errorf("%s: path is missing", dest)
		}

		return &Destination{Method: storage.UploadMethodFileCopy, Path: filepath.Clean(p)}, nil

	case strings.Contains(dest, "://"):
		return nil, fmt.Errorf("%s: unsupported URL scheme, supported are s3:// and file://", dest)

	case dest == "":
		return nil, errors.New("destination is empty")

	default:
		return &Destination{Method: storage.UploadMethodFileCopy, Path: filepath.Clean(dest)}, nil
	}
}

// String returns the URL of the destination.
func (d *Destination) String() string {
	if d.Method == storage.UploadMethodS3 {
		return "s3://" + path.Join(d.Bucket, d.Path)
	}

	return "file://" + d.Path
}

// Uploader uploads files to destinations.
type Uploader struct {
	s3client         S3Uploader
	filecopyUploader FileCopyUploader
}

// NewUploader returns an Uploader. s3client can be nil when no S3
// destination is used.
func NewUploader(s3client S3Uploader, filecopyUploader FileCopyUploader) *Uploader {
	return &Uploader{
		s3client:         s3client,
		filecopyUploader: filecopyUploader,
	}
}

// UploadResult is the result of an upload operation.
type UploadResult struct {
	// Src is the path of the uploaded file.
	Src    string
	URL    string
	Start  time.Time
	Stop   time.Time
	Method storage.UploadMethod
}

// Upload uploads the file src to relPath below the destination. relPath
// uses forward slashes.
func (u *Uploader) Upload(ctx context.Context, src string, dest *Destination, relPath string) (*UploadResult, error) {
	startTime := time.Now()

	var url string
	var err error

	switch dest.Method {
	case storage.UploadMethodS3:
		if u.s3client == nil {
			return nil, errors.New("s3 uploader is not configured")
		}

		url, err = u.s3client.Upload(ctx, src, dest.Bucket, path.Join(dest.Path, relPath))
		if err != nil {
			return nil, fmt.Errorf("s3 upload failed: %w", err)
		}

	case storage.UploadMethodFileCopy:
		var dst string

		dst, err = u.filecopyUploader.Upload(ctx, src, filepath.Join(dest.Path, filepath.FromSlash(relPath)))
		if err != nil {
			return nil, fmt.Errorf("filecopy failed: %w", err)
		}

		url = "file://" + dst

	default:
		return nil, fmt.Errorf("unsupported upload method: %q", dest.Method)
	}

	return &UploadResult{
		Src:    src,
		URL:    url,
		Start:  startTime,
		Stop:   time.Now(),
		Method: dest.Method,
	}, nil
}
