package favorites

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

// Remote shares exported favorites through an S3 object. The object key
// decides the payload format, like a file name does.
type Remote struct {
	Bucket string
	Key    string

	svc        s3iface.S3API
	uploader   s3manageriface.UploaderAPI
	downloader s3manageriface.DownloaderAPI
}

// NewS3Remote creates a Remote using the default AWS credential chain.
func NewS3Remote(region, bucket, key string) (*Remote, error) {
	if bucket == "" || key == "" {
		return nil, rperror.Usage("S3 bucket and key are required.")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, rperror.Wrap(err, "create AWS session")
	}
	return &Remote{
		Bucket:     bucket,
		Key:        key,
		svc:        s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
	}, nil
}

// checkBucketExists checks if the bucket exists in the S3 storage.
func (r *Remote) checkBucketExists(ctx context.Context) error {
	_, err := r.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.Bucket),
	})
	if err != nil {
		return rperror.Wrap(err, "failed to check if bucket exists")
	}
	return nil
}

// Push uploads p to the remote object.
func (r *Remote) Push(ctx context.Context, p *Payload) error {
	if err := r.checkBucketExists(ctx); err != nil {
		return err
	}
	data, err := Marshal(p, r.Key)
	if err != nil {
		return err
	}
	_, err = r.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(r.Key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return rperror.Wrap(errors.Wrapf(err, "upload to bucket %s", r.Bucket), "failed to push favorites")
	}
	log.Infof("Favorites pushed to s3://%s/%s", r.Bucket, r.Key)
	return nil
}

// Pull downloads and decodes the remote object.
func (r *Remote) Pull(ctx context.Context) (*Payload, error) {
	buf := aws.NewWriteAtBuffer([]byte{})
	n, err := r.downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(r.Key),
	})
	if err != nil {
		return nil, rperror.Wrap(errors.Wrapf(err, "download s3://%s/%s", r.Bucket, r.Key), "failed to pull favorites")
	}
	log.Debugf("Downloaded %d bytes from s3://%s/%s", n, r.Bucket, r.Key)
	return Unmarshal(buf.Bytes(), r.Key)
}
