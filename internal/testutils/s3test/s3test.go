// Package s3test configures the AWS SDK for tests against a local S3Mock
// instance, the tests are built with the s3test tag.
package s3test

import "testing"

// Bucket is the bucket that is created on S3Mock start.
const Bucket = "vrbuild-test"

// SetupEnv points the AWS SDK to S3Mock listening on localhost:9090.
func SetupEnv(t *testing.T) {
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:9090")

	// the AWS credentials and region must be set to something when
	// uploading to S3Mock via the aws sdk, otherwise the upload fails,
	// the actual values are arbitrary
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "123")
	t.Setenv("AWS_ACCESS_KEY_ID", "123")
}
