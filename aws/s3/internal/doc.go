// Package internal contains private implementation details for the S3 module.
//
// The internal packages are organized as follows:
//   - operations: listing and download against the S3 API
//   - s3api: the narrow SDK surface the client depends on
//   - validation: bucket name and object key checks
//   - testutil: mocks and LocalStack helpers for tests
package internal
