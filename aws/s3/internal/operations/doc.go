// Package operations contains the S3 operations behind the client:
// bucket and object listing, and object download.
package operations
