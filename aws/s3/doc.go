// Package s3 is a read-only client for the object store the museum kiosk
// data lands in. It wraps AWS SDK v2 with functional options, validates
// bucket names and keys before any request, and writes downloads through
// the fs.Filesystem abstraction.
//
// Example usage:
//
//	client, err := s3.New(s3.WithRegion("eu-west-2"))
//	if err != nil {
//	    return err
//	}
//
//	objects, err := client.ListObjects(ctx, "resources-museum")
//	if err != nil {
//	    return err
//	}
//	for _, obj := range objects {
//	    _, err := client.DownloadFile(ctx, "resources-museum", obj.Key, "bucket_data/"+obj.Key)
//	    ...
//	}
package s3
