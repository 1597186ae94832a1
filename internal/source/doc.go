// Package source reads templates and data documents from local files or
// S3.
//
// References are plain paths or s3://bucket/key URIs:
//
//	loader := source.NewLoader(source.NewS3Client(cfg.S3), logger)
//	html, err := loader.Read(ctx, "s3://site/index.html")
//
// S3 reads are cached for a short TTL so that each page view does not
// round-trip to the bucket. Local files are always read fresh.
package source
