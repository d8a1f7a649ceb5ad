package objectstore

import (
	"context"

	"mindora.app/gateway/internal/model"
)

// UploadOptions control how the storage service stores an object.
type UploadOptions struct {
	ContentType string
	Upsert      bool // replace an existing object with the same name
}

// Uploader stores a single object in a bucket.
type Uploader interface {
	Upload(ctx context.Context, bucket, name string, body []byte, opts UploadOptions) (*model.StoredObject, error)
}

// PublicURLFunc turns the path reported by the storage service into a URL
// that can be handed out to clients.
type PublicURLFunc func(fullPath string) string

// PrefixURL builds URLs by concatenating origin, prefix and the object path
// verbatim, e.g. "https://x.supabase.co" + "/storage/v1/object/public/" + "bucket/a.pdf".
func PrefixURL(origin, prefix string) PublicURLFunc {
	return func(fullPath string) string {
		return origin + prefix + fullPath
	}
}
