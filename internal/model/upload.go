package model

// UploadPayload is a raw object forwarded to storage as-is.
type UploadPayload struct {
	Body        []byte
	Filename    string
	ContentType string
}

// StoredObject is what the storage service reports back after an upload.
// FullPath is "<bucket>/<name>" and is empty if the service omitted it.
type StoredObject struct {
	ID       string
	FullPath string
}
