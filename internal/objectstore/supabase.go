package objectstore

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"mindora.app/gateway/internal/model"
)

type SupabaseConfig struct {
	URL        string // project origin, e.g. https://abc.supabase.co
	ServiceKey string
	Timeout    time.Duration
}

// APIError is a rejection reported by the storage service. Its message is
// the service's own wording.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type supabaseUploadResponse struct {
	ID  string `json:"Id"`
	Key string `json:"Key"`
}

type supabaseErrorResponse struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

type SupabaseClient struct {
	http *resty.Client
}

// NewSupabaseClient creates an Uploader for the Supabase Storage REST API.
func NewSupabaseClient(cfg SupabaseConfig) (*SupabaseClient, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, errors.New("storage URL and service key are required")
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetAuthToken(cfg.ServiceKey).
		SetHeader("apikey", cfg.ServiceKey)
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}

	return &SupabaseClient{http: httpClient}, nil
}

func (c *SupabaseClient) Upload(ctx context.Context, bucket, name string, body []byte, opts UploadOptions) (*model.StoredObject, error) {
	var (
		out    supabaseUploadResponse
		apiErr supabaseErrorResponse
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", opts.ContentType).
		SetHeader("x-upsert", strconv.FormatBool(opts.Upsert)).
		SetHeader("cache-control", "max-age=3600").
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post(objectPath(bucket, name))
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Code: apiErr.Error, Message: msg}
	}

	return &model.StoredObject{ID: out.ID, FullPath: out.Key}, nil
}

// objectPath escapes each segment of name but keeps "/" as a folder separator.
// Empty segments from leading, trailing or repeated slashes are dropped.
func objectPath(bucket, name string) string {
	var segments []string
	for _, s := range strings.Split(name, "/") {
		if s != "" {
			segments = append(segments, url.PathEscape(s))
		}
	}
	return "/storage/v1/object/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}
