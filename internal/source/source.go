package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"captioncraft/internal/app/model"
	"captioncraft/pkg/httputil"
)

const defaultMaxBytes = 20 << 20

// ObjectStore reads objects addressed as gs://bucket/object.
type ObjectStore interface {
	Read(ctx context.Context, bucket, object string, maxBytes int64) ([]byte, string, error)
	Close() error
}

// Loader resolves a reference (path, "-", http(s) URL or gs:// URL) into
// pipeline input.
type Loader struct {
	http      *httputil.RetryClient
	openStore func(ctx context.Context) (ObjectStore, error)
	stdin     io.Reader
	maxBytes  int64
}

type Option func(*Loader)

func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.http = httputil.NewRetryClient(c, httputil.DefaultRetryConfig())
	}
}

func WithStorageEndpoint(endpoint string) Option {
	return func(l *Loader) {
		l.openStore = func(ctx context.Context) (ObjectStore, error) {
			return NewGCSStore(ctx, endpoint)
		}
	}
}

func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.stdin = r }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		http: httputil.NewRetryClient(http.DefaultClient, httputil.DefaultRetryConfig()),
		openStore: func(ctx context.Context) (ObjectStore, error) {
			return NewGCSStore(ctx, "")
		},
		stdin:    os.Stdin,
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Load(ctx context.Context, ref string) (model.Input, error) {
	ref = strings.TrimSpace(ref)

	var (
		data        []byte
		contentType string
		err         error
	)
	switch {
	case ref == "":
		return model.Input{}, &model.ValidationError{Message: "no input given"}
	case ref == "-":
		data, err = readLimited(l.stdin, l.maxBytes)
	case strings.HasPrefix(ref, "gs://"):
		data, contentType, err = l.loadObject(ctx, ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		data, contentType, err = l.loadURL(ctx, ref)
	default:
		data, err = l.loadFile(ref)
	}
	if err != nil {
		return model.Input{}, err
	}

	slog.Debug("Loaded input", "ref", ref, "bytes", len(data), "content_type", contentType)
	return Detect(ref, data, contentType)
}

func (l *Loader) loadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > l.maxBytes {
		return nil, tooLarge(l.maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (l *Loader) loadURL(ctx context.Context, url string) ([]byte, string, error) {
	resp, err := l.http.Get(ctx, url)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	data, err := readLimited(resp.Body, l.maxBytes)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (l *Loader) loadObject(ctx context.Context, ref string) ([]byte, string, error) {
	bucket, object, ok := strings.Cut(strings.TrimPrefix(ref, "gs://"), "/")
	if !ok || bucket == "" || object == "" {
		return nil, "", &model.ValidationError{Message: fmt.Sprintf("invalid object reference %q", ref)}
	}

	store, err := l.openStore(ctx)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = store.Close() }()

	return store.Read(ctx, bucket, object, l.maxBytes)
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	return data, nil
}

func tooLarge(maxBytes int64) error {
	return &model.ValidationError{Message: fmt.Sprintf("input is larger than %d MB", maxBytes>>20)}
}

// Detect decides the input kind from the name, declared content type and
// the content itself. HTML is reduced to its article text.
func Detect(name string, data []byte, contentType string) (model.Input, error) {
	ext := strings.ToLower(filepath.Ext(name))
	declared := strings.ToLower(strings.TrimSpace(contentType))
	sniffed := http.DetectContentType(data)
	base := filepath.Base(name)

	switch {
	case ext == ".pdf" || strings.HasPrefix(declared, "application/pdf") || bytes.HasPrefix(data, []byte("%PDF-")):
		return model.Input{Kind: model.InputPDF, Data: data, MimeType: "application/pdf", Name: base}, nil

	case strings.HasPrefix(sniffed, "image/"):
		return model.Input{Kind: model.InputImage, Data: data, MimeType: sniffed, Name: base}, nil

	case strings.HasPrefix(declared, "image/"):
		return model.Input{Kind: model.InputImage, Data: data, MimeType: mediaType(declared), Name: base}, nil

	case strings.HasPrefix(declared, "text/html") || strings.HasPrefix(sniffed, "text/html") || ext == ".html" || ext == ".htm":
		text, err := ArticleText(data)
		if err != nil {
			return model.Input{}, err
		}
		return model.Input{Kind: model.InputText, Text: text, Name: base}, nil
	}

	if !utf8.Valid(data) {
		return model.Input{}, &model.ValidationError{Message: fmt.Sprintf("unsupported input type %q", sniffed)}
	}
	return model.Input{Kind: model.InputText, Text: string(data), Name: base}, nil
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mt)
}
