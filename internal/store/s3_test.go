package store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeS3 answers path-style object requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		data, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Write(data)
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = data
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Store(t *testing.T) (*s3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Region:       "us-east-1",
		Credentials:  aws.AnonymousCredentials{},
	})
	return newS3Store(client, "designs"), fake
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	kv, fake := newTestS3Store(t)

	if _, err := kv.Get(ctx, DesignsKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() missing key error = %v, want ErrNotFound", err)
	}
	if err := kv.Set(ctx, DesignsKey, []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok := fake.objects["/designs/crk2_designs.json"]; !ok {
		t.Errorf("objects = %v, want /designs/crk2_designs.json", fake.objects)
	}
	got, err := kv.Get(ctx, DesignsKey)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("Get() = %s, want []", got)
	}
	if _, err := kv.Get(ctx, "../escape"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Get() invalid key error = %v, want ErrInvalidKey", err)
	}
	if err := kv.Delete(ctx, "a/b"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Delete() invalid key error = %v, want ErrInvalidKey", err)
	}
	if err := kv.Delete(ctx, DesignsKey); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := kv.Get(ctx, DesignsKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
}
