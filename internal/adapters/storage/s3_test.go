package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>raw</Name>
  <Prefix>telegram/context_date=2024-01-01</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>telegram/context_date=2024-01-01/b.json</Key>
    <LastModified>2024-01-02T03:00:00.000Z</LastModified>
    <Size>12</Size>
  </Contents>
  <Contents>
    <Key>telegram/context_date=2024-01-01/a.json</Key>
    <LastModified>2024-01-02T03:00:01.000Z</LastModified>
    <Size>34</Size>
  </Contents>
</ListBucketResult>`

func newTestStore(t *testing.T, handler http.HandlerFunc) *S3Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  aws.AnonymousCredentials{},
	})
	return NewS3FromClient(client, zerolog.Nop())
}

func TestListKeepsBackendOrder(t *testing.T) {
	var gotPath, gotPrefix string
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrefix = r.URL.Query().Get("prefix")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(listResponse))
	})

	objects, err := store.List(context.Background(), "raw", "telegram/context_date=2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "/raw", gotPath)
	assert.Equal(t, "telegram/context_date=2024-01-01", gotPrefix)
	require.Len(t, objects, 2)
	assert.Equal(t, "telegram/context_date=2024-01-01/b.json", objects[0].Key)
	assert.Equal(t, "b.json", objects[0].BaseName())
	assert.Equal(t, int64(34), objects[1].Size)
}

func TestListEmpty(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Name>raw</Name><KeyCount>0</KeyCount><IsTruncated>false</IsTruncated></ListBucketResult>`))
	})

	objects, err := store.List(context.Background(), "raw", "telegram/context_date=2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestListError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchBucket</Code><Message>The specified bucket does not exist</Message></Error>`))
	})

	_, err := store.List(context.Background(), "missing", "telegram/")
	require.Error(t, err)
}

func TestDownloadWritesFile(t *testing.T) {
	body := `{"message":{"message_id":1}}`
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/raw/telegram/context_date=2024-01-01/a.json", r.URL.Path)
		_, _ = w.Write([]byte(body))
	})

	path := filepath.Join(t.TempDir(), "a.json")
	err := store.Download(context.Background(), "raw", "telegram/context_date=2024-01-01/a.json", path)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestUploadMissingFile(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("не ожидали запрос к s3")
	})

	err := store.Upload(context.Background(), "enriched", "telegram/x.parquet", filepath.Join(t.TempDir(), "nope.parquet"))
	require.Error(t, err)
}
