package deploy_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yi-nology/page_harbor/biz/dal/model"
)

// fakeStorage is an in-memory storage backend with injectable failures.
type fakeStorage struct {
	objects   map[string][]byte
	failKeys  map[string]bool
	failAll   bool
	prepared  int
	putOrder  []string
	listErr   error
	stuckKeys map[string]bool // keys whose delete silently fails
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:   make(map[string][]byte),
		failKeys:  make(map[string]bool),
		stuckKeys: make(map[string]bool),
	}
}

func (f *fakeStorage) PrepareBatch(ctx context.Context, ttl time.Duration) error {
	f.prepared++
	return nil
}

func (f *fakeStorage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	f.putOrder = append(f.putOrder, key)
	if f.failAll || f.failKeys[key] {
		return fmt.Errorf("simulated network error for %s", key)
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.objects[key] = buf
	return nil
}

func (f *fakeStorage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeStorage) DeleteObjects(ctx context.Context, keys []string) (int, error) {
	deleted := 0
	for _, key := range keys {
		if f.stuckKeys[key] {
			continue
		}
		if _, ok := f.objects[key]; ok {
			delete(f.objects, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStorage) Type() string { return "fake" }

// memHistory is an in-memory deploy.HistoryStore.
type memHistory struct {
	records []*model.Deployment
}

func (m *memHistory) FindByNameAndTarget(ctx context.Context, logicalName, target string) (*model.Deployment, error) {
	for _, record := range m.records {
		if record.LogicalName == logicalName && record.Target == target {
			return record, nil
		}
	}
	return nil, nil
}

func (m *memHistory) Save(ctx context.Context, record *model.Deployment) error {
	if record.RecordID == "" {
		record.RecordID = uuid.NewString()
	}
	m.records = append([]*model.Deployment{record}, m.records...)
	return nil
}

func (m *memHistory) Update(ctx context.Context, recordID string, fields *model.Deployment) (bool, error) {
	for i, record := range m.records {
		if record.RecordID == recordID {
			fields.RecordID = recordID
			m.records[i] = fields
			return true, nil
		}
	}
	return false, nil
}
