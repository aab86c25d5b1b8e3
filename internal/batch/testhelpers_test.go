package batch_test

import (
	"context"
	"errors"
	"os"
	"sync"

	"subsync/internal/history"
)

type upload struct {
	local  string
	remote string
	data   string
}

type fakeTransfer struct {
	mu        sync.Mutex
	listing   map[string][]string
	listErr   error
	uploadErr error
	uploads   []upload
}

func newFakeTransfer(dir string, names ...string) *fakeTransfer {
	return &fakeTransfer{listing: map[string][]string{dir: names}}
}

func (f *fakeTransfer) List(_ context.Context, dir string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	names, ok := f.listing[dir]
	if !ok {
		return nil, errors.New("no such directory")
	}
	return names, nil
}

func (f *fakeTransfer) Upload(_ context.Context, local, remote string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, upload{local: local, remote: remote, data: string(data)})
	return nil
}

func (f *fakeTransfer) Close() error { return nil }

type memoryJournal struct {
	entries []history.Entry
}

func (m *memoryJournal) Record(_ context.Context, entry history.Entry) (int64, error) {
	m.entries = append(m.entries, entry)
	return int64(len(m.entries)), nil
}
