// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// blobPrefix mimics the browser's object URL scheme.
const blobPrefix = "blob:summarizer/"

// Memory keeps exports in process memory.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Create(_ context.Context, data []byte, contentType string) (Handle, error) {
	id := uuid.NewString()
	buf := bytes.Clone(data)
	if buf == nil {
		buf = []byte{}
	}

	m.mu.Lock()
	m.blobs[id] = buf
	m.mu.Unlock()

	return Handle{
		ID:          id,
		URL:         blobPrefix + id,
		ContentType: contentType,
		Size:        int64(len(buf)),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (m *Memory) Open(_ context.Context, h Handle) (io.ReadCloser, error) {
	m.mu.Lock()
	data, ok := m.blobs[h.ID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrUnknownHandle
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) Release(_ context.Context, h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[h.ID]; !ok {
		return ErrUnknownHandle
	}
	delete(m.blobs, h.ID)
	return nil
}

// live returns the number of live handles.
func (m *Memory) live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

func (m *Memory) Close() error { return nil }
