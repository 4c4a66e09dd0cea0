package system

import (
	"bytes"
	"sync"
)

// Render buffers are reused across documents to keep GC pressure flat when
// the CLI fans out over many inputs.
var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// GetBuffer returns a reset buffer from the pool.
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// PutBuffer returns a buffer to the pool for reuse.
func PutBuffer(b *bytes.Buffer) {
	if b == nil {
		return
	}
	b.Reset()
	bufferPool.Put(b)
}
