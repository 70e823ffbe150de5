package emu

import (
	"errors"
	"io"
	"os"
	"sync"
)

// ErrBadFD is returned for a descriptor that is not open or does not support
// the requested operation.
var ErrBadFD = errors.New("bad file descriptor")

// FileDescriptor represents an open guest file descriptor.
type FileDescriptor struct {
	Path string

	file   *os.File
	reader io.Reader
	writer io.Writer
}

// FDTable maps guest file descriptors to host streams and files.
type FDTable struct {
	mu  sync.Mutex
	fds map[uint64]*FileDescriptor
}

// NewFDTable creates a table with descriptors 0, 1 and 2 bound to the given
// streams. A nil stdin reads as end of file.
func NewFDTable(stdin io.Reader, stdout, stderr io.Writer) *FDTable {
	return &FDTable{
		fds: map[uint64]*FileDescriptor{
			0: {Path: "stdin", reader: stdin},
			1: {Path: "stdout", writer: stdout},
			2: {Path: "stderr", writer: stderr},
		},
	}
}

// Open opens a host file and returns the lowest free descriptor.
func (t *FDTable) Open(path string, flags int, mode os.FileMode) (uint64, error) {
	hostFile, err := os.OpenFile(path, flags, mode)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fd := uint64(0)
	for t.fds[fd] != nil {
		fd++
	}

	t.fds[fd] = &FileDescriptor{
		Path:   path,
		file:   hostFile,
		reader: hostFile,
		writer: hostFile,
	}

	return fd, nil
}

// Close closes a descriptor. Standard streams are unbound but the host
// streams are left open.
func (t *FDTable) Close(fd uint64) error {
	t.mu.Lock()
	entry, ok := t.fds[fd]
	delete(t.fds, fd)
	t.mu.Unlock()

	if !ok {
		return ErrBadFD
	}
	if entry.file != nil {
		return entry.file.Close()
	}
	return nil
}

// CloseAll closes every host file opened through the table.
func (t *FDTable) CloseAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for fd, entry := range t.fds {
		if entry.file != nil {
			errs = append(errs, entry.file.Close())
		}
		delete(t.fds, fd)
	}
	return errors.Join(errs...)
}

// IsOpen checks if a file descriptor is open.
func (t *FDTable) IsOpen(fd uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.fds[fd]
	return ok
}

// Get returns the descriptor entry if it is open.
func (t *FDTable) Get(fd uint64) (*FileDescriptor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.fds[fd]
	return entry, ok
}

// Read reads from a descriptor. A descriptor with no reader attached reads
// as end of file only for stdin; otherwise it is a bad descriptor.
func (t *FDTable) Read(fd uint64, buf []byte) (int, error) {
	entry, ok := t.Get(fd)
	if !ok {
		return 0, ErrBadFD
	}
	if entry.reader == nil {
		if fd == 0 {
			return 0, io.EOF
		}
		return 0, ErrBadFD
	}
	return entry.reader.Read(buf)
}

// Write writes to a descriptor.
func (t *FDTable) Write(fd uint64, buf []byte) (int, error) {
	entry, ok := t.Get(fd)
	if !ok || entry.writer == nil {
		return 0, ErrBadFD
	}
	return entry.writer.Write(buf)
}

// Seek sets the file position. Only host files can be seeked.
func (t *FDTable) Seek(fd uint64, offset int64, whence int) (int64, error) {
	entry, ok := t.Get(fd)
	if !ok || entry.file == nil {
		return 0, ErrBadFD
	}
	return entry.file.Seek(offset, whence)
}
