package store

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
)

// UploadedFile is the narrow capability a store needs from an upload: a
// declared filename, a way to persist the bytes to an absolute path, and
// a release operation. The store releases the handle itself; callers must
// not rely on reading from it after Save returns.
type UploadedFile interface {
	// Filename returns the filename declared by the uploader. It is
	// untrusted input and is sanitized before use.
	Filename() string

	// SaveTo writes the upload's content to the given absolute path,
	// overwriting any existing file.
	SaveTo(path string) error

	// Close releases the underlying resource. It must be safe to call
	// after a failed SaveTo.
	Close() error
}

// Opener is an optional capability for upload handles that can expose
// their content as a stream. Object-store providers use it to avoid
// spooling through the filesystem.
type Opener interface {
	Open() (io.ReadCloser, error)
}

// MultipartFile adapts a *multipart.FileHeader from an HTTP form upload.
type MultipartFile struct {
	header *multipart.FileHeader
}

// NewMultipartFile wraps a multipart file header as an UploadedFile.
func NewMultipartFile(header *multipart.FileHeader) *MultipartFile {
	return &MultipartFile{header: header}
}

// Filename returns the filename declared in the multipart form
func (f *MultipartFile) Filename() string {
	return f.header.Filename
}

// SaveTo copies the multipart content to path
func (f *MultipartFile) SaveTo(path string) error {
	src, err := f.header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	return writeStream(path, src)
}

// Open exposes the multipart content as a stream
func (f *MultipartFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

// Close releases the upload. The multipart temp file is owned by the
// request and reclaimed with it, so there is nothing extra to free.
func (f *MultipartFile) Close() error {
	return nil
}

// ReaderFile adapts an io.Reader with a declared filename, for
// programmatic callers and tests.
type ReaderFile struct {
	name   string
	reader io.Reader
	closed bool
}

// NewReaderFile wraps a reader as an UploadedFile.
func NewReaderFile(name string, r io.Reader) *ReaderFile {
	return &ReaderFile{name: name, reader: r}
}

// Filename returns the declared filename
func (f *ReaderFile) Filename() string {
	return f.name
}

// SaveTo streams the reader's content to path
func (f *ReaderFile) SaveTo(path string) error {
	return writeStream(path, f.reader)
}

// Open exposes the remaining content as a stream. Close is still owned
// by the ReaderFile.
func (f *ReaderFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(f.reader), nil
}

// Close releases the underlying reader if it is closable. Repeated calls
// are no-ops.
func (f *ReaderFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// writeStream writes r to path with overwrite semantics. Writes are
// direct to destination: a concurrent reader may observe a partial file.
func writeStream(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()

	if copyErr != nil {
		return fmt.Errorf("failed to write %s: %w", path, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to flush %s: %w", path, closeErr)
	}
	return nil
}
