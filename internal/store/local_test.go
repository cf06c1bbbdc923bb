package store

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yagro/gostore/internal/config"
	"github.com/yagro/gostore/pkg/errors"
)

// stubUpload is an UploadedFile with a scriptable write result and a
// close counter.
type stubUpload struct {
	name    string
	data    string
	saveErr error
	closes  int
}

func (s *stubUpload) Filename() string { return s.name }

func (s *stubUpload) SaveTo(path string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return os.WriteFile(path, []byte(s.data), 0644)
}

func (s *stubUpload) Close() error {
	s.closes++
	return nil
}

func newTestStore(t *testing.T, cfg config.StoreConfig) *LocalStore {
	t.Helper()

	if cfg.BasePath == "" {
		cfg.BasePath = t.TempDir()
	}

	s, err := NewLocalStore(&cfg)
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	return s
}

func TestJoinStripsLeadingSeparators(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})
	sep := string(filepath.Separator)

	if got, want := s.Join("a", sep+"b"), s.Join("a", "b"); got != want {
		t.Errorf("Join(a, %sb) = %q, want %q", sep, got, want)
	}
	if got, want := s.Join("a", sep+sep+"b", sep+"c"), s.Join("a", "b", "c"); got != want {
		t.Errorf("Join with repeated separators = %q, want %q", got, want)
	}

	// A segment that looks absolute must not anchor the join to the root.
	got := s.Join("base", sep+"etc"+sep+"passwd")
	if !strings.HasPrefix(got, "base"+sep) {
		t.Errorf("Join(base, %setc%spasswd) escaped the first segment: %q", sep, sep, got)
	}

	// Trailing separators are stripped from the result.
	if got := s.Join("a", "b"+sep); strings.HasSuffix(got, sep) {
		t.Errorf("Join left a trailing separator: %q", got)
	}
}

func TestAbsolutePathAnchoredUnderBase(t *testing.T) {
	base := t.TempDir()
	s := newTestStore(t, config.StoreConfig{BasePath: base})

	abs := s.AbsolutePath("a.png")
	if abs != filepath.Join(base, "a.png") {
		t.Errorf("AbsolutePath(a.png) = %q, want %q", abs, filepath.Join(base, "a.png"))
	}

	abs = s.AbsolutePath(string(filepath.Separator) + "a.png")
	if !strings.HasPrefix(abs, base) {
		t.Errorf("AbsolutePath with a rooted filename escaped the base: %q", abs)
	}
}

func TestRelativePath(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{Destination: "avatars"})
	if got, want := s.RelativePath("x.png"), filepath.Join("avatars", "x.png"); got != want {
		t.Errorf("RelativePath(x.png) = %q, want %q", got, want)
	}

	s = newTestStore(t, config.StoreConfig{})
	if got := s.RelativePath("x.png"); got != "x.png" {
		t.Errorf("RelativePath(x.png) without destination = %q, want x.png", got)
	}
}

func TestSaveThenExists(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	upload := &stubUpload{name: "a.png", data: "payload"}
	filename, err := s.Save(upload)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filename != "a.png" {
		t.Errorf("Save returned %q, want a.png", filename)
	}

	exists, err := s.Exists(filename)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Exists returned false immediately after Save")
	}

	content, err := os.ReadFile(s.AbsolutePath(filename))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(content) != "payload" {
		t.Errorf("stored content = %q, want payload", content)
	}
}

func TestSaveCreatesDestinationDirectory(t *testing.T) {
	base := t.TempDir()
	s := newTestStore(t, config.StoreConfig{BasePath: base, Destination: "avatars"})

	filename, err := s.Save(&stubUpload{name: "x.png", data: "x"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := filepath.Join(base, "avatars", "x.png")
	if s.AbsolutePath(filename) != want {
		t.Errorf("AbsolutePath = %q, want %q", s.AbsolutePath(filename), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("file not written under destination: %v", err)
	}
}

func TestConcurrentSavesRaceOnDirectoryCreation(t *testing.T) {
	base := t.TempDir()
	s := newTestStore(t, config.StoreConfig{
		BasePath:    base,
		Destination: "not-yet-created",
	})

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	for _, name := range []string{"one.png", "two.png"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if _, err := s.Save(&stubUpload{name: name, data: name}); err != nil {
				errs <- err
			}
		}(name)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Save failed: %v", err)
	}

	for _, name := range []string{"one.png", "two.png"} {
		exists, err := s.Exists(name)
		if err != nil || !exists {
			t.Errorf("Exists(%s) = %v, %v after concurrent saves", name, exists, err)
		}
	}
}

func TestRelativeURLWithoutDomain(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	if got := s.RelativeURL("a.png"); got != "/flaskstore/a.png" {
		t.Errorf("RelativeURL(a.png) = %q, want /flaskstore/a.png", got)
	}

	// Without a domain the absolute URL falls back to the relative one.
	if got := s.AbsoluteURL("a.png"); got != "/flaskstore/a.png" {
		t.Errorf("AbsoluteURL(a.png) = %q, want /flaskstore/a.png", got)
	}
}

func TestAbsoluteURLWithDomainAndDestination(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{
		Domain:      "https://cdn.example.com",
		Destination: "avatars",
	})

	want := "https://cdn.example.com/flaskstore/avatars/x.png"
	if got := s.AbsoluteURL("x.png"); got != want {
		t.Errorf("AbsoluteURL(x.png) = %q, want %q", got, want)
	}
}

func TestURLsAreURIEncoded(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	if got := s.RelativeURL("my file.png"); got != "/flaskstore/my%20file.png" {
		t.Errorf("RelativeURL(my file.png) = %q, want /flaskstore/my%%20file.png", got)
	}
}

func TestSaveFailsWhenParentIsAFile(t *testing.T) {
	base := t.TempDir()

	// Occupy the destination slot with a plain file.
	if err := os.WriteFile(filepath.Join(base, "avatars"), []byte("in the way"), 0644); err != nil {
		t.Fatal(err)
	}

	s := newTestStore(t, config.StoreConfig{BasePath: base, Destination: "avatars"})

	upload := &stubUpload{name: "x.png", data: "x"}
	_, err := s.Save(upload)
	if err == nil {
		t.Fatal("Save succeeded with a file where the directory should be")
	}
	if !stderrors.Is(err, errors.ErrNotADirectory) {
		t.Errorf("Save error = %v, want ErrNotADirectory", err)
	}
	if !strings.Contains(err.Error(), filepath.Join(base, "avatars")) {
		t.Errorf("error does not name the offending path: %v", err)
	}

	// The target must not have been written.
	if content, err := os.ReadFile(filepath.Join(base, "avatars")); err != nil || string(content) != "in the way" {
		t.Errorf("blocking file was disturbed: %q, %v", content, err)
	}
	if upload.closes != 1 {
		t.Errorf("upload closed %d times, want 1", upload.closes)
	}
}

func TestSaveReleasesUploadOnWriteFailure(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	upload := &stubUpload{name: "a.png", saveErr: stderrors.New("disk full")}
	if _, err := s.Save(upload); err == nil {
		t.Fatal("Save succeeded despite write failure")
	}
	if upload.closes != 1 {
		t.Errorf("upload closed %d times, want 1", upload.closes)
	}
}

func TestSaveReleasesUploadOnSuccess(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	upload := &stubUpload{name: "a.png", data: "x"}
	if _, err := s.Save(upload); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if upload.closes != 1 {
		t.Errorf("upload closed %d times, want 1", upload.closes)
	}
}

func TestSaveRejectsUnusableFilename(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	upload := &stubUpload{name: "..", data: "x"}
	_, err := s.Save(upload)
	if !stderrors.Is(err, errors.ErrInvalidFilename) {
		t.Errorf("Save(..) error = %v, want ErrInvalidFilename", err)
	}
	if upload.closes != 1 {
		t.Errorf("upload closed %d times, want 1", upload.closes)
	}
}

func TestSaveOverwritesExistingFile(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	if _, err := s.Save(&stubUpload{name: "a.png", data: "first"}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if _, err := s.Save(&stubUpload{name: "a.png", data: "second"}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	content, err := os.ReadFile(s.AbsolutePath("a.png"))
	if err != nil {
		t.Fatal(err)
	}
	// Last writer wins; no uniqueness is enforced at this layer.
	if string(content) != "second" {
		t.Errorf("stored content = %q, want second", content)
	}
}

func TestSaveWithReaderFile(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	filename, err := s.Save(NewReaderFile("report.pdf", strings.NewReader("pdf bytes")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	content, err := os.ReadFile(s.AbsolutePath(filename))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "pdf bytes" {
		t.Errorf("stored content = %q, want pdf bytes", content)
	}
}

func TestExistsReflectsFilesystemState(t *testing.T) {
	s := newTestStore(t, config.StoreConfig{})

	exists, err := s.Exists("nope.png")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists returned true for a missing file")
	}

	if _, err := s.Save(&stubUpload{name: "yes.png", data: "y"}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(s.AbsolutePath("yes.png")); err != nil {
		t.Fatal(err)
	}

	// No caching: removal outside the store is observed immediately.
	exists, err = s.Exists("yes.png")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists returned true after the file was removed")
	}
}
