package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

// recordingFS wraps the real filesystem and records mutations, so tests
// can assert a tool never touched disk.
type recordingFS struct {
	real    *OSFileSystem
	renames [][2]string
	removes []string
	writes  []string
}

func newRecordingFS() *recordingFS {
	return &recordingFS{real: NewOSFileSystem()}
}

func (r *recordingFS) Stat(name string) (os.FileInfo, error) {
	return r.real.Stat(name)
}

func (r *recordingFS) ReadFile(name string) ([]byte, error) { return r.real.ReadFile(name) }

func (r *recordingFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	r.writes = append(r.writes, name)
	return r.real.WriteFile(name, data, perm)
}

func (r *recordingFS) MkdirAll(path string, perm os.FileMode) error {
	return r.real.MkdirAll(path, perm)
}

func (r *recordingFS) Remove(name string) error {
	r.removes = append(r.removes, name)
	return r.real.Remove(name)
}

func (r *recordingFS) RemoveAll(path string) error {
	r.removes = append(r.removes, path)
	return r.real.RemoveAll(path)
}

func (r *recordingFS) Rename(oldpath, newpath string) error {
	r.renames = append(r.renames, [2]string{oldpath, newpath})
	return r.real.Rename(oldpath, newpath)
}

func (r *recordingFS) Copy(src, dst string, overwrite bool) error {
	return r.real.Copy(src, dst, overwrite)
}

func (r *recordingFS) ReadDir(name string) ([]os.DirEntry, error) { return r.real.ReadDir(name) }

func (r *recordingFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	return r.real.WalkDir(root, fn)
}

// fsFixture creates a temp working directory bound to a session.
func fsFixture(t *testing.T) (string, *session.Paths, engine.Call) {
	t.Helper()
	dir := t.TempDir()
	paths := session.NewPaths()
	call := engine.Call{AgentID: "test"}
	require.NoError(t, paths.SetCwd(call.Key(), dir))
	return dir, paths, call
}

func requireKind(t *testing.T, err error, kind string) {
	t.Helper()
	var de *engine.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, kind, de.Kind)
}

func TestExists(t *testing.T) {
	dir, _, _ := fsFixture(t)
	fsys := NewOSFileSystem()
	require.False(t, Exists(fsys, filepath.Join(dir, "nope")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yes"), []byte("x"), 0644))
	require.True(t, Exists(fsys, filepath.Join(dir, "yes")))
}

func TestOSFileSystemCopy(t *testing.T) {
	dir, _, _ := fsFixture(t)
	fsys := NewOSFileSystem()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	require.NoError(t, fsys.Copy(src, dst, false))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))

	// Refuses to clobber without overwrite.
	err = fsys.Copy(src, dst, false)
	require.Error(t, err)
	require.NoError(t, fsys.Copy(src, dst, true))
}

func TestProtectedPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	requireKind(t, protectedPathError("/"), "protected_path")
	requireKind(t, protectedPathError(home), "protected_path")
	requireKind(t, protectedPathError(home+string(os.PathSeparator)), "protected_path")
	require.NoError(t, protectedPathError(filepath.Join(home, "project")))
	require.NoError(t, protectedPathError("/tmp/anything"))
}
