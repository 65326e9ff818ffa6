package fs

import (
	"errors"
	"os"
)

// ErrInjected is the cause of every failure produced by [Faulty].
var ErrInjected = errors.New("injected fault")

// Op names an [FS] operation that [Faulty] can fail.
type Op string

// Operations [Faulty] can fail.
const (
	OpOpen            Op = "open"
	OpCreate          Op = "create"
	OpReadFile        Op = "readfile"
	OpWriteFileAtomic Op = "writefileatomic"
	OpReadDir         Op = "readdir"
	OpMkdirAll        Op = "mkdirall"
	OpStat            Op = "stat"
	OpRemoveAll       Op = "removeall"
)

// Faulty wraps an [FS] and fails chosen operations on chosen paths.
//
// Failures are returned as *[os.PathError] wrapping [ErrInjected] so callers
// see the same error shape as a real failure. Operations not configured pass
// through to the wrapped filesystem.
type Faulty struct {
	fs     FS
	faults map[Op]map[string]bool
}

// NewFaulty returns a [Faulty] around fs with no faults configured.
// Panics if fs is nil.
func NewFaulty(fs FS) *Faulty {
	if fs == nil {
		panic("fs is nil")
	}

	return &Faulty{fs: fs, faults: make(map[Op]map[string]bool)}
}

// Fail makes op fail for path. An empty path fails op for every path.
func (f *Faulty) Fail(op Op, path string) *Faulty {
	if f.faults[op] == nil {
		f.faults[op] = make(map[string]bool)
	}

	f.faults[op][path] = true

	return f
}

func (f *Faulty) check(op Op, path string) error {
	paths := f.faults[op]
	if paths[path] || paths[""] {
		return &os.PathError{Op: string(op), Path: path, Err: ErrInjected}
	}

	return nil
}

func (f *Faulty) Open(path string) (File, error) {
	if err := f.check(OpOpen, path); err != nil {
		return nil, err
	}

	return f.fs.Open(path)
}

func (f *Faulty) Create(path string) (File, error) {
	if err := f.check(OpCreate, path); err != nil {
		return nil, err
	}

	return f.fs.Create(path)
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile, path); err != nil {
		return nil, err
	}

	return f.fs.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic, path); err != nil {
		return err
	}

	return f.fs.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	if err := f.check(OpReadDir, path); err != nil {
		return nil, err
	}

	return f.fs.ReadDir(path)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}

	return f.fs.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat, path); err != nil {
		return nil, err
	}

	return f.fs.Stat(path)
}

// Exists fails under [OpStat] like [Faulty.Stat].
func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpStat, path); err != nil {
		return false, err
	}

	return f.fs.Exists(path)
}

func (f *Faulty) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}

	return f.fs.RemoveAll(path)
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
