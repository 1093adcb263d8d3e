// Package vfs is the in-memory DOS-style filesystem the shell and the mail
// configurators work on. Paths look like C:\FIDO\T-MAIL.CTL and are matched
// case-insensitively; names keep the case they were created with.
package vfs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("file not found")
	ErrNotDir   = errors.New("not a directory")
	ErrIsDir    = errors.New("is a directory")
	ErrExists   = errors.New("file already exists")
)

// PathError records the path an operation failed on.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Entry is one directory listing line.
type Entry struct {
	Name  string
	IsDir bool
	Size  int
}

type node struct {
	name     string
	dir      bool
	content  string
	children map[string]*node
}

func newDir(name string) *node {
	return &node{name: name, dir: true, children: map[string]*node{}}
}

// FS is a single drive with a current directory.
type FS struct {
	drive string
	root  *node
	cwd   []string // upper-cased components
}

// New creates an empty drive, e.g. New("C").
func New(drive string) *FS {
	return &FS{drive: strings.ToUpper(drive), root: newDir("")}
}

// Pwd returns the current directory, e.g. C:\FIDO.
func (f *FS) Pwd() string {
	return f.format(f.cwd)
}

// Cd changes the current directory.
func (f *FS) Cd(path string) error {
	parts, err := f.split(path)
	if err != nil {
		return &PathError{Op: "cd", Path: path, Err: err}
	}
	n, err := f.walk(parts)
	if err != nil {
		return &PathError{Op: "cd", Path: path, Err: err}
	}
	if !n.dir {
		return &PathError{Op: "cd", Path: path, Err: ErrNotDir}
	}
	f.cwd = parts
	return nil
}

// Ls lists a directory sorted with directories first, then by name.
func (f *FS) Ls(path string) ([]Entry, error) {
	parts, err := f.split(path)
	if err != nil {
		return nil, &PathError{Op: "ls", Path: path, Err: err}
	}
	n, err := f.walk(parts)
	if err != nil {
		return nil, &PathError{Op: "ls", Path: path, Err: err}
	}
	if !n.dir {
		return []Entry{{Name: n.name, Size: len(n.content)}}, nil
	}
	out := make([]Entry, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, Entry{Name: c.name, IsDir: c.dir, Size: len(c.content)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return strings.ToUpper(out[i].Name) < strings.ToUpper(out[j].Name)
	})
	return out, nil
}

// Cat returns a file's contents.
func (f *FS) Cat(path string) (string, error) {
	n, err := f.lookup("cat", path)
	if err != nil {
		return "", err
	}
	if n.dir {
		return "", &PathError{Op: "cat", Path: path, Err: ErrIsDir}
	}
	return n.content, nil
}

// Exists reports whether path names a file or directory.
func (f *FS) Exists(path string) bool {
	_, err := f.lookup("stat", path)
	return err == nil
}

// CreateDir makes a directory and any missing parents. An existing
// directory is not an error.
func (f *FS) CreateDir(path string) error {
	parts, err := f.split(path)
	if err != nil {
		return &PathError{Op: "mkdir", Path: path, Err: err}
	}
	n := f.root
	for _, p := range parts {
		c, ok := n.children[p]
		if !ok {
			c = newDir(f.display(path, p))
			n.children[p] = c
		}
		if !c.dir {
			return &PathError{Op: "mkdir", Path: path, Err: ErrNotDir}
		}
		n = c
	}
	return nil
}

// CreateFile makes a new file. The parent directory must exist and the file
// must not.
func (f *FS) CreateFile(path, content string) error {
	parent, name, err := f.parent("create", path)
	if err != nil {
		return err
	}
	if _, ok := parent.children[strings.ToUpper(name)]; ok {
		return &PathError{Op: "create", Path: path, Err: ErrExists}
	}
	parent.children[strings.ToUpper(name)] = &node{name: name, content: content}
	return nil
}

// WriteFile replaces a file's contents, creating the file if needed.
func (f *FS) WriteFile(path, content string) error {
	parent, name, err := f.parent("write", path)
	if err != nil {
		return err
	}
	if c, ok := parent.children[strings.ToUpper(name)]; ok {
		if c.dir {
			return &PathError{Op: "write", Path: path, Err: ErrIsDir}
		}
		c.content = content
		return nil
	}
	parent.children[strings.ToUpper(name)] = &node{name: name, content: content}
	return nil
}

// Abs resolves path against the current directory.
func (f *FS) Abs(path string) (string, error) {
	parts, err := f.split(path)
	if err != nil {
		return "", err
	}
	return f.format(parts), nil
}

func (f *FS) lookup(op, path string) (*node, error) {
	parts, err := f.split(path)
	if err != nil {
		return nil, &PathError{Op: op, Path: path, Err: err}
	}
	n, err := f.walk(parts)
	if err != nil {
		return nil, &PathError{Op: op, Path: path, Err: err}
	}
	return n, nil
}

func (f *FS) parent(op, path string) (*node, string, error) {
	parts, err := f.split(path)
	if err != nil || len(parts) == 0 {
		if err == nil {
			err = ErrIsDir
		}
		return nil, "", &PathError{Op: op, Path: path, Err: err}
	}
	dir, err := f.walk(parts[:len(parts)-1])
	if err != nil {
		return nil, "", &PathError{Op: op, Path: path, Err: err}
	}
	if !dir.dir {
		return nil, "", &PathError{Op: op, Path: path, Err: ErrNotDir}
	}
	return dir, f.display(path, parts[len(parts)-1]), nil
}

func (f *FS) walk(parts []string) (*node, error) {
	n := f.root
	for _, p := range parts {
		if !n.dir {
			return nil, ErrNotDir
		}
		c, ok := n.children[p]
		if !ok {
			return nil, ErrNotFound
		}
		n = c
	}
	return n, nil
}

// split turns path into upper-cased absolute components.
func (f *FS) split(path string) ([]string, error) {
	path = strings.ReplaceAll(strings.TrimSpace(path), "/", `\`)
	var parts []string
	if len(path) >= 2 && path[1] == ':' {
		if strings.ToUpper(path[:1]) != f.drive {
			return nil, fmt.Errorf("invalid drive specification")
		}
		path = path[2:]
		if !strings.HasPrefix(path, `\`) {
			parts = append(parts, f.cwd...)
		}
	} else if !strings.HasPrefix(path, `\`) {
		parts = append(parts, f.cwd...)
	}
	for _, p := range strings.Split(path, `\`) {
		switch p {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, strings.ToUpper(p))
		}
	}
	return parts, nil
}

// display recovers the caller's spelling of an upper-cased component.
func (f *FS) display(path, upper string) string {
	for _, p := range strings.FieldsFunc(path, func(r rune) bool { return r == '\\' || r == '/' }) {
		if strings.ToUpper(p) == upper {
			return p
		}
	}
	return upper
}

func (f *FS) format(parts []string) string {
	var names []string
	n := f.root
	for _, p := range parts {
		if c, ok := n.children[p]; ok {
			names = append(names, c.name)
			n = c
		} else {
			names = append(names, p)
		}
	}
	return f.drive + `:\` + strings.Join(names, `\`)
}

// Snapshot is a serializable copy of a drive.
type Snapshot struct {
	Dirs  []string          `json:"dirs,omitempty"`
	Files map[string]string `json:"files,omitempty"`
	Cwd   string            `json:"cwd,omitempty"`
}

// Snapshot copies every directory and file, keyed by absolute path.
func (f *FS) Snapshot() Snapshot {
	snap := Snapshot{Files: map[string]string{}, Cwd: f.Pwd()}
	var walk func(n *node, prefix string)
	walk = func(n *node, prefix string) {
		for _, c := range n.children {
			path := prefix + `\` + c.name
			if c.dir {
				snap.Dirs = append(snap.Dirs, path)
				walk(c, path)
				continue
			}
			snap.Files[path] = c.content
		}
	}
	walk(f.root, f.drive+":")
	sort.Strings(snap.Dirs)
	return snap
}

// Restore replaces the drive's contents with snap.
func (f *FS) Restore(snap Snapshot) error {
	f.root = newDir("")
	f.cwd = nil
	for _, d := range snap.Dirs {
		if err := f.CreateDir(d); err != nil {
			return err
		}
	}
	paths := make([]string, 0, len(snap.Files))
	for p := range snap.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := f.WriteFile(p, snap.Files[p]); err != nil {
			return err
		}
	}
	if snap.Cwd != "" {
		return f.Cd(snap.Cwd)
	}
	return nil
}
