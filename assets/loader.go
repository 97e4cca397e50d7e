package assets

import (
	"io"
	"path"

	"golang.org/x/tools/godoc/vfs"
)

// Loader decodes one asset format.
type Loader[T any] interface {
	// Extensions lists the file extensions the loader accepts,
	// lowercase, without the leading dot.
	Extensions() []string
	// Load decodes the asset from its raw bytes.
	Load(ctx *Context) (T, error)
}

// Context hands a loader the raw bytes of an asset plus access to the
// files next to it, for formats that reference a sibling file.
type Context struct {
	Path string
	Ext  string
	Data []byte

	fs vfs.Opener
}

// ReadSibling reads a file relative to the asset's directory.
func (c *Context) ReadSibling(rel string) ([]byte, error) {
	sib, err := c.Sibling(rel)
	if err != nil {
		return nil, err
	}
	return sib.Data, nil
}

// Sibling loads a file relative to the asset's directory and wraps it in
// a context of its own, so it can be handed to another loader.
func (c *Context) Sibling(rel string) (*Context, error) {
	p := path.Join(path.Dir(c.Path), rel)
	data, err := readFile(c.fs, p)
	if err != nil {
		return nil, err
	}
	return &Context{
		Path: p,
		Ext:  normalizeExt(path.Ext(p)),
		Data: data,
		fs:   c.fs,
	}, nil
}

func readFile(fs vfs.Opener, path string) (data []byte, err error) {
	file, err := fs.Open(path)
	if err != nil {
		return
	}
	data, err = io.ReadAll(file)
	_ = file.Close()
	return
}
