package archive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/jcdickinson/oakdoc/internal/docs"
	"github.com/klauspost/compress/zip"
)

// ErrNotFound is returned when an archive holds no record for a key.
var ErrNotFound = errors.New("record not found")

// Reader looks up records in a generated archive by canonical key.
type Reader struct {
	zr       *zip.ReadCloser
	files    map[string]*zip.File
	manifest Manifest
}

// Open opens an archive and reads its manifest.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	r := &Reader{zr: zr, files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	doc, err := r.document(ManifestPath)
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if r.manifest, err = parseManifest(doc); err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) Manifest() Manifest {
	return r.manifest
}

// Keys returns the canonical key of every record, in archive order.
func (r *Reader) Keys() ([]string, error) {
	var keys []string
	for _, f := range r.zr.File {
		if f.Name == ManifestPath || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		doc, err := r.document(f.Name)
		if err != nil {
			return nil, err
		}
		root := doc.SelectElement("class")
		if root == nil {
			continue
		}
		keys = append(keys, root.SelectAttrValue("name", ""))
	}
	return keys, nil
}

// Record returns the record of the class with the given key. Array
// dimensions in the key are ignored.
func (r *Reader) Record(key string) (*etree.Document, error) {
	k, err := docs.ParseKey(key)
	if err != nil {
		return nil, err
	}
	return r.document(k.Path(".xml"))
}

// Method returns the element of the method with the given method key, e.g.
// "java.util|List#add(int, java.lang|Object)".
func (r *Reader) Method(key string) (*etree.Element, error) {
	class, name, params, err := docs.ParseMethodKey(key)
	if err != nil {
		return nil, err
	}
	doc, err := r.Record(class.String())
	if err != nil {
		return nil, err
	}

	root := doc.SelectElement("class")
	if root == nil {
		return nil, fmt.Errorf("method %s: %w", key, ErrNotFound)
	}
	for _, method := range root.SelectElements("method") {
		if method.SelectAttrValue("name", "") == name && parametersMatch(method, params) {
			return method, nil
		}
	}
	return nil, fmt.Errorf("method %s: %w", key, ErrNotFound)
}

func (r *Reader) Close() error {
	return r.zr.Close()
}

func (r *Reader) document(name string) (*etree.Document, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return doc, nil
}

func parametersMatch(method *etree.Element, params []string) bool {
	elems := method.SelectElements("parameter")
	if len(elems) != len(params) {
		return false
	}
	for i, el := range elems {
		if el.SelectAttrValue("type", "") != params[i] {
			return false
		}
	}
	return true
}
