package archive

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/jcdickinson/oakdoc/internal/config"
	"github.com/jcdickinson/oakdoc/internal/record"
)

// ManifestPath is the location of the manifest inside an archive.
const ManifestPath = "info.xml"

// TimeFormat is the layout of the manifest's generated attribute.
const TimeFormat = "2006-01-02T15:04:05-0700"

// Manifest describes the library an archive was generated from.
type Manifest struct {
	Name              string
	Version           string
	BaseURL           string
	JavadocURLPattern string
	ProjectURL        string
	Generated         time.Time
}

// NewManifest creates the manifest of a generation run.
func NewManifest(lib config.LibraryConfig, generated time.Time) Manifest {
	return Manifest{
		Name:              lib.Name,
		Version:           lib.Version,
		BaseURL:           lib.BaseURL,
		JavadocURLPattern: lib.JavadocURLPattern,
		ProjectURL:        lib.ProjectURL,
		Generated:         generated,
	}
}

// Document renders the manifest as the info.xml record. Empty values are
// left out.
func (m Manifest) Document() *etree.Document {
	doc := record.NewDocument()
	el := doc.CreateElement("info")
	for _, attr := range []struct{ key, value string }{
		{"name", m.Name},
		{"version", m.Version},
		{"baseUrl", m.BaseURL},
		{"javadocUrlPattern", m.JavadocURLPattern},
		{"projectUrl", m.ProjectURL},
	} {
		if attr.value != "" {
			el.CreateAttr(attr.key, attr.value)
		}
	}
	el.CreateAttr("generated", m.Generated.Format(TimeFormat))
	return doc
}

func parseManifest(doc *etree.Document) (Manifest, error) {
	root := doc.SelectElement("info")
	if root == nil {
		return Manifest{}, fmt.Errorf("manifest has no info element")
	}

	m := Manifest{
		Name:              root.SelectAttrValue("name", ""),
		Version:           root.SelectAttrValue("version", ""),
		BaseURL:           root.SelectAttrValue("baseUrl", ""),
		JavadocURLPattern: root.SelectAttrValue("javadocUrlPattern", ""),
		ProjectURL:        root.SelectAttrValue("projectUrl", ""),
	}
	if generated := root.SelectAttrValue("generated", ""); generated != "" {
		t, err := time.Parse(TimeFormat, generated)
		if err != nil {
			return Manifest{}, fmt.Errorf("parsing generated time: %w", err)
		}
		m.Generated = t
	}
	return m, nil
}
