package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/jcdickinson/oakdoc/internal/config"
	"github.com/jcdickinson/oakdoc/internal/docs"
	"github.com/jcdickinson/oakdoc/internal/markdown"
	"github.com/jcdickinson/oakdoc/internal/record"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"
)

// Writer assembles the records of a model into one ZIP archive.
//
// The model is read strictly sequentially: each class is built and written
// before the next one is looked at. The model resolves relationships lazily
// and is not safe for concurrent use.
type Writer struct {
	cfg      config.Config
	log      *logrus.Logger
	progress io.Writer

	now  func() time.Time
	wrap func(io.Writer) io.Writer
}

// NewWriter creates an archive writer. progress may be nil.
func NewWriter(cfg config.Config, logger *logrus.Logger, progress io.Writer) *Writer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Writer{
		cfg:      cfg,
		log:      logger,
		progress: progress,
		now:      time.Now,
	}
}

// Write generates the archive and moves it over the configured output path,
// returning that path. On failure nothing is left behind and whatever was at
// the output path before is untouched.
func (w *Writer) Write(ctx context.Context, model *docs.Model) (string, error) {
	path := w.cfg.OutputPath()
	log := w.log.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"output": path,
	})

	var classes []*docs.ClassDoc
	excluded := 0
	for _, c := range model.Included() {
		if w.isExcluded(entryPath(c)) {
			excluded++
			continue
		}
		classes = append(classes, c)
	}
	log.WithFields(logrus.Fields{
		"types":    len(classes),
		"excluded": excluded,
	}).Info("generating archive")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating staging file: %w", err)
	}

	if err := w.writeArchive(ctx, tmp, classes, log); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("setting archive permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("syncing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("moving archive into place: %w", err)
	}

	log.Info("archive written")
	return path, nil
}

func (w *Writer) writeArchive(ctx context.Context, out io.Writer, classes []*docs.ClassDoc, log *logrus.Entry) error {
	if w.wrap != nil {
		out = w.wrap(out)
	}

	level := w.cfg.Output.CompressionLevel
	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(dst io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(dst, level)
	})

	manifest := NewManifest(w.cfg.Library, w.now())
	builder := record.NewBuilder(markdown.NewNormalizer(), w.cfg.Library.BaseURL)
	progress := NewProgressPrinter(w.progress, len(classes))
	defer progress.Finish()

	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generating archive: %w", err)
		}
		progress.Print(c)

		path := entryPath(c)
		if err := w.writeEntry(zw, path, builder.Build(c), manifest.Generated); err != nil {
			return fmt.Errorf("writing record %s: %w", path, err)
		}
		log.WithField("path", path).Debug("wrote record")
	}

	if err := w.writeEntry(zw, ManifestPath, manifest.Document(), manifest.Generated); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

func (w *Writer) writeEntry(zw *zip.Writer, name string, doc *etree.Document, modified time.Time) error {
	if w.cfg.Output.PrettyPrint {
		doc.Indent(2)
	}
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(entry)
	return err
}

func (w *Writer) isExcluded(path string) bool {
	for _, pattern := range w.cfg.Output.Exclude {
		// Patterns were checked by config.Validate.
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// entryPath returns where the record of c lives inside the archive.
func entryPath(c *docs.ClassDoc) string {
	return docs.KeyOf(c).Path(".xml")
}
