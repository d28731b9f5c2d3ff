package archive

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/jcdickinson/oakdoc/internal/docs"
)

// ProgressPrinter keeps a single "Parsing i/n (Name)" line up to date on a
// terminal. A nil writer disables it.
type ProgressPrinter struct {
	w       io.Writer
	total   int
	done    int
	windows bool
}

func NewProgressPrinter(w io.Writer, total int) *ProgressPrinter {
	return &ProgressPrinter{w: w, total: total, windows: runtime.GOOS == "windows"}
}

// Print announces that c is about to be processed.
func (p *ProgressPrinter) Print(c *docs.ClassDoc) {
	p.done++
	if p.w == nil {
		return
	}

	var sb strings.Builder
	if p.windows {
		sb.WriteString("\r")
	} else {
		sb.WriteString("\r\033[K")
	}
	fmt.Fprintf(&sb, "Parsing %d/%d (%s)", p.done, p.total, c.Name)

	// The Windows console only moves the cursor back, so blank out whatever
	// the previous line left behind.
	if p.windows {
		for i := sb.Len(); i < 80; i++ {
			sb.WriteByte(' ')
		}
	}
	io.WriteString(p.w, sb.String())
}

// Finish ends the progress line.
func (p *ProgressPrinter) Finish() {
	if p.w == nil || p.done == 0 {
		return
	}
	io.WriteString(p.w, "\n")
}
