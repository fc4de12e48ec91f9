package main

import (
	"io"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// progressInterval is how many completions pass between progress lines.
const progressInterval = 5

// progressPrinter renders pipeline progress and status messages.
// Counts are formatted with thousands separators.
type progressPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	printer *message.Printer
}

// newProgressPrinter creates a progressPrinter writing to out.
func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out:     out,
		printer: message.NewPrinter(language.English),
	}
}

// Progress prints a line every progressInterval completions and once the
// batch is done.
func (p *progressPrinter) Progress(done, total int) {
	if done%progressInterval != 0 && done != total {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printer.Fprintf(p.out, "Processed %d/%d entities\n", done, total)
}

// Status prints a status message on its own line.
func (p *progressPrinter) Status(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printer.Fprintln(p.out, msg)
}

// Printf prints a formatted message.
func (p *progressPrinter) Printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printer.Fprintf(p.out, format, args...)
}
