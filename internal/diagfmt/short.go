package diagfmt

import (
	"fmt"
	"io"

	"tsunused/internal/diag"
	"tsunused/internal/source"
)

// Short печатает по одной строке на диагностику:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) {
	pal := palette{on: opts.Color}
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		pos, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(f, fs, opts.PathMode), pos.Line, pos.Col,
			pal.severity(d.Severity), d.Code.ID(), d.Message)
	}
}
