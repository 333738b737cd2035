package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tsunused/internal/diag"
	"tsunused/internal/source"
)

const tabWidth = 4

type palette struct {
	on bool
}

func (p palette) paint(s string, attrs ...color.Attribute) string {
	if !p.on || s == "" {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.paint(sev.String(), color.FgRed, color.Bold)
	case diag.SevWarning:
		return p.paint(sev.String(), color.FgYellow, color.Bold)
	default:
		return p.paint(sev.String(), color.FgCyan, color.Bold)
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := palette{on: opts.Color}
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.paint(fmt.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col), color.Bold),
			pal.severity(d.Severity),
			pal.paint(d.Code.ID(), color.Bold),
			d.Message)
		writeSnippet(w, f, fs, d.Primary, opts, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				pal.paint("note:", color.FgBlue, color.Bold),
				formatPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n%s\n", pal.paint(fmt.Sprintf("... %d more diagnostics not shown", dropped), color.Faint))
	}
}

// writeSnippet печатает строку span'а (и Context строк перед ней) с
// подчёркиванием. Многострочный span подчёркивается до конца первой строки.
func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, span source.Span, opts PrettyOpts, pal palette) {
	if len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	gutter := len(strconv.FormatUint(uint64(start.Line), 10))

	first := start.Line
	if opts.Context > 0 {
		if back := uint32(opts.Context); back < first {
			first -= back
		} else {
			first = 1
		}
	}
	for ln := first; ln <= start.Line; ln++ {
		text := expandTabs(f.GetLine(ln))
		fmt.Fprintf(w, " %s %s\n", pal.paint(fmt.Sprintf("%*d |", gutter, ln), color.FgBlue), clip(text, opts.Width))
	}

	line := f.GetLine(start.Line)
	from := int(start.Col) - 1
	to := len(line)
	if end.Line == start.Line {
		to = int(end.Col) - 1
	}
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))

	pad := runewidth.StringWidth(expandTabs(line[:from]))
	width := runewidth.StringWidth(expandTabs(line[from:to]))
	marker := "^"
	if width > 1 {
		marker += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(w, " %s %s%s\n",
		pal.paint(strings.Repeat(" ", gutter)+" |", color.FgBlue),
		strings.Repeat(" ", pad),
		pal.paint(marker, color.FgGreen, color.Bold))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
