package diag

import (
	"fmt"
	"sort"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Находки правила no-unused-vars
	UnusedInfo           Code = 1000
	UnusedBinding        Code = 1001
	UnusedBindingPattern Code = 1002
	UnusedImportDecl     Code = 1003

	// Ввод/вывод и снапшоты
	IOLoadFileError  Code = 4001
	IOSnapshotDecode Code = 4002
	IOSnapshotRange  Code = 4003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		UnusedInfo:           "Unused binding information",
		UnusedBinding:        "Binding is declared but never read",
		UnusedBindingPattern: "Binding is declared but never read and does not match the ignore pattern",
		UnusedImportDecl:     "Import declaration is entirely unused",
		IOLoadFileError:      "I/O load file error",
		IOSnapshotDecode:     "Snapshot cannot be decoded",
		IOSnapshotRange:      "Snapshot offset out of range",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TSU%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
