package pdf

import (
	"path"
	"strconv"
	"strings"
)

const defaultBaseName = "document"

// OutputFileName derives the name of the split document from the name of
// the uploaded or scanned file, e.g. "labels.pdf" -> "labels_split.pdf".
func OutputFileName(name string) string {
	return baseName(name) + OutputSuffix + ".pdf"
}

// PreviewFileName names the n-th preview image of a document.
func PreviewFileName(name string, n int) string {
	return baseName(name) + OutputSuffix + "_preview" + strconv.Itoa(n+1) + ".jpg"
}

// IsSplitOutput reports whether name looks like a file this tool produced.
func IsSplitOutput(name string) bool {
	return strings.HasSuffix(baseName(name), OutputSuffix)
}

func baseName(name string) string {
	// Browsers on Windows may send the full client path.
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return defaultBaseName
	}
	return base
}
