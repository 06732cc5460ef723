package editing

import (
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff between the original and edited
// lines, used as the change preview in edit proposals.
func UnifiedDiff(path string, before, after []string) string {
	diff := difflib.UnifiedDiff{
		A:        appendNewlines(before),
		B:        appendNewlines(after),
		FromFile: path,
		ToFile:   path + " (edited)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}

func appendNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
