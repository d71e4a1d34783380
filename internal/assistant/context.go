package assistant

import (
	"strings"

	"github.com/pathakanu/memoryjournal/internal/model"
)

const promptTemplate = "Based on the following memory log:\n%s\n\nQuestion: %s"

// BuildContext renders one "<date> - <event>: <details>" line per memory, in
// the order given. It returns "" for no memories.
func BuildContext(memories []model.Memory) string {
	lines := make([]string, len(memories))
	for i, m := range memories {
		lines[i] = m.Line()
	}
	return strings.Join(lines, "\n")
}
