package relay

import (
	"sort"
	"strings"
)

// Aggregate joins chunk results in index order. ModelUsed lists each contributing model once,
// in first-use order, or "none" when nothing was translated.
func Aggregate(results []ChunkResult) Result {
	ordered := append([]ChunkResult(nil), results...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	texts := make([]string, len(ordered))
	seen := make(map[string]bool)
	var models []string
	degraded := false

	for i, r := range ordered {
		texts[i] = r.Text
		if r.Degraded() {
			degraded = true
			continue
		}
		if !seen[r.ModelUsed] {
			seen[r.ModelUsed] = true
			models = append(models, r.ModelUsed)
		}
	}

	modelUsed := ModelNone
	if len(models) > 0 {
		modelUsed = strings.Join(models, ",")
	}

	return Result{
		TranslatedText: strings.Join(texts, paragraphSeparator),
		ModelUsed:      modelUsed,
		Degraded:       degraded,
		Chunks:         len(ordered),
	}
}
