package rld

import (
	"encoding/json"
	"io"
	"sort"
)

// jsonEntry mirrors Entry's exported fields for translation.json.
// Omitempty keeps the output compact: most entries only populate a
// handful of the fields Entry carries for its various kinds.
type jsonEntry struct {
	Kind           string `json:"kind"`
	File           string `json:"file"`
	CommandIndex   int    `json:"commandIndex"`
	Speaker        string `json:"speaker,omitempty"`
	Text           string `json:"text,omitempty"`
	Branch         string `json:"branch,omitempty"`
	BranchID       string `json:"branchId,omitempty"`
	Target         string `json:"target,omitempty"`
	ChoiceQuestion int    `json:"choiceQuestion,omitempty"`
	ChoiceOption   int    `json:"choiceOption,omitempty"`
}

// WriteTranslationJSON emits translation.json: a single flattened
// array of entry records across every file in perFile, sorted by file
// name for reproducible output, UTF-8, with non-ASCII left unescaped.
func WriteTranslationJSON(w io.Writer, perFile map[string][]Entry) error {
	files := make([]string, 0, len(perFile))
	for f := range perFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var out []jsonEntry
	for _, file := range files {
		for _, e := range perFile[file] {
			out = append(out, jsonEntry{
				Kind:           e.Kind.String(),
				File:           file,
				CommandIndex:   e.Source.CommandIndex,
				Speaker:        e.Speaker,
				Text:           e.Text,
				Branch:         e.Branch,
				BranchID:       e.BranchID,
				Target:         e.Target,
				ChoiceQuestion: e.ChoiceQuestion,
				ChoiceOption:   e.ChoiceOption,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
