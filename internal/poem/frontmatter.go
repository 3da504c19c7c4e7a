package poem

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// Meta holds front-matter fields of a note.
type Meta struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

// Heading joins title and author for display.
func (m Meta) Heading() string {
	switch {
	case m.Title != "" && m.Author != "":
		return m.Title + " by " + m.Author
	case m.Title != "":
		return m.Title
	case m.Author != "":
		return "by " + m.Author
	}
	return ""
}

// splitFrontMatter drops a leading block delimited by "---" lines.
// An unterminated block is not front-matter.
func splitFrontMatter(lines []string) ([]string, Meta, bool) {
	if len(lines) == 0 || lines[0] != frontMatterDelim {
		return lines, Meta{}, false
	}
	for i := 1; i < len(lines); i++ {
		if lines[i] != frontMatterDelim {
			continue
		}
		meta := parseMeta(lines[1:i])
		return lines[i+1:], meta, true
	}
	return lines, Meta{}, false
}

// Invalid YAML yields empty metadata.
func parseMeta(lines []string) Meta {
	src := []byte(strings.Join(lines, "\n"))
	var meta Meta
	if err := yaml.Unmarshal(src, &meta); err != nil {
		return Meta{}
	}
	return meta
}
