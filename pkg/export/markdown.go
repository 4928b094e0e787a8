// Package export writes the fetched note collection to local markdown
// files, one per note with YAML frontmatter, and optionally commits the
// result to a git repository for backup.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gophertribe/notesync/pkg/notes"
)

// Frontmatter is the metadata block written ahead of each note body.
type Frontmatter struct {
	ID      string   `yaml:"id"`
	Created string   `yaml:"created,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Pinned  bool     `yaml:"pinned,omitempty"`
}

// Exporter writes notes under a fixed directory.
type Exporter struct {
	dir string
}

// NewExporter creates an Exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Export writes every note as <sanitized-title>-<id>.md and returns the
// written paths. The id suffix keeps notes with identical titles apart.
func (e *Exporter) Export(list []notes.Note) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var paths []string
	for _, n := range list {
		fm, err := yaml.Marshal(Frontmatter{
			ID:      n.ID,
			Created: n.CreatedOn,
			Tags:    n.Tags,
			Pinned:  n.IsPinned,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
		}

		content := fmt.Sprintf("---\n%s---\n# %s\n\n%s\n", string(fm), n.Title, n.Content)
		path := filepath.Join(e.dir, exportFilename(n))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func exportFilename(n notes.Note) string {
	title := SanitizeFilename(n.Title)
	if title == "" {
		title = "untitled"
	}
	return fmt.Sprintf("%s-%s.md", title, n.ID)
}

// SanitizeFilename removes characters invalid in filenames.
func SanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range invalid {
		name = strings.ReplaceAll(name, char, "-")
	}
	return strings.TrimSpace(name)
}

// ReadExported parses an exported file back into a note. Used to verify
// exports and by tooling that inspects the backup directory.
func ReadExported(path string) (*notes.Note, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var fmLines, bodyLines []string
	inFrontmatter := false
	lineCount := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineCount++

		if lineCount == 1 && line == "---" {
			inFrontmatter = true
			continue
		}
		if inFrontmatter {
			if line == "---" {
				inFrontmatter = false
				continue
			}
			fmLines = append(fmLines, line)
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(fmLines, "\n")), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	n := &notes.Note{
		ID:        fm.ID,
		CreatedOn: fm.Created,
		Tags:      fm.Tags,
		IsPinned:  fm.Pinned,
	}
	for i, line := range bodyLines {
		if strings.HasPrefix(line, "# ") {
			n.Title = strings.TrimPrefix(line, "# ")
			n.Content = strings.TrimSpace(strings.Join(bodyLines[i+1:], "\n"))
			break
		}
	}
	return n, nil
}
