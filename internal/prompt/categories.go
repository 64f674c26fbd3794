package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cexll/pr-formatter/internal/github"
)

const notRequiredMarker = "changelog entry is not required"

// ParseChangelogCategories returns the bullet items listed under the
// changelog category heading of a PR template, in template order.
func ParseChangelogCategories(template string) []string {
	var categories []string
	inSection := false

	scanner := bufio.NewScanner(strings.NewReader(github.StripHTMLComments(template)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "#") {
			if inSection {
				break
			}
			inSection = line == CategoryHeading
			continue
		}
		if !inSection {
			continue
		}

		for _, bullet := range []string{"- ", "* "} {
			if strings.HasPrefix(line, bullet) {
				if item := strings.TrimSpace(strings.TrimPrefix(line, bullet)); item != "" {
					categories = append(categories, item)
				}
				break
			}
		}
	}

	return categories
}

// LoadChangelogCategories reads a PR template file and parses its categories
func LoadChangelogCategories(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PR template: %w", err)
	}
	categories := ParseChangelogCategories(string(data))
	if len(categories) == 0 {
		return nil, fmt.Errorf("no changelog categories found in %s", path)
	}
	return categories, nil
}

// EntryRequired reports whether a category needs a changelog entry
func EntryRequired(category string) bool {
	return !strings.Contains(category, notRequiredMarker)
}
