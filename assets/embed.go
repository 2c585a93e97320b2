// apps/go-server/assets/embed.go
//
// Files compiled into the binary.
//   - migrations/*.sql: goose migrations for the SQLite schema.
//   - phrases.txt: completion phrases shown on study summaries.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed migrations/*.sql phrases.txt
var FS embed.FS

// Migrations returns the migration files rooted at the migrations directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "migrations")
}

// readLines returns the non-blank, non-comment lines of an embedded file.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// PhraseList returns the completion phrases in file order.
func PhraseList() ([]string, error) {
	return readLines("phrases.txt")
}
