// Package directory holds the person-to-secret mapping used to gate ledger
// access. It is loaded once at process start and read-only afterwards; the
// ledger layer only ever asks it a yes/no question.
package directory

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

type Directory struct {
	secrets map[string]string
	people  []string
}

// Load reads a directory file with one "person:secret" pair per line. Blank
// lines and lines starting with # are skipped. A missing file yields an
// empty directory that denies everyone.
func Load(path string) (*Directory, error) {
	d := &Directory{secrets: make(map[string]string)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("open directory file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, secret, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		if _, dup := d.secrets[name]; !dup {
			d.people = append(d.people, name)
		}
		d.secrets[name] = strings.TrimSpace(secret)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}
	return d, nil
}

// Authorize reports whether the secret matches the one on file for the
// person. Unknown people are denied.
func (d *Directory) Authorize(person, secret string) bool {
	want, ok := d.secrets[strings.TrimSpace(person)]
	return ok && want == secret
}

// People lists known person identifiers in file order.
func (d *Directory) People() []string {
	return append([]string(nil), d.people...)
}
