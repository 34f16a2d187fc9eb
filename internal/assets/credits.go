package assets

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// CreditsFile is the file inside a placeholder directory that names the artist
// of each placeholder image.
const CreditsFile = "credit.txt"

// ParseCredits reads "index: name" lines. Blank lines and lines without a
// numeric index are skipped.
func ParseCredits(r io.Reader) (map[int]string, error) {
	credits := make(map[int]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		index, name, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(index))
		if err != nil {
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			credits[n] = name
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read credits: %w", err)
	}
	return credits, nil
}

// LoadCredits reads dir/credit.txt from fsys. A missing or unreadable file is
// logged and yields an empty map.
func LoadCredits(fsys fs.FS, dir string) map[int]string {
	p := path.Join(dir, CreditsFile)
	f, err := fsys.Open(p)
	if err != nil {
		log.Warn().Err(err).Str("path", p).Msg("Failed to load credits")
		return map[int]string{}
	}
	defer f.Close()

	credits, err := ParseCredits(f)
	if err != nil {
		log.Warn().Err(err).Str("path", p).Msg("Failed to load credits")
		return map[int]string{}
	}
	return credits
}
