package playercolor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tgrformat/tgrsprite/pixel"
)

// ErrNoPlayerColorsSection is returned when the INI source yields no
// color_N_shade_M entry inside a [PlayerColors] section, whether the
// section is absent or holds no valid entries.
var ErrNoPlayerColorsSection = fmt.Errorf("playercolor: no [PlayerColors] section found")

var (
	sectionRe = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)
	keyRe     = regexp.MustCompile(`^color_(\d{1,2})_shade_(\d{1,2})$`)
	valueRe   = regexp.MustCompile(`^\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*$`)
)

// LoadINI parses an INI-like text source with a [PlayerColors] section
// whose keys match color_<player>_shade_<shade> and whose values are
// comma-separated decimal R,G,B triples (§6). Lines outside
// [PlayerColors], blank lines, and ';'/'#'-prefixed comment lines are
// skipped.
func LoadINI(r io.Reader) (Table, error) {
	table := Table{}
	sc := bufio.NewScanner(r)
	inSection := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			inSection = m[1] == "PlayerColors"
			continue
		}
		if !inSection {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		km := keyRe.FindStringSubmatch(key)
		if km == nil {
			continue
		}
		vm := valueRe.FindStringSubmatch(value)
		if vm == nil {
			continue
		}

		player, err := strconv.ParseUint(km[1], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("playercolor: bad player id in %q: %w", key, err)
		}
		shade, err := strconv.ParseUint(km[2], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("playercolor: bad shade id in %q: %w", key, err)
		}

		rgb := [3]uint8{}
		for i, s := range vm[1:] {
			n, err := strconv.ParseUint(s, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("playercolor: bad channel in %q: %w", value, err)
			}
			rgb[i] = uint8(n)
		}

		shades, ok := table[uint8(player)]
		if !ok {
			shades = map[uint8]pixel.Pixel{}
			table[uint8(player)] = shades
		}
		shades[uint8(shade)] = pixel.Pixel{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("playercolor: reading INI: %w", err)
	}
	if len(table) == 0 {
		return nil, ErrNoPlayerColorsSection
	}
	return table, nil
}

// LoadINIFile opens path and parses it with LoadINI.
func LoadINIFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("playercolor: opening %q: %w", path, err)
	}
	defer f.Close()
	return LoadINI(f)
}
