package document

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	pageSizeRegex = regexp.MustCompile(`^Page\s+(\d+)\s+size:\s+([\d.]+)\s+x\s+([\d.]+)\s+pts`)
	anySizeRegex  = regexp.MustCompile(`^Page size:\s+([\d.]+)\s+x\s+([\d.]+)\s+pts`)
	pageRotRegex  = regexp.MustCompile(`^Page\s+(\d+)\s+rot:\s+(-?\d+)`)
)

// ParsePDFInfo reads the output of pdfinfo. Per-page sizes ("Page 1 size:")
// win over the document-wide "Page size:" line. Pages with an intrinsic
// rotation of 90 or 270 degrees are reported with swapped sides.
func ParsePDFInfo(out string) (Info, error) {
	var (
		info     Info
		pages    = -1
		common   *PageSize
		perPage  = map[int]PageSize{}
		rotation = map[int]int{}
	)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := pageSizeRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			w, _ := strconv.ParseFloat(m[2], 64)
			h, _ := strconv.ParseFloat(m[3], 64)
			perPage[n] = PageSize{Width: w, Height: h}
			continue
		}
		if m := anySizeRegex.FindStringSubmatch(line); m != nil {
			w, _ := strconv.ParseFloat(m[1], 64)
			h, _ := strconv.ParseFloat(m[2], 64)
			common = &PageSize{Width: w, Height: h}
			continue
		}
		if m := pageRotRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			r, _ := strconv.Atoi(m[2])
			rotation[n] = r
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Pages":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Info{}, fmt.Errorf("invalid page count %q", value)
			}
			pages = n
		case "Title":
			info.Title = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Info{}, err
	}

	if pages < 0 {
		return Info{}, errors.New("page count missing")
	}

	info.Pages = make([]PageSize, pages)
	for i := range info.Pages {
		size, ok := perPage[i+1]
		if !ok {
			if common == nil {
				return Info{}, fmt.Errorf("size of page %d missing", i+1)
			}
			size = *common
		}
		if r := rotation[i+1]; r == 90 || r == 270 || r == -90 {
			size.Width, size.Height = size.Height, size.Width
		}
		info.Pages[i] = size
	}
	return info, nil
}
