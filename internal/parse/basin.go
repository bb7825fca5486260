package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	basinSizeRe   = regexp.MustCompile(`(?i)BASIN\s*(\d+(?:\.\d+)?)\s*X\s*(\d+(?:\.\d+)?)\s*X\s*(\d+(?:\.\d+)?)\s*$`)
	placeholderRe = regexp.MustCompile(`^` + regexp.QuoteMeta(CustomBasinPrefix) + `(\d+(?:\.\d+)?)X(\d+(?:\.\d+)?)X(\d+(?:\.\d+)?)$`)
)

// CustomBasinPrefix starts every synthetic id for a buyer-specified basin size.
const CustomBasinPrefix = "CUSTOM-BASIN-"

// Dimensions are basin measurements in inches.
type Dimensions struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Depth  float64 `json:"depth"`
}

func (d Dimensions) String() string {
	return formatDim(d.Width) + "X" + formatDim(d.Length) + "X" + formatDim(d.Depth)
}

// ParseBasinSize extracts width, length and depth from a basin size part number such as
// "T2-ADW-BASIN24X20X8".
func ParseBasinSize(partNumber string) (Dimensions, error) {
	m := basinSizeRe.FindStringSubmatch(strings.TrimSpace(partNumber))
	if m == nil {
		return Dimensions{}, fmt.Errorf("unable to parse basin size from part number: %q", partNumber)
	}
	return toDimensions(m[1:])
}

// CustomBasinID builds the placeholder id carried by a custom basin size.
func CustomBasinID(d Dimensions) string {
	return CustomBasinPrefix + d.String()
}

// ParseCustomBasinID reports whether id is a custom basin placeholder and returns its dimensions.
func ParseCustomBasinID(id string) (Dimensions, bool) {
	m := placeholderRe.FindStringSubmatch(id)
	if m == nil {
		return Dimensions{}, false
	}
	d, err := toDimensions(m[1:])
	if err != nil {
		return Dimensions{}, false
	}
	return d, true
}

func toDimensions(groups []string) (Dimensions, error) {
	var vals [3]float64
	for i, g := range groups {
		v, err := strconv.ParseFloat(g, 64)
		if err != nil {
			return Dimensions{}, err
		}
		if v <= 0 {
			return Dimensions{}, fmt.Errorf("dimension must be positive, got %s", g)
		}
		vals[i] = v
	}
	return Dimensions{Width: vals[0], Length: vals[1], Depth: vals[2]}, nil
}

func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
