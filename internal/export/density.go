package export

import "strings"

// Density describes a board cell size. Exported images are cropped to the
// cell's aspect ratio and bounded by its pixel dimensions.
type Density struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (d Density) Ratio() float64 {
	return float64(d.Width) / float64(d.Height)
}

var (
	DensityCompact  = Density{Name: "compact", Width: 320, Height: 400}
	DensityStandard = Density{Name: "standard", Width: 480, Height: 600}
	DensityLarge    = Density{Name: "large", Width: 800, Height: 1000}
)

// DensityByName resolves a density label, defaulting to standard.
func DensityByName(name string) Density {
	switch strings.ToLower(name) {
	case "compact":
		return DensityCompact
	case "large":
		return DensityLarge
	default:
		return DensityStandard
	}
}
