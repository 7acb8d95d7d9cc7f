package starfield

import (
	"math"
)

// Summary describes a generated field: how far the stars stray from the
// sphere, how they spread over polar angle, and which palette entries they
// drew.
type Summary struct {
	Count          int          `json:"count"`
	Radius         float64      `json:"radius"`
	MaxRadiusError float64      `json:"max_radius_error"`
	MinSize        float64      `json:"min_size"`
	MaxSize        float64      `json:"max_size"`
	MeanSize       float64      `json:"mean_size"`
	Polar          []PolarBin   `json:"polar"`
	Colors         []ColorCount `json:"colors"`
}

// PolarBin counts the stars whose polar angle falls in [From, To) degrees,
// next to the count a uniform spherical distribution predicts.
type PolarBin struct {
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	Count    int     `json:"count"`
	Expected float64 `json:"expected"`
}

// ColorCount is the number of stars per palette color.
type ColorCount struct {
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Summarize computes a Summary of stars generated on a sphere of the given
// radius, with the polar angle split into bins equal-width bands.
func Summarize(stars []Star, radius float64, bins int) Summary {
	if bins < 1 {
		bins = 1
	}
	s := Summary{
		Count:  len(stars),
		Radius: radius,
		Polar:  make([]PolarBin, bins),
	}

	width := math.Pi / float64(bins)
	for i := range s.Polar {
		lo, hi := float64(i)*width, float64(i+1)*width
		s.Polar[i] = PolarBin{
			From: lo * 180 / math.Pi,
			To:   hi * 180 / math.Pi,
			// Area fraction of the band: (cos lo - cos hi) / 2
			Expected: float64(len(stars)) * (math.Cos(lo) - math.Cos(hi)) / 2,
		}
	}
	if len(stars) == 0 {
		return s
	}

	colorIdx := make(map[string]int)
	s.MinSize = math.Inf(1)
	s.MaxSize = math.Inf(-1)
	var sizeSum float64

	for _, st := range stars {
		r := st.Position.Norm()
		s.MaxRadiusError = math.Max(s.MaxRadiusError, math.Abs(r-radius))

		s.MinSize = math.Min(s.MinSize, st.Size)
		s.MaxSize = math.Max(s.MaxSize, st.Size)
		sizeSum += st.Size

		if r > 0 {
			phi := math.Acos(math.Max(-1, math.Min(1, st.Position.Z/r)))
			bin := int(phi / width)
			if bin >= bins {
				bin = bins - 1
			}
			s.Polar[bin].Count++
		}

		hex := st.Color.Hex()
		if i, ok := colorIdx[hex]; ok {
			s.Colors[i].Count++
		} else {
			colorIdx[hex] = len(s.Colors)
			s.Colors = append(s.Colors, ColorCount{Color: hex, Count: 1})
		}
	}
	s.MeanSize = sizeSum / float64(len(stars))
	return s
}
