package ig

// FontWeightNames lists the supported weight names, lightest first. Positions
// are 1-based and every name has a unique position.
var FontWeightNames = []string{"Thin", "Light", "Regular", "Medium", "Bold"}

// DefaultFontWeight is used whenever a weight name falls outside the vocabulary.
const DefaultFontWeight = "Regular"

// WeightPositionForName returns the 1-based position of a weight name.
// Names outside the vocabulary map to the Regular position.
func WeightPositionForName(name string) int {
	if pos, ok := weightPosition(name); ok {
		return pos
	}
	pos, _ := weightPosition(DefaultFontWeight)
	return pos
}

// WeightNameForPosition returns the weight name at a 1-based position,
// clamping out-of-range positions to the first or last entry.
func WeightNameForPosition(position int) string {
	if position < 1 {
		return FontWeightNames[0]
	}
	if position > len(FontWeightNames) {
		return FontWeightNames[len(FontWeightNames)-1]
	}
	return FontWeightNames[position-1]
}

// ResolveWeightChoice picks the available weight closest to the desired one.
// Candidates outside the vocabulary are ignored. On equal distance the bolder
// candidate wins; that asymmetry is intentional and relied upon by callers.
// With no usable candidates the desired name is returned unchanged.
func ResolveWeightChoice(desired string, available []string) string {
	if len(available) == 0 {
		return desired
	}

	desiredPos := WeightPositionForName(desired)
	best := ""
	bestPos := 0
	bestDist := 0
	for _, candidate := range available {
		pos, ok := weightPosition(candidate)
		if !ok {
			continue
		}
		dist := pos - desiredPos
		if dist < 0 {
			dist = -dist
		}
		if best == "" || dist < bestDist || (dist == bestDist && pos > bestPos) {
			best = candidate
			bestPos = pos
			bestDist = dist
		}
	}
	if best == "" {
		return desired
	}
	return best
}

func weightPosition(name string) (int, bool) {
	for i, candidate := range FontWeightNames {
		if candidate == name {
			return i + 1, true
		}
	}
	return 0, false
}
