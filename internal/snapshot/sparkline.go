package snapshot

// LevelCount is how many buckets a series value can normalize into.
const LevelCount = 8

// Levels maps each series value to a 0..7 level by linear min-max
// normalization over the series itself. A flat series maps everything to the
// midpoint level; an empty series yields nil, which renderers must show as an
// explicit no-data marker rather than a level.
func Levels(series []float64) []int {
	if len(series) == 0 {
		return nil
	}

	min, max := series[0], series[0]
	for _, v := range series[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]int, len(series))
	if max == min {
		for i := range out {
			out[i] = LevelCount / 2
		}
		return out
	}

	for i, v := range series {
		scaled := int((v - min) / (max - min) * float64(LevelCount-1))
		if scaled < 0 {
			scaled = 0
		}
		if scaled > LevelCount-1 {
			scaled = LevelCount - 1
		}
		out[i] = scaled
	}
	return out
}
