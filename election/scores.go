package election

// RankFreq counts how often something appears at later-preference
// positions 0..3, i.e. overall ranks 2 to 5.
type RankFreq [MaxLaterChoices]int

// Total sums every bucket.
func (f RankFreq) Total() int {
	t := 0
	for _, v := range f {
		t += v
	}
	return t
}

// Scheme is one way of weighting a RankFreq into a single number.
type Scheme int

const (
	FirstTransfer Scheme = iota
	Borda
	Harmonic
	Geometric
	InverseSquare
	NumSchemes
)

var schemeNames = [NumSchemes]string{
	FirstTransfer: "first transfer",
	Borda:         "borda",
	Harmonic:      "harmonic",
	Geometric:     "geometric",
	InverseSquare: "inverse square",
}

func (s Scheme) String() string {
	if s < 0 || s >= NumSchemes {
		return "unknown"
	}
	return schemeNames[s]
}

// weights[scheme][position]
var weights = [NumSchemes][MaxLaterChoices]float64{
	FirstTransfer: {1, 0, 0, 0},
	Borda:         {4, 3, 2, 1},
	Harmonic:      {1, 1. / 2, 1. / 3, 1. / 4},
	Geometric:     {1, 1. / 2, 1. / 4, 1. / 8},
	InverseSquare: {1, 1. / 4, 1. / 9, 1. / 16},
}

// Scores holds one value per Scheme.
type Scores [NumSchemes]float64

// Score weights f under every scheme.
func Score(f RankFreq) Scores {
	var s Scores
	for scheme := range s {
		for pos, freq := range f {
			s[scheme] += float64(freq) * weights[scheme][pos]
		}
	}
	return s
}
