package galechurch

// Bead is an alignment step: how many source and target sentences it consumes
type Bead struct {
	Source int
	Target int
}

// Prior is the prior probability of a bead type
type Prior struct {
	Bead
	Probability float64
}

// Params configures the length model
type Params struct {
	// MeanRatio is the expected number of target characters per source character
	MeanRatio float64
	// Variance of the target length per source character
	Variance float64
	// Priors lists the allowed bead types in tie-breaking order
	Priors []Prior
}

// DefaultParams returns the language independent parameters from the original paper
func DefaultParams() Params {
	return Params{
		MeanRatio: 1,
		Variance:  6.8,
		Priors: []Prior{
			{Bead{1, 1}, 0.89},
			{Bead{1, 0}, 0.0099},
			{Bead{0, 1}, 0.0099},
			{Bead{2, 1}, 0.089},
			{Bead{1, 2}, 0.089},
			{Bead{2, 2}, 0.011},
		},
	}
}
