package nn

import "math"

// Activation waehlt die elementweise Nichtlinearitaet eines Layers
type Activation int

const (
	ActivationNone Activation = iota
	ActivationReLU
	ActivationSigmoid
)

func (a Activation) String() string {
	switch a {
	case ActivationReLU:
		return "relu"
	case ActivationSigmoid:
		return "sigmoid"
	default:
		return "none"
	}
}

func (a Activation) apply(v float64) float64 {
	switch a {
	case ActivationReLU:
		return max(v, 0)
	case ActivationSigmoid:
		return Sigmoid(v)
	default:
		return v
	}
}

// Sigmoid ist die logistische Funktion 1 / (1 + e^-v)
func Sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}
