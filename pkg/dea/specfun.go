package dea

import "math"

// trigamma returns the second derivative of log Gamma(x) for x > 0.
func trigamma(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return math.NaN()
	}
	if math.IsInf(x, 1) {
		return 0
	}

	var res float64
	for x < 10 {
		res += 1 / (x * x)
		x++
	}
	x2 := 1 / (x * x)
	res += 1/x + x2/2 +
		x2/x*(1.0/6-x2*(1.0/30-x2*(1.0/42-x2/30)))
	return res
}

// tetragamma returns the third derivative of log Gamma(x) for x > 0.
func tetragamma(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return math.NaN()
	}
	if math.IsInf(x, 1) {
		return 0
	}

	var res float64
	for x < 10 {
		res -= 2 / (x * x * x)
		x++
	}
	x2 := 1 / (x * x)
	res += -x2 - x2/x - x2*x2/2 +
		x2*x2*x2*(1.0/6-x2*(1.0/6-x2*3/10))
	return res
}

// trigammaInverse solves trigamma(x) = y for x by Newton iterations.
func trigammaInverse(y float64) float64 {
	switch {
	case math.IsNaN(y) || y < 0:
		return math.NaN()
	case y == 0:
		return math.Inf(1)
	case math.IsInf(y, 1):
		return 0
	case y > 1e7:
		return 1 / math.Sqrt(y)
	case y < 1e-6:
		return 1 / y
	}

	x := 0.5 + 1/y
	for range 50 {
		tri := trigamma(x)
		dif := tri * (1 - tri/y) / tetragamma(x)
		x += dif
		if -dif/x < 1e-8 {
			break
		}
	}
	return x
}
