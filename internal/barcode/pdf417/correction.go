package pdf417

import "github.com/makiuchi-d/gozxing"

// Reed-Solomon over GF(929) with generator 3.
const modulus = 929

type field struct {
	exp [modulus]int
	log [modulus]int
}

var gf = func() *field {
	f := &field{}

	x := 1
	for i := range modulus {
		f.exp[i] = x
		x = x * 3 % modulus
	}

	for i := range modulus - 1 {
		f.log[f.exp[i]] = i
	}

	return f
}()

func (f *field) add(a, b int) int { return (a + b) % modulus }

func (f *field) sub(a, b int) int { return (modulus + a - b) % modulus }

func (f *field) mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}

	return f.exp[(f.log[a]+f.log[b])%(modulus-1)]
}

// inv panics on zero like a division by zero would.
func (f *field) inv(a int) int {
	if a == 0 {
		panic("pdf417: inverse of zero")
	}

	return f.exp[(modulus-1-f.log[a])%(modulus-1)]
}

// poly holds coefficients highest degree first, without leading zeros.
type poly []int

func newPoly(c ...int) poly {
	for len(c) > 1 && c[0] == 0 {
		c = c[1:]
	}

	if len(c) == 0 {
		return poly{0}
	}

	return poly(c)
}

func monomial(degree, coefficient int) poly {
	if coefficient == 0 {
		return poly{0}
	}

	p := make(poly, degree+1)
	p[0] = coefficient

	return p
}

func (p poly) degree() int { return len(p) - 1 }

func (p poly) isZero() bool { return p[0] == 0 }

func (p poly) coefficient(degree int) int { return p[len(p)-1-degree] }

func (p poly) evaluate(a int) int {
	if a == 0 {
		return p.coefficient(0)
	}

	r := 0
	for _, c := range p {
		r = gf.add(gf.mul(a, r), c)
	}

	return r
}

func (p poly) add(o poly) poly {
	if p.isZero() {
		return o
	}

	if o.isZero() {
		return p
	}

	small, large := p, o
	if len(small) > len(large) {
		small, large = large, small
	}

	sum := make([]int, len(large))
	d := len(large) - len(small)
	copy(sum, large[:d])

	for i := d; i < len(large); i++ {
		sum[i] = gf.add(small[i-d], large[i])
	}

	return newPoly(sum...)
}

func (p poly) negate() poly {
	out := make([]int, len(p))
	for i, c := range p {
		out[i] = gf.sub(0, c)
	}

	return newPoly(out...)
}

func (p poly) subtract(o poly) poly {
	if o.isZero() {
		return p
	}

	return p.add(o.negate())
}

func (p poly) multiply(o poly) poly {
	if p.isZero() || o.isZero() {
		return poly{0}
	}

	product := make([]int, len(p)+len(o)-1)
	for i, a := range p {
		for j, b := range o {
			product[i+j] = gf.add(product[i+j], gf.mul(a, b))
		}
	}

	return newPoly(product...)
}

func (p poly) scale(k int) poly {
	return p.multiplyByMonomial(0, k)
}

func (p poly) multiplyByMonomial(degree, k int) poly {
	if k == 0 {
		return poly{0}
	}

	out := make([]int, len(p)+degree)
	for i, c := range p {
		out[i] = gf.mul(c, k)
	}

	return newPoly(out...)
}

func syndromes(received []int, ecCount int) (poly, bool) {
	p := newPoly(received...)
	s := make([]int, ecCount)
	clean := true

	for i := ecCount; i > 0; i-- {
		v := p.evaluate(gf.exp[i])
		s[ecCount-i] = v

		if v != 0 {
			clean = false
		}
	}

	return newPoly(s...), clean
}

// correctErrors fixes received in place and returns how many codewords it
// changed. At most ecCount/2 errors can be corrected.
func correctErrors(received []int, ecCount int) (int, error) {
	syndrome, clean := syndromes(received, ecCount)
	if clean {
		return 0, nil
	}

	sigma, omega, err := euclidean(monomial(ecCount, 1), syndrome, ecCount)
	if err != nil {
		return 0, err
	}

	locations, err := errorLocations(sigma)
	if err != nil {
		return 0, err
	}

	magnitudes, err := errorMagnitudes(omega, sigma, locations)
	if err != nil {
		return 0, err
	}

	for i, loc := range locations {
		pos := len(received) - 1 - gf.log[loc]
		if pos < 0 {
			return 0, gozxing.NewChecksumException("error location outside symbol")
		}

		received[pos] = gf.sub(received[pos], magnitudes[i])
	}

	if _, clean := syndromes(received, ecCount); !clean {
		return 0, gozxing.NewChecksumException("uncorrectable codewords")
	}

	return len(locations), nil
}

func euclidean(a, b poly, ecCount int) (sigma, omega poly, err error) {
	if a.degree() < b.degree() {
		a, b = b, a
	}

	rLast, r := a, b
	tLast, t := poly{0}, poly{1}

	for r.degree() >= ecCount/2 {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t

		if rLast.isZero() {
			return nil, nil, gozxing.NewChecksumException("remainder vanished")
		}

		r = rLastLast
		q := poly{0}
		leadInverse := gf.inv(rLast.coefficient(rLast.degree()))

		for r.degree() >= rLast.degree() && !r.isZero() {
			diff := r.degree() - rLast.degree()
			scale := gf.mul(r.coefficient(r.degree()), leadInverse)
			q = q.add(monomial(diff, scale))
			r = r.subtract(rLast.multiplyByMonomial(diff, scale))
		}

		t = q.multiply(tLast).subtract(tLastLast).negate()
	}

	atZero := t.coefficient(0)
	if atZero == 0 {
		return nil, nil, gozxing.NewChecksumException("sigma(0) is zero")
	}

	inverse := gf.inv(atZero)

	return t.scale(inverse), r.scale(inverse), nil
}

func errorLocations(locator poly) ([]int, error) {
	n := locator.degree()
	locations := make([]int, 0, n)

	for i := 1; i < modulus && len(locations) < n; i++ {
		if locator.evaluate(i) == 0 {
			locations = append(locations, gf.inv(i))
		}
	}

	if len(locations) != n {
		return nil, gozxing.NewChecksumException("locator degree does not match its roots")
	}

	return locations, nil
}

func errorMagnitudes(evaluator, locator poly, locations []int) ([]int, error) {
	degree := locator.degree()
	derivative := make([]int, degree)

	for i := 1; i <= degree; i++ {
		derivative[degree-i] = gf.mul(i, locator.coefficient(i))
	}

	formal := newPoly(derivative...)
	magnitudes := make([]int, len(locations))

	for i, loc := range locations {
		xInverse := gf.inv(loc)
		derived := formal.evaluate(xInverse)
		if derived == 0 {
			return nil, gozxing.NewChecksumException("repeated error location")
		}

		numerator := gf.sub(0, evaluator.evaluate(xInverse))
		magnitudes[i] = gf.mul(numerator, gf.inv(derived))
	}

	return magnitudes, nil
}
