package pdf417

import (
	"errors"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// valid is a message multiplied by the degree 8 generator, so it has every
// root the eight EC codewords require.
var valid = []int{5, 137, 92, 165, 292, 245, 511, 675, 199, 867, 86, 98, 123, 145, 534, 682, 510, 355, 85, 19}

func generator(ecCount int) poly {
	g := poly{1}
	for i := 1; i <= ecCount; i++ {
		g = g.multiply(newPoly(1, gf.sub(0, gf.exp[i])))
	}

	return g
}

func TestGenerator_Multiple(t *testing.T) {
	message := newPoly(5, 100, 928, 0, 7, 42, 900, 3, 1, 2, 3, 4)

	assert.Equal(t, poly(valid), message.multiply(generator(8)))
}

func TestField(t *testing.T) {
	for a := 1; a < modulus; a++ {
		require.Equal(t, 1, gf.mul(a, gf.inv(a)), "a=%d", a)
	}

	assert.Equal(t, 3, gf.exp[1])
	assert.Equal(t, 0, gf.add(900, 29))
	assert.Equal(t, 928, gf.sub(0, 1))
}

func TestCorrectErrors(t *testing.T) {
	tests := []struct {
		name    string
		corrupt map[int]int
		want    int
		wantErr bool
	}{
		{name: "Clean", want: 0},
		{name: "One", corrupt: map[int]int{7: 1}, want: 1},
		{name: "AtCapacity", corrupt: map[int]int{0: 6, 5: 0, 11: 598, 19: 12}, want: 4},
		{name: "BeyondCapacity", corrupt: map[int]int{1: 138, 3: 167, 8: 202, 13: 149, 17: 360}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received := append([]int(nil), valid...)
			for pos, v := range tt.corrupt {
				received[pos] = v
			}

			n, err := correctErrors(received, 8)
			if tt.wantErr {
				var checksum gozxing.ChecksumException
				assert.True(t, errors.As(err, &checksum), "got %v", err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, valid, received)
		})
	}
}
