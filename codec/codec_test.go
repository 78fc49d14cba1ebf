package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		got, ok := ByName(c.Name())
		require.True(t, ok)
		assert.Equal(t, c.Name(), got.Name())
	}

	_, ok := ByName("bogus")
	assert.False(t, ok)
}

func TestCodecsAreWireCompatible(t *testing.T) {
	type payload struct {
		Proportions []float64 `json:"proportions"`
		N           int       `json:"n"`
	}

	in := payload{Proportions: []float64{0.5, 0.3, 0.2}, N: 1000}

	data, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, GoJSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
