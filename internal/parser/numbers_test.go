package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		token  string
		want   int
		wantOK bool
	}{
		{token: "12", want: 12, wantOK: true},
		{token: " 07 ", want: 7, wantOK: true},
		{token: "(45)", want: 45, wantOK: true},
		{token: "n° 3", want: 3, wantOK: true},
		{token: "", wantOK: false},
		{token: "   ", wantOK: false},
		{token: "+", wantOK: false},
		{token: "—", wantOK: false},
		{token: "99999999999999999999999", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseNumber(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestContainsMarker(t *testing.T) {
	assert.True(t, containsMarker("Résultats: TIRAGE PRINCIPAL", "tirage principal"))
	assert.True(t, containsMarker("Extra: MaxMillions", "maxmillions"))
	assert.True(t, containsMarker("Numéro complémentaire", "numero complementaire"))
	assert.False(t, containsMarker("Tirage secondaire", "tirage principal"))
}

func TestSplitMain(t *testing.T) {
	numbers, bonus, ok := splitMain([]int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, numbers)
	assert.Equal(t, 8, *bonus)

	numbers, bonus, ok = splitMain([]int{1, 2, 3, 4, 5, 6, 7})
	assert.True(t, ok)
	assert.Len(t, numbers, 7)
	assert.Nil(t, bonus)

	_, _, ok = splitMain([]int{1, 2, 3, 4, 5})
	assert.False(t, ok)
}

func TestExactSet(t *testing.T) {
	_, ok := exactSet([]int{1, 2, 3, 4, 5, 6})
	assert.False(t, ok)

	set, ok := exactSet([]int{1, 2, 3, 4, 5, 6, 7})
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, set)

	_, ok = exactSet([]int{1, 2, 3, 4, 5, 6, 7, 8})
	assert.False(t, ok)
}
