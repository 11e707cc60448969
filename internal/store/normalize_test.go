package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces around pieces", "a, b ,c", "a,b,c"},
		{"leading and trailing space", " a , b,c ", "a,b,c"},
		{"single value", "poetry", "poetry"},
		{"already normalized", "a,b,c", "a,b,c"},
		{"preserves duplicates", "go, go", "go,go"},
		{"multi-word tags keep inner spaces", "machine learning, go", "machine learning,go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeList(tt.input))
		})
	}
}

func TestNormalizeListIdempotent(t *testing.T) {
	once := NormalizeList(" a , b,c ")
	twice := NormalizeList(once)
	assert.Equal(t, "a,b,c", once)
	assert.Equal(t, once, twice)
}
