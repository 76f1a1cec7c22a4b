package tag_repository_postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistinctNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "empty", input: nil, want: []string{}},
		{name: "duplicates removed", input: []string{"b", "a", "b"}, want: []string{"a", "b"}},
		{name: "same order for any permutation", input: []string{"right", "left"}, want: []string{"left", "right"}},
		{name: "case sensitive", input: []string{"go", "Go"}, want: []string{"Go", "go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, distinctNames(tt.input))
		})
	}
}
