package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skilltree/domain/core/valueobjects"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   valueobjects.Category
	}{
		{name: "tech keyword", prompt: "I like tech", want: valueobjects.CategoryTech},
		{name: "programming keyword", prompt: "programming games", want: valueobjects.CategoryTech},
		{name: "tech beats art", prompt: "art and tech", want: valueobjects.CategoryTech},
		{name: "design keyword", prompt: "design", want: valueobjects.CategoryCreative},
		{name: "art inside another word", prompt: "start a company", want: valueobjects.CategoryCreative},
		{name: "business keyword", prompt: "business", want: valueobjects.CategoryBusiness},
		{name: "entrepreneurship keyword", prompt: "entrepreneurship ideas", want: valueobjects.CategoryBusiness},
		{name: "case sensitive", prompt: "Tech", want: valueobjects.CategoryGeneral},
		{name: "no keyword", prompt: "medicine", want: valueobjects.CategoryGeneral},
		{name: "empty", prompt: "", want: valueobjects.CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.prompt))
		})
	}
}

func TestBuildContext(t *testing.T) {
	profile := valueobjects.NewProfile("I", "A", "S")

	t.Run("root only", func(t *testing.T) {
		assert.Equal(t, "I, A, S, Start", BuildContext(profile, []string{"Start"}))
	})

	t.Run("root and one child", func(t *testing.T) {
		p := valueobjects.NewProfile("X", "Y", "Z")
		assert.Equal(t, "X, Y, Z, Start, A", BuildContext(p, []string{"Start", "A"}))
	})

	t.Run("labels in insertion order", func(t *testing.T) {
		got := BuildContext(profile, []string{"Start", "A (Tech Path)", "B (General Path)"})
		assert.Equal(t, "I, A, S, Start, A (Tech Path), B (General Path)", got)
	})
}
