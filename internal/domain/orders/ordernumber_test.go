package orders

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	g := NewOrderNumberGenerator("test-secret")

	pattern := regexp.MustCompile(`^GIG-[A-Z0-9]{4}-[A-Z0-9]{4}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, g.Generate(42))
	}
}

func TestGenerateOrderNumberUniqueness(t *testing.T) {
	g := NewOrderNumberGenerator("test-secret")

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		n := g.Generate(42)
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}
