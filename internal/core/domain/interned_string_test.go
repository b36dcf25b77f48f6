package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mindc/internal/core/domain"
)

func TestInternedString_Equality(t *testing.T) {
	a := domain.NewInternedString("build/main.o")
	b := domain.NewInternedString("build/" + "main.o")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, domain.NewInternedString("build/util.o"))
	assert.Equal(t, "build/main.o", a.String())

	seen := map[domain.InternedString]int{a: 1}
	assert.Equal(t, 1, seen[b])
}

func TestInternedString_Compare(t *testing.T) {
	paths := domain.NewInternedStrings([]string{"src/b.c", "include/x.h", "src/a.c", "src/a.c"})
	slices.SortFunc(paths, domain.InternedString.Compare)

	assert.Equal(t, []string{"include/x.h", "src/a.c", "src/a.c", "src/b.c"}, domain.Strings(paths))
	assert.Zero(t, paths[1].Compare(paths[2]))
	assert.Negative(t, paths[0].Compare(paths[3]))
	assert.Positive(t, paths[3].Compare(paths[0]))
}

func TestNewInternedStrings_Empty(t *testing.T) {
	assert.Empty(t, domain.NewInternedStrings(nil))
	assert.Empty(t, domain.Strings(nil))
}
