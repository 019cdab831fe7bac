package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewItemFilter_Empty(t *testing.T) {
	p := NewItemFilter("  ", "")

	assert.Equal(t, "", p.Clause)
	assert.Equal(t, "1=1", p.Where())
	assert.Empty(t, p.Args)
}

func TestNewItemFilter_AllRegionsSentinel(t *testing.T) {
	for _, region := range []string{"Todos", "todos", " TODOS "} {
		p := NewItemFilter(region, "")
		assert.Equal(t, "1=1", p.Where(), region)
	}
}

func TestNewItemFilter_RegionAndQuery(t *testing.T) {
	p := NewItemFilter(" Huari ", " Fiesta ")

	assert.Equal(t, "region = ? AND search_text LIKE ? ESCAPE '!'", p.Clause)
	assert.Equal(t, []interface{}{"Huari", "%fiesta%"}, p.Args)
}

func TestNewItemFilter_LowercasesAccents(t *testing.T) {
	p := NewItemFilter("", " ÁNIMAS Año ")

	assert.Equal(t, []interface{}{"%ánimas año%"}, p.Args)
}

func TestNewItemFilter_InputNeverInClause(t *testing.T) {
	p := NewItemFilter("x' OR '1'='1", "100%_off!")

	assert.NotContains(t, p.Clause, "OR '1'='1")
	assert.NotContains(t, p.Clause, "100")
	assert.Equal(t, "%100!%!_off!!%", p.Args[1])
}

func TestPredicate_AndDoesNotMutate(t *testing.T) {
	base := NewItemFilter("Huari", "")
	extended := base.And("id <> ?", int64(3))

	assert.Equal(t, "region = ?", base.Clause)
	assert.Len(t, base.Args, 1)
	assert.Equal(t, "region = ? AND id <> ?", extended.Clause)
	assert.Equal(t, []interface{}{"Huari", int64(3)}, extended.Args)
}
