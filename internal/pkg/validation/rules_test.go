package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
	assert.True(t, ValidEmail("ada@example.com"))
	assert.True(t, ValidEmail("first.last+jobs@uni.edu.tr"))
	assert.False(t, ValidEmail("ada@"))
	assert.False(t, ValidEmail("not an email"))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("s3cretpass"))
	assert.False(t, ValidPassword("short1"))
	assert.False(t, ValidPassword("onlyletters"))
	assert.False(t, ValidPassword("1234567890"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Ada"))
	assert.False(t, ValidName("   "))
}

func TestValidAcademicFigure(t *testing.T) {
	assert.True(t, ValidAcademicFigure(0))
	assert.True(t, ValidAcademicFigure(10))
	assert.False(t, ValidAcademicFigure(-0.1))
	assert.False(t, ValidAcademicFigure(10.01))
	assert.False(t, ValidAcademicFigure(math.NaN()))
}

func TestValidSalaryBand(t *testing.T) {
	lo, hi, neg := int64(1000), int64(2000), int64(-1)
	assert.True(t, ValidSalaryBand(nil, nil))
	assert.True(t, ValidSalaryBand(&lo, nil))
	assert.True(t, ValidSalaryBand(&lo, &hi))
	assert.False(t, ValidSalaryBand(&hi, &lo))
	assert.False(t, ValidSalaryBand(&neg, nil))
}
