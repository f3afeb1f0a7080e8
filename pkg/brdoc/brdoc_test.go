package brdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/reparo-api/pkg/brdoc"
)

func TestValidateCPF(t *testing.T) {
	for _, ok := range []string{"529.982.247-25", "11144477735", "390.533.447-05", "123.456.789-09"} {
		assert.NoError(t, brdoc.ValidateCPF(ok), ok)
	}
	for _, bad := range []string{"529.982.247-24", "111.111.111-11", "1234567890", ""} {
		assert.Error(t, brdoc.ValidateCPF(bad), bad)
	}
}

func TestValidateCNPJ(t *testing.T) {
	for _, ok := range []string{"11.222.333/0001-81", "12345678000195", "11.444.777/0001-61"} {
		assert.NoError(t, brdoc.ValidateCNPJ(ok), ok)
	}
	for _, bad := range []string{"11.222.333/0001-80", "00000000000000", "1122233300018"} {
		assert.Error(t, brdoc.ValidateCNPJ(bad), bad)
	}
}

func TestValidate_PorLargo(t *testing.T) {
	assert.NoError(t, brdoc.Validate("529.982.247-25"))
	assert.NoError(t, brdoc.Validate("11.222.333/0001-81"))
	assert.Error(t, brdoc.Validate("123"))
}

func TestKind(t *testing.T) {
	assert.Equal(t, brdoc.KindCPF, brdoc.Kind("529.982.247-25"))
	assert.Equal(t, brdoc.KindCNPJ, brdoc.Kind("11222333000181"))
	assert.Empty(t, brdoc.Kind("999"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "529.982.247-25", brdoc.Format("52998224725"))
	assert.Equal(t, "11.222.333/0001-81", brdoc.Format("11222333000181"))
	assert.Equal(t, "abc", brdoc.Format("abc"))
}
