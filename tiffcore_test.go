package tiffcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsValidatePageOutOfRange(t *testing.T) {
	err := Options{Page: -1}.validate()
	assert.Error(t, err)
}

func TestOptionsValidateNOutOfRange(t *testing.T) {
	err := Options{N: maxN + 1}.validate()
	assert.Error(t, err)
}

func TestOptionsValidateSubifdBelowSentinel(t *testing.T) {
	err := Options{Subifd: -2}.validate()
	assert.Error(t, err)
}

func TestOptionsValidateSubifdWithMultiPageRejected(t *testing.T) {
	err := Options{Subifd: 0, N: 2}.validate()
	assert.Error(t, err)
}

func TestOptionsValidateDefaults(t *testing.T) {
	assert.NoError(t, Options{}.validate())
	assert.NoError(t, Options{Page: 3, N: 1, Subifd: NoSubifd}.validate())
}
