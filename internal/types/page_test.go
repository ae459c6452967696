package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageLabel(t *testing.T) {
	assert.Equal(t, "1 of 3", PageLabel(1, 3))
	assert.Equal(t, "12 of 12", PageLabel(12, 12))
}

func TestPageSetup_ContentArea(t *testing.T) {
	p := DefaultPageSetup()
	assert.InDelta(t, 190.0, p.ContentWidth(), 1e-9)
	assert.InDelta(t, 272.0, p.ContentHeight(), 1e-9)
	require.NoError(t, p.Validate())
}

func TestPageSetup_ValidateRejectsOversizedMargins(t *testing.T) {
	p := PageSetup{Size: PageA5, Margins: Margins{Top: 100, Bottom: 110, Left: 10, Right: 10}}
	assert.Error(t, p.Validate())

	p = PageSetup{Size: PageA4, Margins: Margins{Top: -1}}
	assert.Error(t, p.Validate())
}

func TestLookupPageSize(t *testing.T) {
	s, ok := LookupPageSize(" letter ")
	require.True(t, ok)
	assert.Equal(t, PageLetter, s)

	_, ok = LookupPageSize("B5")
	assert.False(t, ok)
}

func TestMMToCSSPixels(t *testing.T) {
	assert.InDelta(t, 96.0, MMToCSSPixels(25.4), 1e-9)
	assert.InDelta(t, 718.11, MMToCSSPixels(190), 0.01)
}
