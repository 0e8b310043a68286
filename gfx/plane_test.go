package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaints(t *testing.T) {
	tables := []struct {
		level byte
		plane Plane
		want  bool
	}{
		// Black-and-white pass: everything but white paints.
		{0, PlaneBW, true},
		{1, PlaneBW, true},
		{2, PlaneBW, true},
		{3, PlaneBW, false},

		// MSB pass: the two intermediate grays.
		{0, PlaneMSB, false},
		{1, PlaneMSB, true},
		{2, PlaneMSB, true},
		{3, PlaneMSB, false},

		// LSB pass: dark gray only.
		{0, PlaneLSB, false},
		{1, PlaneLSB, true},
		{2, PlaneLSB, false},
		{3, PlaneLSB, false},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, paints(table.level, table.plane), "level %d plane %d", table.level, table.plane)
	}
}

func TestWithPlane(t *testing.T) {
	r, _ := newTestRenderer()

	msb := r.WithPlane(PlaneMSB)
	assert.Equal(t, PlaneMSB, msb.plane)
	// The base session is untouched.
	assert.Equal(t, PlaneBW, r.plane)
}
