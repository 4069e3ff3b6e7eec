package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_ExactMatch(t *testing.T) {
	plan, ok := Lookup("Frontend Developer")
	require.True(t, ok)
	assert.Equal(t, "Frontend Developer", plan.Role)
	require.NotEmpty(t, plan.Steps)
	assert.Equal(t, "Month 1", plan.Steps[0].Month)
}

func TestLookup_IsCaseSensitive(t *testing.T) {
	_, ok := Lookup("frontend developer")
	assert.False(t, ok)

	_, ok = Lookup("Frontend Developer ")
	assert.False(t, ok)
}

func TestLookup_UnknownRole(t *testing.T) {
	plan, ok := Lookup("Astronaut")
	assert.False(t, ok)
	assert.Empty(t, plan.Steps)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	plan, _ := Lookup("Backend Developer")
	plan.Steps[0].Skills[0] = "COBOL"

	again, _ := Lookup("Backend Developer")
	assert.Equal(t, "Python", again.Steps[0].Skills[0])
}

func TestRoles_AllHavePlans(t *testing.T) {
	for _, role := range Roles() {
		_, ok := Lookup(role)
		assert.True(t, ok, "role %s should have a plan", role)
	}
}

func TestGuides(t *testing.T) {
	guides := Guides()
	require.Len(t, guides, len(Roles()))

	assert.Equal(t, "Frontend Developer", guides[0].Role)
	assert.Contains(t, guides[0].Roadmap, "React")
	assert.Contains(t, guides[0].Resources, "react.dev")

	assert.Equal(t, "Backend Developer", guides[1].Role)
	assert.Contains(t, guides[1].Resources, "fastapi.tiangolo.com")
}
