package tz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	loc, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultZone, loc.String())

	loc, err = Load("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = Load("Mars/Olympus_Mons")
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad("Mars/Olympus_Mons") })
}
