package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZonesFromNativeList(t *testing.T) {
	zones, err := zonesFromValue([]any{"eu-zurich-1-AD-1", "eu-zurich-1-AD-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-zurich-1-AD-1", "eu-zurich-1-AD-2"}, zones)
}

func TestZonesFromStringSlice(t *testing.T) {
	zones, err := zonesFromValue([]string{"eu-zurich-1-AD-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-zurich-1-AD-1"}, zones)
}

func TestZonesFromJSONString(t *testing.T) {
	zones, err := zonesFromValue(`["eu-zurich-1-AD-1","eu-zurich-1-AD-2"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-zurich-1-AD-1", "eu-zurich-1-AD-2"}, zones)
}

func TestZonesFromInvalidJSONString(t *testing.T) {
	_, err := zonesFromValue("eu-zurich-1-AD-1,eu-zurich-1-AD-2")
	assert.EqualError(t, err, "zones is not a valid JSON list")
}

func TestZonesMissing(t *testing.T) {
	_, err := zonesFromValue(nil)
	assert.EqualError(t, err, "zones is required")
}

func TestZonesWithNonStringEntry(t *testing.T) {
	_, err := zonesFromValue([]any{"eu-zurich-1-AD-1", 2})
	assert.EqualError(t, err, "zones must be a list of strings")
}

func TestZonesFromUnsupportedType(t *testing.T) {
	_, err := zonesFromValue(42)
	assert.EqualError(t, err, "zones must be a list of strings")
}
