package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefault(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	assert.Equal(t, "fallback.csv", configDefault("paths.segments", "fallback.csv"))

	viper.Set("paths.segments", "annotation/segs.csv")
	assert.Equal(t, "annotation/segs.csv", configDefault("paths.segments", "fallback.csv"))

	// An empty configured value does not shadow the flag default.
	viper.Set("paths.gtf", "")
	assert.Equal(t, "a.gtf", configDefault("paths.gtf", "a.gtf"))
}
