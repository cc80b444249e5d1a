package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRAM(t *testing.T) {
	assert.Equal(t, "16 GB", FormatRAM(16*1024*1024*1024))
	assert.Equal(t, "0 GB", FormatRAM(512*1024*1024))
}

func TestCollect(t *testing.T) {
	info := Collect()
	assert.NotEmpty(t, info.RAM)
}
