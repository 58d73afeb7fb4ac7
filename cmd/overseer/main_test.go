package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_InvalidPort(t *testing.T) {
	assert.Error(t, run("not-a-port"))
	assert.Error(t, run("-1"))
	assert.Error(t, run("70000"))
}
