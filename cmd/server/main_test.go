package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAPIKeys_EmptyStringYieldsNil(t *testing.T) {
	assert.Nil(t, splitAPIKeys(""))
}

func TestSplitAPIKeys_SplitsAndTrimsCommaSeparatedKeys(t *testing.T) {
	keys := splitAPIKeys("key-one, key-two ,key-three")
	assert.Equal(t, []string{"key-one", "key-two", "key-three"}, keys)
}

func TestSplitAPIKeys_SkipsBlankEntries(t *testing.T) {
	keys := splitAPIKeys("key-one,,  ,key-two")
	assert.Equal(t, []string{"key-one", "key-two"}, keys)
}
