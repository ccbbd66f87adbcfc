package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils"
)

func TestFind(t *testing.T) {
	data := []string{"a", "b", "c"}
	dataMap := map[string]string{"A": "a", "B": "b", "C": "c"}

	ok, failed := utils.Find(dataMap, data, nil)
	assert.Equal(t, data, ok)
	assert.Empty(t, failed)

	ok, failed = utils.Find(dataMap, data, []string{"C", "X", "A"})
	assert.Equal(t, []string{"c", "a"}, ok)
	assert.Equal(t, []string{"X"}, failed)
}
