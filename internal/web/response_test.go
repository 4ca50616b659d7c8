package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderDoesNotMutateReceiver(t *testing.T) {
	original := Text("hello").Header("X-One", "1")
	before := original.Headers()

	derived := original.Header("X-One", "2").Header("X-Two", "3")

	assert.Equal(t, before, original.Headers(), "original must be unchanged")
	assert.Equal(t, map[string][]string{"x-one": {"1"}}, original.Headers())
	assert.Equal(t, map[string][]string{
		"x-one": {"1", "2"},
		"x-two": {"3"},
	}, derived.Headers())
}

func TestHeadersMergeCaseInsensitively(t *testing.T) {
	resp := JSON(map[string]string{"foo": "bar"}).
		Header("X-Test", "first").
		Header("x-test", "second").
		Header("X-TEST", "third")

	headers := resp.Headers()

	require.Len(t, headers, 1)
	assert.Equal(t, []string{"first", "second", "third"}, headers["x-test"],
		"values keep insertion order under one normalized key")
}

func TestStatusCodeDefaultsTo200(t *testing.T) {
	assert.Equal(t, 200, Text("ok").StatusCode())
	assert.Equal(t, 200, JSON(nil).StatusCode())
	assert.Equal(t, 200, Template("login", nil).StatusCode())
}

func TestStatusIsNonMutating(t *testing.T) {
	ok := Text("ok")
	teapot := ok.Status(418)

	assert.Equal(t, 200, ok.StatusCode())
	assert.Equal(t, 418, teapot.StatusCode())
}

func TestStatusKeepsHeaders(t *testing.T) {
	resp := Text("gone").Header("X-Reason", "moved").Status(410)

	assert.Equal(t, 410, resp.StatusCode())
	assert.Equal(t, map[string][]string{"x-reason": {"moved"}}, resp.Headers())
}
