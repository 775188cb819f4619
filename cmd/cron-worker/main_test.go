package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitNames(t *testing.T) {
	require.Nil(t, splitNames(""))
	require.Equal(t, []string{"banner-expiry", "notification-cleanup"}, splitNames(" banner-expiry, ,notification-cleanup "))
}
