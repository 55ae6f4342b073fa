// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package mpt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyForIndexBoundaries(t *testing.T) {
	require.Equal(t, []byte{0x80}, KeyForIndex(0))
	require.Equal(t, []byte{0x7f}, KeyForIndex(127))
	require.Equal(t, []byte{0x81, 0x80}, KeyForIndex(128))
	require.Equal(t, []byte{0x82, 0x01, 0x00}, KeyForIndex(256))
}
