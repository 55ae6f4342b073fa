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

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

func TestSingleElementRootMatchesLeafHash(t *testing.T) {
	trie := New(NewMemoryDB())
	val := []byte("canonical-tx-0")
	require.NoError(t, trie.Insert(KeyForIndex(0), val))

	root, err := trie.Root()
	require.NoError(t, err)

	keyEnc, err := rlp.EncodeToBytes(hexToCompact(keybytesToHex(KeyForIndex(0))))
	require.NoError(t, err)
	valEnc, err := rlp.EncodeToBytes(val)
	require.NoError(t, err)
	leafEnc, err := rlpList(keyEnc, valEnc)
	require.NoError(t, err)

	require.Equal(t, crypto.Keccak256(leafEnc), root.Bytes())
}

func TestEmptyTrieRootIsWellKnownEmptyRoot(t *testing.T) {
	trie := New(NewMemoryDB())
	root, err := trie.Root()
	require.NoError(t, err)
	// Keccak256(RLP("")) = 0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421
	require.Equal(t, "56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421", hexString(root.Bytes()))
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xf]
	}
	return string(out)
}

func TestInsertManyThenRootIsDeterministic(t *testing.T) {
	trie1 := New(NewMemoryDB())
	trie2 := New(NewMemoryDB())
	for i := uint64(0); i < 200; i++ {
		v := []byte{byte(i), byte(i >> 8), 0xAA}
		require.NoError(t, trie1.Insert(KeyForIndex(i), v))
	}
	for i := uint64(199); ; i-- {
		v := []byte{byte(i), byte(i >> 8), 0xAA}
		require.NoError(t, trie2.Insert(KeyForIndex(i), v))
		if i == 0 {
			break
		}
	}
	r1, err := trie1.Root()
	require.NoError(t, err)
	r2, err := trie2.Root()
	require.NoError(t, err)
	require.Equal(t, r1, r2)
}

func TestOverwriteExistingKey(t *testing.T) {
	trie := New(NewMemoryDB())
	require.NoError(t, trie.Insert(KeyForIndex(3), []byte("first")))
	require.NoError(t, trie.Insert(KeyForIndex(3), []byte("second")))

	proof, err := trie.Proof(KeyForIndex(3))
	require.NoError(t, err)
	root, err := trie.Root()
	require.NoError(t, err)
	val, err := Verify(root.Bytes(), KeyForIndex(3), proof)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), val)
}

func TestInsertRejectsEmptyValue(t *testing.T) {
	trie := New(NewMemoryDB())
	require.Error(t, trie.Insert(KeyForIndex(0), nil))
}
