// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package evmtx

import (
	"fmt"
	"math/big"
)

func errFieldMissing(name string) error {
	return fmt.Errorf("%s missing", name)
}

func errFieldRange(name string, v *big.Int) error {
	return fmt.Errorf("%s out of range: %s", name, v.String())
}
