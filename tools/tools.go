// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build tools

// This file exists just so `go mod tidy` won't remove
// tool modules from our go.mod.
//
// Stamp the license header on new files with:
//
//	go generate -tags tools ./tools
package tools

//go:generate go run github.com/google/addlicense -c AUTHORS -l bsd -y 2025 ../cmd ../pkg

import (
	_ "github.com/google/addlicense"
)
