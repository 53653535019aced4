// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build tools

// Package main pins tool and test dependencies to go.mod. The ginkgo CLI
// runs the round-trip suite:
//
//	go run github.com/onsi/ginkgo/v2/ginkgo -tags integration ./test/integration/...
package main

import (
	_ "github.com/onsi/ginkgo/v2/ginkgo"
	_ "github.com/onsi/gomega"
	_ "github.com/stretchr/testify/assert"
	_ "github.com/stretchr/testify/require"
	_ "go.uber.org/goleak"
)
