// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/holomush/irgraph/pkg/errutil"
)

var errSentinel = errors.New("sentinel")

func TestAssertErrorCode(t *testing.T) {
	err := oops.Code("IRIO_MALFORMED").Wrap(errSentinel)
	errutil.AssertErrorCode(t, err, "IRIO_MALFORMED")
}

func TestAssertErrorCode_DeepestWins(t *testing.T) {
	inner := oops.Code("IR_DUPLICATE_ID").Wrap(errSentinel)
	err := oops.Code("IRIO_DUPLICATE_ID").With("index", 3).Wrap(inner)

	errutil.AssertErrorCode(t, err, "IR_DUPLICATE_ID")
	errutil.AssertErrorContext(t, err, "index", 3)
	assert.ErrorIs(t, err, errSentinel)
}

func TestAssertErrorContext(t *testing.T) {
	err := oops.With("path", "a.irg").Errorf("load failed")
	errutil.AssertErrorContext(t, err, "path", "a.irg")
}

func TestRequireOops(t *testing.T) {
	err := oops.Code("X").Errorf("x")
	got := errutil.RequireOops(t, err)
	assert.Equal(t, "x", got.Error())
}
