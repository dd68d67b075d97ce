// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package lsig provides centralized registration for all contract templates.
//
// Every template authorizes transactions through TEAL program evaluation
// only and registers with the genericlsig registry.
//
// TO ADD A NEW TEMPLATE:
// 1. Create your template package in lsig/<template>/
// 2. Add its RegisterTemplate() call to RegisterAll() below
// 3. No other file changes required!
package lsig

import (
	"sync"

	"github.com/aplane-algo/aptemplate/lsig/dynamicfee"
	"github.com/aplane-algo/aptemplate/lsig/htlc"
	"github.com/aplane-algo/aptemplate/lsig/limitorder"
	"github.com/aplane-algo/aptemplate/lsig/periodic"
	"github.com/aplane-algo/aptemplate/lsig/split"
)

var registerAllOnce sync.Once

// RegisterAll registers all contract templates.
// This is idempotent and safe to call multiple times.
func RegisterAll() {
	registerAllOnce.Do(func() {
		split.RegisterTemplate()
		htlc.RegisterTemplate()
		dynamicfee.RegisterTemplate()
		periodic.RegisterTemplate()
		limitorder.RegisterTemplate()
	})
}
