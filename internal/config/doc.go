// SPDX-License-Identifier: MPL-2.0

// Package config loads hazmat configuration from a CUE file validated
// against an embedded schema and merged through viper, so defaults,
// file values, and HAZMAT_* environment overrides compose predictably.
package config
