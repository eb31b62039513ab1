// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The issue catalog holds longer Markdown guidance for
// recurring problems (missing modules, bad locators, unreadable repositories),
// rendered in the terminal with glamour.
package issue
