// CLASSIFICATION: COMMUNITY
// Filename: types.go v0.2
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package http

// Logger abstracts logging for the server. *logrus.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}
