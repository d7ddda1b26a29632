/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package rtilog gives every component a logrus entry tagged with its
// category, the closest idiomatic-Go equivalent to the original source's
// category/priority-gated LogStream sinks. Categories are filtered by
// level, not by a second dimension of their own: set the category logger's
// level once at startup (or via SetCategoryLevel) and logrus does the rest.
package rtilog

import "github.com/sirupsen/logrus"

// Category names mirror the original source's logging categories.
const (
	CategoryNetwork = "network"
	CategoryMessage = "message"
	CategoryServer  = "server"
	CategoryConfig  = "config"
	CategoryModule  = "module"
)

var categoryLoggers = map[string]*logrus.Logger{}

func loggerFor(category string) *logrus.Logger {
	l, ok := categoryLoggers[category]
	if !ok {
		l = logrus.New()
		categoryLoggers[category] = l
	}
	return l
}

// For returns a log entry tagged with the given category, ready for
// further field chaining (e.g. connection ID, listener address).
func For(category string) *logrus.Entry {
	return loggerFor(category).WithField("category", category)
}

// SetCategoryLevel sets the verbosity of one logging category without
// touching the others, e.g. SetCategoryLevel(CategoryNetwork, logrus.DebugLevel)
// to see every dispatcher tick without drowning in message-layer noise.
func SetCategoryLevel(category string, level logrus.Level) {
	loggerFor(category).SetLevel(level)
}
