// Package ops provides the structured-logging convention shared by every
// package in this module. It is adapted from estuary-flow's go/flow/ops
// package: that Logger wraps fields for forwarding log events into a Flow
// ops collection, which has no analog here (there is no log sink to forward
// into), so this is reduced to a thin logrus.Entry factory that still gives
// every component a consistent "component" field.
package ops

import "github.com/sirupsen/logrus"

// For returns a logger scoped to the named component, e.g. ops.For("connection").
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
