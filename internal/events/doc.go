// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose coupling
// between components in the system. The task API emits events when tasks are assigned
// or change status without knowing which handlers will process them; the notification
// writer in this package turns those events into in-app notifications and best-effort
// emails.
//
// The primary components are:
// - TaskEvent: Represents something that happened to a task
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
// - NotificationWriter: Handler that persists notifications for task events
package events
