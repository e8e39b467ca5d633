package kiosk

import "context"

// Capability is the set of platform kiosk primitives the enforcer drives.
// Implementations wrap the device-management APIs of the host platform.
type Capability interface {
	ShowLockSurface(ctx context.Context, message string) error
	DismissLockSurface(ctx context.Context) error
	IsSurfaceForeground(ctx context.Context) (bool, error)

	SetInputRestricted(ctx context.Context, restricted bool) error

	// Only honoured when the agent holds device-owner privileges.
	IsDeviceOwner(ctx context.Context) bool
	SetKeyguardDisabled(ctx context.Context, disabled bool) error
	SetStatusBarDisabled(ctx context.Context, disabled bool) error

	EnterKioskMode(ctx context.Context) error
	ExitKioskMode(ctx context.Context) error
}
