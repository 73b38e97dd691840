package quadlet

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable machine-readable code identifying a build failure.
// Codes never change between releases; messages may.
type ErrorCode string

const (
	// Registry codes
	ErrDuplicateResourceID      ErrorCode = "DuplicateResourceID"
	ErrDuplicateResourceRequest ErrorCode = "DuplicateResourceRequest"
	ErrInvalidResourceName      ErrorCode = "InvalidResourceName"

	// Factory codes
	ErrInvalidResourceConfig     ErrorCode = "InvalidResourceConfig"
	ErrNetworkGatewayNotInSubnet ErrorCode = "NetworkGatewayNotInSubnet"

	// Container attachment codes
	ErrContainerNetworkConflict     ErrorCode = "ContainerNetworkConflict"
	ErrContainerPodConflict         ErrorCode = "ContainerPodConflict"
	ErrContainerDuplicateNetwork    ErrorCode = "ContainerDuplicateNetwork"
	ErrContainerDuplicatePort       ErrorCode = "ContainerDuplicatePort"
	ErrContainerVolumeMountConflict ErrorCode = "ContainerVolumeMountConflict"
	ErrContainerMissingDependency   ErrorCode = "ContainerMissingDependency"

	// Pod attachment codes
	ErrPodDuplicateNetwork    ErrorCode = "PodDuplicateNetwork"
	ErrPodDuplicateContainer  ErrorCode = "PodDuplicateContainer"
	ErrPodDuplicatePort       ErrorCode = "PodDuplicatePort"
	ErrPodPortInUse           ErrorCode = "PodPortInUse"
	ErrPodVolumeMountConflict ErrorCode = "PodVolumeMountConflict"
	ErrPodMissingDependency   ErrorCode = "PodMissingDependency"

	// Rendering codes
	ErrVolumeNotManaged ErrorCode = "VolumeNotManaged"
)

// Error is a build failure carrying a stable code plus a message naming the
// resources involved
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf unwraps err and returns its ErrorCode, or "" when err carries none
func CodeOf(err error) ErrorCode {
	var qerr *Error
	if errors.As(err, &qerr) {
		return qerr.Code
	}
	return ""
}
