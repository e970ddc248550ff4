package palbot

import "errors"

var (
	// ErrConfig marks a tray layout that cannot be built.
	ErrConfig = errors.New("invalid tray configuration")
	// ErrUnknownTray is returned when a tray name is not in the layout.
	ErrUnknownTray = errors.New("unknown tray")
	// ErrPositionOutOfRange is returned for positions outside [1, MaxPosition].
	ErrPositionOutOfRange = errors.New("position out of range")
	// ErrSetupExists is returned by SaveSetup instead of overwriting a file.
	ErrSetupExists = errors.New("setup file already exists")
	// ErrUnknownSyringe is returned for syringe sizes without calibration data.
	ErrUnknownSyringe = errors.New("unknown syringe")
	// ErrTimeout is returned when the device keeps answering BUSY past the deadline.
	ErrTimeout     = errors.New("timed out waiting for device")
	ErrWriteFailed = errors.New("failed to write to serial port")
)
