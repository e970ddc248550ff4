package palbot

import "fmt"

// PlungerMotor is the actuator name of the syringe plunger.
const PlungerMotor = "MPlgMed"

const eol = "\r\n"

// MoveAbs moves the head to absolute coordinates.
func MoveAbs(p Position) string {
	return fmt.Sprintf("MOVE_ABS(%d,%d,%d)"+eol, p.X, p.Y, p.Z)
}

// RaiseZ lifts the head to z = 0 without moving x and y.
func RaiseZ() string {
	return "MOVE_ABS(,,0)" + eol
}

// MoveRel moves the head relative to its current position.
func MoveRel(dx, dy, dz int) string {
	return fmt.Sprintf("MOVE_REL(%d,%d,%d)"+eol, dx, dy, dz)
}

// MotAbs drives a named motor to an absolute height at the given speed.
func MotAbs(motor string, height, speed int) string {
	return fmt.Sprintf("MOT_ABS(%s, %d, %d)"+eol, motor, height, speed)
}

func Beep(frequency, duration int) string {
	return fmt.Sprintf("beep(%d, %d)"+eol, frequency, duration)
}
