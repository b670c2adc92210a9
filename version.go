package arith

// Name and Version identify this package in logs and telemetry.
const (
	Name    = "go-arith"
	Version = "0.1.0"
)
