package models

// MotionData holds one inertial sample as reported by the device.
type MotionData struct {
	Flag        uint8      `json:"flag"`        // which sensors contributed, see MotionFlag*
	Timestamp   float64    `json:"timestamp"`   // device clock
	Accel       [3]float64 `json:"accel"`       // m/s²
	Gyro        [3]float64 `json:"gyro"`        // rad/s
	Temperature float64    `json:"temperature"` // °C
}

// Flag values reported by the IMU.
const (
	MotionFlagAccelGyro uint8 = iota
	MotionFlagAccel
	MotionFlagGyro
)

func (MotionData) Columns() []string {
	return []string{
		"flag", "timestamp",
		"accel_x", "accel_y", "accel_z",
		"gyro_x", "gyro_y", "gyro_z",
		"temperature",
	}
}

func (d *MotionData) Row(nf NumberFormat) []string {
	return []string{
		itoa(int(d.Flag)),
		nf.Float(d.Timestamp),
		nf.Float(d.Accel[0]), nf.Float(d.Accel[1]), nf.Float(d.Accel[2]),
		nf.Float(d.Gyro[0]), nf.Float(d.Gyro[1]), nf.Float(d.Gyro[2]),
		nf.Float(d.Temperature),
	}
}
