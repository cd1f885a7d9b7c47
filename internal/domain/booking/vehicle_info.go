package booking

import (
	"fmt"
	"strings"

	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

const maxVehicleFieldLen = 64

// VehicleInfo is a free-form description of the vehicle using the space.
type VehicleInfo struct {
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
	Color        string `json:"color,omitempty"`
}

// IsZero reports whether no field is set.
func (v VehicleInfo) IsZero() bool {
	return v == VehicleInfo{}
}

// Normalize trims whitespace and upper-cases the plate.
func (v VehicleInfo) Normalize() VehicleInfo {
	return VehicleInfo{
		Make:         strings.TrimSpace(v.Make),
		Model:        strings.TrimSpace(v.Model),
		LicensePlate: strings.ToUpper(strings.TrimSpace(v.LicensePlate)),
		Color:        strings.TrimSpace(v.Color),
	}
}

// Validate rejects oversized fields.
func (v VehicleInfo) Validate() error {
	fields := map[string]string{
		"make":          v.Make,
		"model":         v.Model,
		"license_plate": v.LicensePlate,
		"color":         v.Color,
	}
	for name, val := range fields {
		if len(val) > maxVehicleFieldLen {
			return domain.NewValidationError(fmt.Sprintf("vehicle_info.%s exceeds %d characters", name, maxVehicleFieldLen))
		}
	}
	return nil
}
