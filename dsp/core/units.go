package core

// Physical conversion factors used by the absorption spectrum pipeline.
const (
	// DebyeToAU converts a dipole moment from Debye to atomic units.
	DebyeToAU = 0.393456

	// HartreeToEV converts an energy (or angular frequency in atomic units)
	// from Hartree to electron-volts.
	HartreeToEV = 27.2114

	// SpeedOfLightAU is the speed of light in atomic units.
	SpeedOfLightAU = 137.0
)
