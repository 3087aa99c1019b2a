package model

// Snapshot is the observable state of a model at one instant. Lengths are in
// picometers.
type Snapshot struct {
	Time              float64 `json:"time"`
	Substance         string  `json:"substance"`
	Phase             string  `json:"phase"`
	Temperature       float64 `json:"temperature"`
	TemperatureKelvin float64 `json:"temperature_k"`
	SetPoint          float64 `json:"set_point"`
	Pressure          float64 `json:"pressure"`
	PressureAtm       float64 `json:"pressure_atm"`
	ContainerHeight   float64 `json:"container_height"`
	Exploded          bool    `json:"exploded"`
	Molecules         int     `json:"molecules"`
	KineticEnergy     float64 `json:"kinetic_energy"`
	PotentialEnergy   float64 `json:"potential_energy"`
	Thermostat        string  `json:"thermostat"`
}

func (m *Model) Snapshot() Snapshot {
	trans, rot := m.ds.KineticEnergy()
	return Snapshot{
		Time:              m.time,
		Substance:         m.substance.String(),
		Phase:             m.Phase().String(),
		Temperature:       m.temperature,
		TemperatureKelvin: m.TemperatureKelvin(),
		SetPoint:          m.setPoint,
		Pressure:          m.pressure,
		PressureAtm:       m.PressureAtm(),
		ContainerHeight:   m.height,
		Exploded:          m.exploded,
		Molecules:         m.ds.NumberOfMolecules(),
		KineticEnergy:     trans + rot,
		PotentialEnergy:   m.in.PotentialEnergy(),
		Thermostat:        m.ActiveThermostat(),
	}
}
