package model_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/somsim/internal/event"
	"github.com/san-kum/somsim/internal/integrators"
	"github.com/san-kum/somsim/internal/model"
	"github.com/san-kum/somsim/internal/substance"
)

const frame = 1.0 / 60

func run(m *model.Model, frames int) {
	for i := 0; i < frames; i++ {
		m.Step(frame)
	}
}

func mustModel(opts model.Options) *model.Model {
	m, err := model.New(opts)
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Model", func() {
	Describe("substance selection", func() {
		for _, s := range substance.All() {
			s := s
			It("builds a consistent data set for "+s.String(), func() {
				m := mustModel(model.Options{Substance: s, Seed: 1})
				props, err := substance.Lookup(s)
				Expect(err).NotTo(HaveOccurred())

				ds := m.DataSet()
				Expect(ds.AtomsPerMolecule()).To(Equal(props.AtomsPerMolecule))
				Expect(ds.NumberOfMolecules()).To(Equal(props.InitialMoleculeCount()))
				Expect(ds.Check()).To(Succeed())
				Expect(m.SetPoint()).To(Equal(substance.SolidTemperature))
			})
		}

		It("discards the old data set on change", func() {
			m := mustModel(model.Options{Substance: substance.Neon, Seed: 1})
			before := m.DataSet()
			Expect(m.SetSubstance(substance.Water)).To(Succeed())
			Expect(m.DataSet()).NotTo(BeIdenticalTo(before))
			Expect(m.DataSet().AtomsPerMolecule()).To(Equal(3))
		})

		It("rejects an unknown substance", func() {
			m := mustModel(model.Options{Substance: substance.Neon})
			Expect(m.SetSubstance(substance.Substance(42))).To(MatchError(substance.ErrUnknownSubstance))
		})
	})

	Describe("stepping", func() {
		var m *model.Model

		BeforeEach(func() {
			m = mustModel(model.Options{Substance: substance.Argon, Seed: 7})
		})

		It("advances time by the frame duration", func() {
			run(m, 30)
			Expect(m.Time()).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("drops frames longer than a second", func() {
			m.Step(1.5)
			Expect(m.Time()).To(BeZero())
		})

		It("does nothing while paused until stepped once", func() {
			m.SetPlaying(false)
			run(m, 10)
			Expect(m.Time()).To(BeZero())
			m.StepOnce()
			Expect(m.Time()).To(BeNumerically("~", frame, 1e-12))
		})

		It("keeps every molecule inside a closed container", func() {
			m.SetPhase(substance.Gas)
			run(m, 120)
			ds := m.DataSet()
			width := m.Properties().Normalize(substance.ContainerWidth)
			height := m.Properties().Normalize(m.ContainerHeight())
			for i, p := range ds.CenterOfMass {
				Expect(ds.InsideContainer[i]).To(BeTrue())
				Expect(p.X).To(BeNumerically(">=", integrators.WallOffset))
				Expect(p.X).To(BeNumerically("<=", width-integrators.WallOffset))
				Expect(p.Y).To(BeNumerically(">=", integrators.WallOffset))
				Expect(p.Y).To(BeNumerically("<=", height-integrators.WallOffset))
			}
		})

		It("holds a stable gas near its set point", func() {
			m.SetPhase(substance.Gas)
			run(m, 120)
			Expect(m.Temperature()).To(BeNumerically("~", substance.GasTemperature, 0.2))
			Expect(m.ActiveThermostat()).To(Equal("isokinetic"))
		})

		It("is deterministic for a given seed", func() {
			other := mustModel(model.Options{Substance: substance.Argon, Seed: 7})
			run(m, 30)
			run(other, 30)
			Expect(other.Snapshot()).To(Equal(m.Snapshot()))
		})

		It("steps water without producing NaN", func() {
			Expect(m.SetSubstance(substance.Water)).To(Succeed())
			m.SetPhase(substance.Liquid)
			run(m, 60)
			for _, p := range m.DataSet().AtomPositions {
				Expect(math.IsNaN(p.X) || math.IsNaN(p.Y)).To(BeFalse())
			}
		})
	})

	Describe("heating and cooling", func() {
		var m *model.Model

		BeforeEach(func() {
			m = mustModel(model.Options{Substance: substance.Neon, Seed: 3})
		})

		It("raises the set point at the heating rate", func() {
			m.SetHeatingCooling(1)
			run(m, 60)
			Expect(m.SetPoint()).To(BeNumerically("~", substance.SolidTemperature+model.HeatingRate, 1e-9))
		})

		It("clamps the heater input", func() {
			m.SetHeatingCooling(-3)
			Expect(m.HeatingCooling()).To(Equal(-1.0))
		})

		It("approaches but never passes the minimum temperature", func() {
			m.SetHeatingCooling(-1)
			run(m, 300)
			Expect(m.SetPoint()).To(BeNumerically(">=", substance.MinTemperature))
			Expect(m.SetPoint()).To(BeNumerically("<", 0.01))
		})

		It("keeps molecules settling under gravity at absolute zero", func() {
			m.SetPhase(substance.Liquid)
			m.SetHeatingCooling(-1)
			run(m, 600)
			m.SetHeatingCooling(0)
			Expect(m.SetPoint()).To(BeNumerically("~", substance.MinTemperature, 1e-12))

			falling := 0
			for i := 0; i < 60; i++ {
				run(m, 1)
				Expect(m.ActiveThermostat()).To(Equal("andersen"))
				for _, v := range m.DataSet().Velocity {
					if v.Y < 0 {
						falling++
						break
					}
				}
			}
			Expect(falling).To(BeNumerically(">", 0))
		})

		It("starts a new phase with an empty pressure window", func() {
			m.SetPhase(substance.Gas)
			run(m, 120)
			m.SetPhase(substance.Liquid)
			Expect(m.Pressure()).To(BeZero())
			Expect(m.Snapshot().PressureAtm).To(BeZero())
		})

		It("reports Kelvin through the substance mapping", func() {
			m.SetPhase(substance.Gas)
			run(m, 10)
			Expect(m.TemperatureKelvin()).To(BeNumerically("~", m.Properties().ToKelvin(m.Temperature()), 1e-9))
		})
	})

	Describe("container", func() {
		var m *model.Model

		BeforeEach(func() {
			m = mustModel(model.Options{Substance: substance.Neon, Seed: 5})
		})

		It("moves the lid at the shrink rate", func() {
			m.SetTargetContainerHeight(5000)
			run(m, 60)
			Expect(m.ContainerHeight()).To(BeNumerically("~", substance.ContainerInitialHeight-model.LidShrinkRate, 1e-6))
		})

		It("clamps the lid target", func() {
			m.SetTargetContainerHeight(10)
			Expect(m.TargetContainerHeight()).To(Equal(substance.ContainerMinHeight))
			m.SetTargetContainerHeight(1e9)
			Expect(m.TargetContainerHeight()).To(Equal(substance.ContainerInitialHeight))
		})

		It("clamps gravity to non-positive values", func() {
			m.SetGravity(0.3)
			Expect(m.Gravity()).To(BeZero())
		})

		Context("under sustained high pressure", func() {
			var bus *event.Bus
			var explosions int

			BeforeEach(func() {
				bus = event.NewBus()
				explosions = 0
				bus.Subscribe(event.ContainerExploded, func(event.Event) { explosions++ })
				m = mustModel(model.Options{Substance: substance.Neon, Seed: 5, Bus: bus})
				m.SetPhase(substance.Gas)
				m.SetTemperature(20)
				for i := 0; i < 900 && !m.Exploded(); i++ {
					m.Step(frame)
				}
			})

			It("explodes exactly once", func() {
				Expect(m.Exploded()).To(BeTrue())
				run(m, 30)
				Expect(explosions).To(Equal(1))
			})

			It("raises the container and refuses injections", func() {
				h := m.ContainerHeight()
				run(m, 30)
				Expect(m.ContainerHeight()).To(BeNumerically(">", h))
				Expect(m.InjectMolecule()).To(BeFalse())
			})

			It("purges escaped molecules when the lid returns", func() {
				run(m, 120)
				before := m.NumberOfMolecules()
				m.ReturnLid()

				Expect(m.Exploded()).To(BeFalse())
				Expect(m.NumberOfMolecules()).To(BeNumerically("<=", before))
				Expect(m.ContainerHeight()).To(Equal(substance.ContainerInitialHeight))
				Expect(m.DataSet().Check()).To(Succeed())
				if m.NumberOfMolecules() > 0 {
					Expect(m.SetPoint()).To(Equal(substance.GasTemperature))
				}
				for _, inside := range m.DataSet().InsideContainer {
					Expect(inside).To(BeTrue())
				}
			})
		})
	})

	Describe("injection", func() {
		It("caps the queue", func() {
			m := mustModel(model.Options{Substance: substance.Neon, Seed: 9})
			Expect(m.InjectMolecule()).To(BeTrue())
			Expect(m.InjectMolecule()).To(BeTrue())
			Expect(m.InjectMolecule()).To(BeTrue())
			Expect(m.InjectMolecule()).To(BeFalse())
			Expect(m.QueuedInjections()).To(Equal(model.MaxQueuedInjections))
		})

		It("spaces injections by the holdoff", func() {
			m := mustModel(model.Options{Substance: substance.Neon, Seed: 9})
			n := m.NumberOfMolecules()
			m.InjectMolecule()
			m.InjectMolecule()
			m.Step(frame)
			Expect(m.NumberOfMolecules()).To(Equal(n + 1))
			run(m, 5)
			Expect(m.NumberOfMolecules()).To(Equal(n + 1))
			run(m, 20)
			Expect(m.NumberOfMolecules()).To(Equal(n + 2))
		})

		It("never exceeds the configured maximum", func() {
			m := mustModel(model.Options{Substance: substance.Neon, Seed: 11, MaxAtoms: 90})
			for i := 0; i < 400; i++ {
				m.InjectMolecule()
				m.Step(frame)
				Expect(m.NumberOfMolecules()).To(BeNumerically("<=", 90))
			}
			Expect(m.NumberOfMolecules()).To(Equal(90))
			Expect(m.InjectMolecule()).To(BeFalse())
			Expect(m.DataSet().Check()).To(Succeed())
		})
	})

	Describe("adjustable attraction", func() {
		It("clamps and remembers epsilon", func() {
			m := mustModel(model.Options{Substance: substance.Adjustable, Seed: 1})
			m.SetEpsilon(1000)
			Expect(m.Epsilon()).To(Equal(substance.MaxAdjustableEpsilon))
			Expect(m.SetSubstance(substance.Neon)).To(Succeed())
			Expect(m.SetSubstance(substance.Adjustable)).To(Succeed())
			Expect(m.Epsilon()).To(Equal(substance.MaxAdjustableEpsilon))
		})
	})

	It("resets to defaults", func() {
		m := mustModel(model.Options{Substance: substance.DiatomicOxygen, Seed: 2})
		m.SetGravity(-0.2)
		m.SetHeatingCooling(0.5)
		run(m, 10)
		Expect(m.Reset()).To(Succeed())
		Expect(m.Gravity()).To(Equal(model.DefaultGravity))
		Expect(m.HeatingCooling()).To(BeZero())
		Expect(m.Time()).To(BeZero())
		Expect(m.SetPoint()).To(Equal(substance.SolidTemperature))
	})
})
