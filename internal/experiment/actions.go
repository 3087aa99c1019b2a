package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/control"
	"github.com/san-kum/somsim/internal/substance"
)

// ActionFunc applies one scheduled action to a running experiment.
type ActionFunc func(e *Experiment, a config.Action) error

var actionHandlers = map[string]ActionFunc{
	config.ActionInject: func(e *Experiment, a config.Action) error {
		n := int(math.Round(a.Value))
		if n < 1 {
			n = 1
		}
		e.pending += n
		return nil
	},
	config.ActionHeat: func(e *Experiment, a config.Action) error {
		e.model.SetHeatingCooling(a.Value)
		return nil
	},
	config.ActionLid: func(e *Experiment, a config.Action) error {
		e.model.SetTargetContainerHeight(a.Value)
		return nil
	},
	config.ActionPhase: func(e *Experiment, a config.Action) error {
		ph, err := substance.ParsePhase(a.Name)
		if err != nil {
			return err
		}
		e.model.SetPhase(ph)
		return nil
	},
	config.ActionReturnLid: func(e *Experiment, a config.Action) error {
		e.model.ReturnLid()
		return nil
	},
	config.ActionSubstance: func(e *Experiment, a config.Action) error {
		s, err := substance.Parse(a.Name)
		if err != nil {
			return err
		}
		e.pending = 0
		return e.model.SetSubstance(s)
	},
	config.ActionEpsilon: func(e *Experiment, a config.Action) error {
		e.model.SetEpsilon(a.Value)
		return nil
	},
	config.ActionGravity: func(e *Experiment, a config.Action) error {
		e.model.SetGravity(a.Value)
		return nil
	},
	config.ActionPressure: func(e *Experiment, a config.Action) error {
		switch {
		case a.Value <= 0:
			e.lid = nil
		case e.lid == nil:
			e.lid = control.NewLidRegulator(a.Value)
		default:
			e.lid.SetTarget(a.Value)
		}
		return nil
	},
}

// ActionNames lists the scheduled actions an experiment understands.
func ActionNames() []string {
	names := make([]string, 0, len(actionHandlers))
	for name := range actionHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Experiment) apply(a config.Action) error {
	fn, ok := actionHandlers[a.Action]
	if !ok {
		return fmt.Errorf("unknown action: %s", a.Action)
	}
	e.log.Debug("applying action", "action", a.Action, "at", a.At, "value", a.Value, "name", a.Name)
	return fn(e, a)
}
