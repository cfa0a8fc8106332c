// Package simulation assembles the pieces shared by all simulation runs.
package simulation

import (
	"fmt"

	"github.com/rs/xid"

	"github.com/pocketriscv/memsim/datarecording"
	"github.com/pocketriscv/memsim/monitoring"
	"github.com/pocketriscv/memsim/sim"
)

// A Simulation provides the engine, the data recorder, and an optional
// monitor, and keeps a registry of all components in the run.
type Simulation struct {
	id string

	engine       sim.Engine
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor

	components    []sim.Component
	compNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the event engine of the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used by this run.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil when monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterComponent adds a component to the registry. Names must be unique.
func (s *Simulation) RegisterComponent(c sim.Component) {
	if _, ok := s.compNameIndex[c.Name()]; ok {
		panic(fmt.Errorf("component %s already registered", c.Name()))
	}

	s.components = append(s.components, c)
	s.compNameIndex[c.Name()] = len(s.components) - 1

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// GetComponentByName returns the registered component with the given name.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	idx, ok := s.compNameIndex[name]
	if !ok {
		panic(fmt.Errorf("component %s not found", name))
	}

	return s.components[idx]
}

// Components returns all registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// Terminate stops the services of the simulation. It must be called at the
// end of a run.
func (s *Simulation) Terminate() {
	s.dataRecorder.Close()

	if s.monitor != nil {
		s.monitor.StopServer()
	}
}

// A Builder configures and creates simulations.
type Builder struct {
	monitorOn   bool
	monitorPort int
	outputName  string
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithMonitoring enables the web monitoring server.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the monitoring server port. Zero picks a free port.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputName sets the name of the trace database file, without the
// extension. The default derives the name from the simulation ID.
func (b Builder) WithOutputName(name string) Builder {
	b.outputName = name
	return b
}

// Build creates the simulation.
func (b Builder) Build() *Simulation {
	s := &Simulation{
		id:            xid.New().String(),
		compNameIndex: make(map[string]int),
	}

	s.engine = sim.NewSerialEngine()

	name := b.outputName
	if name == "" {
		name = "memsim_" + s.id
	}
	s.dataRecorder = datarecording.New(name)

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().
			WithPortNumber(b.monitorPort)
		s.monitor.RegisterEngine(s.engine)
		s.monitor.StartServer()
	}

	return s
}
