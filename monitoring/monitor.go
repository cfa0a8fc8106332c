// Package monitoring provides a web interface for inspecting simulations.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/pocketriscv/memsim/sim"
)

// Monitor can turn a simulation into a server and allows external tools to
// check the simulation status.
type Monitor struct {
	engine     sim.Engine
	components []sim.Component
	lock       sync.Mutex

	portNumber int
	server     *http.Server
	listener   net.Listener
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port the monitoring server listens on. If never
// called, an available port is picked automatically.
func (m *Monitor) WithPortNumber(port int) *Monitor {
	m.portNumber = port
	return m
}

// RegisterEngine registers the engine that drives the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterComponent registers a component to be monitored.
func (m *Monitor) RegisterComponent(c sim.Component) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.components = append(m.components, c)
}

// StartServer starts the monitoring server and opens a browser pointing to
// it. It returns immediately; the server runs in its own goroutine.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/now", m.handleNow)
	r.HandleFunc("/api/pause", m.handlePause)
	r.HandleFunc("/api/continue", m.handleContinue)
	r.HandleFunc("/api/components", m.handleListComponents)
	r.HandleFunc("/api/component/{name}", m.handleComponent)
	r.HandleFunc("/api/resources", m.handleResources)

	listener, err := net.Listen("tcp",
		fmt.Sprintf(":%d", m.portNumber))
	if err != nil {
		panic(err)
	}
	m.listener = listener

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	log.Printf("Monitoring simulation at %s", url)

	m.server = &http.Server{Handler: r}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	_ = browser.OpenURL(url)
}

// StopServer shuts the monitoring server down.
func (m *Monitor) StopServer() {
	if m.server == nil {
		return
	}

	if err := m.server.Close(); err != nil {
		panic(err)
	}
}

func (m *Monitor) handleNow(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

func (m *Monitor) handlePause(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) handleContinue(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) handleListComponents(
	w http.ResponseWriter,
	_ *http.Request,
) {
	m.lock.Lock()
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}
	m.lock.Unlock()

	if err := json.NewEncoder(w).Encode(names); err != nil {
		panic(err)
	}
}

// StatusReporter is implemented by components that can summarize their own
// state for the monitoring API.
type StatusReporter interface {
	StatusReport() map[string]any
}

func (m *Monitor) handleComponent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.lock.Lock()
	var found sim.Component
	for _, c := range m.components {
		if c.Name() == name {
			found = c
			break
		}
	}
	m.lock.Unlock()

	if found == nil {
		http.Error(w, "component not found", http.StatusNotFound)
		return
	}

	report := map[string]any{"name": found.Name()}
	if reporter, ok := found.(StatusReporter); ok {
		for k, v := range reporter.StatusReport() {
			report[k] = v
		}
	}

	if err := json.NewEncoder(w).Encode(report); err != nil {
		panic(err)
	}
}

func (m *Monitor) handleResources(w http.ResponseWriter, _ *http.Request) {
	cpuPercent, err := cpu.Percent(0, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	report := map[string]any{
		"cpuPercent":    cpuPercent,
		"memoryUsed":    vm.Used,
		"memoryTotal":   vm.Total,
		"memoryPercent": vm.UsedPercent,
	}

	if err := json.NewEncoder(w).Encode(report); err != nil {
		panic(err)
	}
}
