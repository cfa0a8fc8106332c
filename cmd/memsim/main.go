// memsim runs the PocketRiscV memory subsystem simulation, replaying the
// firmware's boot and display sequence against the SDRAM controller model.
package main

func main() {
	Execute()
}
