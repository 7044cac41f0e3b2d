// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yeahalrightcool/go-qunroll/pkg/circuit"
	"github.com/yeahalrightcool/go-qunroll/pkg/unroll"
)

var replayCmd = &cobra.Command{
	Use:   "replay [flags] script_file",
	Short: "replay a recorded traversal through the lowering backend.",
	Long: `Replay a recorded callback script (a JSON array of traversal
	events) through the simulator backend, then report the unrolled
	artifact.  This drives the backend through exactly the interface a
	real traversal driver uses.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		backend := unroll.NewSimulatorBackend(getStringSlice(cmd, "basis")...)
		//
		if getFlag(cmd, "trace") {
			backend.SetTrace(true)
		}
		//
		events := readScriptFile(args[0])
		//
		if err := replayScript(backend, events); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		if creg, value, active := backend.ActiveCondition(); active {
			log.Warnf("traversal ended with condition if(%s==%d) still active", creg, value)
		}
		//
		printSummary(backend, getFlag(cmd, "matrices"))
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("trace", false, "echo accepted operations in source syntax")
	replayCmd.Flags().Bool("matrices", false, "print the matrix of every gate record")
	replayCmd.Flags().StringSlice("basis", nil, "treat the given gate names as basis primitives")
}

// scriptRef is a bit reference as it appears in a replay script.
type scriptRef struct {
	Reg string `json:"reg"`
	Idx uint   `json:"idx"`
}

func (p scriptRef) bitRef() circuit.BitRef {
	return circuit.NewBitRef(p.Reg, p.Idx)
}

// scriptEvent is one traversal callback in a replay script, discriminated by
// its op field.  Only the fields relevant to a given op are populated.
type scriptEvent struct {
	Op      string        `json:"op"`
	Version string        `json:"version,omitempty"`
	Name    string        `json:"name,omitempty"`
	Size    int           `json:"size,omitempty"`
	Opaque  bool          `json:"opaque,omitempty"`
	Params  uint          `json:"params,omitempty"`
	Arity   uint          `json:"arity,omitempty"`
	Args    []float64     `json:"args,omitempty"`
	Qubit   *scriptRef    `json:"qubit,omitempty"`
	Cbit    *scriptRef    `json:"cbit,omitempty"`
	Control *scriptRef    `json:"control,omitempty"`
	Target  *scriptRef    `json:"target,omitempty"`
	Qubits  []scriptRef   `json:"qubits,omitempty"`
	Groups  [][]scriptRef `json:"groups,omitempty"`
	Creg    string        `json:"creg,omitempty"`
	Value   uint64        `json:"value,omitempty"`
}

// Parse a replay script file, exiting on malformed input.
func readScriptFile(filename string) []scriptEvent {
	var events []scriptEvent
	//
	bytes, err := os.ReadFile(filename)
	if err == nil {
		err = json.Unmarshal(bytes, &events)
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return events
}

// replayScript feeds a recorded event sequence through a backend, stopping
// at the first lowering failure.
func replayScript(backend unroll.Backend, events []scriptEvent) error {
	for i, event := range events {
		if err := applyEvent(backend, event); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, event.Op, err)
		}
	}
	//
	return nil
}

// applyEvent dispatches a single script event to the corresponding backend
// callback.
func applyEvent(backend unroll.Backend, event scriptEvent) error {
	switch event.Op {
	case "version":
		backend.Version(event.Version)
	case "qreg":
		return backend.QReg(event.Name, event.Size)
	case "creg":
		return backend.CReg(event.Name, event.Size)
	case "gate":
		backend.DefineGate(event.Name, unroll.GateDefinition{
			Opaque:    event.Opaque,
			NumParams: event.Params,
			NumQubits: event.Arity,
		})
	case "u":
		if len(event.Args) != 3 || event.Qubit == nil {
			return fmt.Errorf("malformed u event")
		}
		//
		return backend.U(event.Args[0], event.Args[1], event.Args[2], event.Qubit.bitRef())
	case "cx":
		if event.Control == nil || event.Target == nil {
			return fmt.Errorf("malformed cx event")
		}
		//
		return backend.CX(event.Control.bitRef(), event.Target.bitRef())
	case "measure":
		if event.Qubit == nil || event.Cbit == nil {
			return fmt.Errorf("malformed measure event")
		}
		//
		return backend.Measure(event.Qubit.bitRef(), event.Cbit.bitRef())
	case "reset":
		if event.Qubit == nil {
			return fmt.Errorf("malformed reset event")
		}
		//
		return backend.Reset(event.Qubit.bitRef())
	case "barrier":
		groups := make([][]circuit.BitRef, len(event.Groups))
		//
		for i, group := range event.Groups {
			groups[i] = refsOf(group)
		}
		//
		backend.Barrier(groups)
	case "if":
		backend.SetCondition(event.Creg, event.Value)
	case "endif":
		backend.DropCondition()
	case "start":
		return backend.StartGate(event.Name, event.Args, refsOf(event.Qubits))
	case "end":
		backend.EndGate(event.Name, event.Args, refsOf(event.Qubits))
	default:
		return fmt.Errorf("unknown event op %q", event.Op)
	}
	//
	return nil
}

func refsOf(refs []scriptRef) []circuit.BitRef {
	result := make([]circuit.BitRef, len(refs))
	//
	for i, ref := range refs {
		result[i] = ref.bitRef()
	}
	//
	return result
}

// printSummary reports the unrolled artifact on stdout.
func printSummary(backend *unroll.SimulatorBackend, matrices bool) {
	var (
		circ  = backend.Circuit()
		width = terminalWidth()
	)
	//
	fmt.Printf("qubits: %d, cbits: %d, operations: %d\n",
		circ.NumQubits(), circ.NumCbits(), circ.NumOperations())
	fmt.Printf("basis: %v\n", backend.Basis())
	//
	for i, op := range circ.Operations() {
		fmt.Printf("%4d: %s\n", i, truncate(op.String(), width-6))
		//
		if matrices && op.Kind() == circuit.OpGate {
			fmt.Printf("      %s\n", truncate(op.Matrix().String(), width-6))
		}
	}
}

// terminalWidth determines how wide output lines may be, falling back on a
// conventional width when stdout is not a terminal.
func terminalWidth() uint {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return uint(w)
	}
	//
	return 80
}

func truncate(line string, width uint) string {
	if width < 4 || uint(len(line)) <= width {
		return line
	}
	//
	return line[:width-3] + "..."
}
