// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelMatchThroughWrap(t *testing.T) {
	base := Capacity("need %d qubits", 21)
	wrapped := fmt.Errorf("request: %w", Wrap(base, "build sampler"))

	if !errors.Is(wrapped, ErrCapacityExceeded) {
		t.Fatalf("expected capacity sentinel to match: %v", wrapped)
	}
	if errors.Is(wrapped, ErrInvalidInput) {
		t.Fatalf("capacity error must not match invalid input")
	}
	if got := KindOf(wrapped); got != CapacityExceeded {
		t.Fatalf("KindOf got %v want %v", got, CapacityExceeded)
	}
}

func TestWrapKeepsLevelAndKind(t *testing.T) {
	e := Wrap(Invalid("empty"), "outer")
	if e.Kind != InvalidInput || e.ErrLv != Warn {
		t.Fatalf("unexpected kind/level: %v/%v", e.Kind, e.ErrLv)
	}

	raw := Wrap(errors.New("disk"), "outer")
	if raw.Kind != Internal || raw.ErrLv != Fatal {
		t.Fatalf("foreign cause should be internal/fatal, got %v/%v", raw.Kind, raw.ErrLv)
	}
	if errors.Is(raw, Wrap(errors.New("x"), "y")) {
		t.Fatalf("internal errors must not match each other")
	}
}

func TestSimulationCarriesCause(t *testing.T) {
	cause := errors.New("amplitudes not normalized")
	e := Simulation(cause, "run circuit")
	if !errors.Is(e, cause) {
		t.Fatalf("cause lost")
	}
	if !errors.Is(e, ErrSimulation) {
		t.Fatalf("simulation sentinel mismatch")
	}
	if !strings.Contains(e.Error(), "amplitudes not normalized") {
		t.Fatalf("message should include cause: %q", e.Error())
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		InvalidInput:     "invalid_input",
		CapacityExceeded: "capacity_exceeded",
		SimulationError:  "simulation_error",
		NoValidOutcomes:  "no_valid_outcomes",
		Kind(99):         "internal",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q want %q", k, got, want)
		}
	}
}
