//go:build linux

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// countHardware runs f twice, once under each hardware counter
func countHardware(f func() error) (cycles, instructions uint64, err error) {
	var pv *perf.ProfileValue
	if pv, err = perf.CPUCycles(f); err != nil {
		return 0, 0, fmt.Errorf("perf cycles: %w", err)
	}
	cycles = pv.Value
	if pv, err = perf.CPUInstructions(f); err != nil {
		return 0, 0, fmt.Errorf("perf instructions: %w", err)
	}
	instructions = pv.Value
	return
}
