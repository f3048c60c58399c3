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
	"io"
	"time"

	"github.com/notargets/hexkernel/InputParameters"
	"github.com/notargets/hexkernel/dispatch"
	"github.com/notargets/hexkernel/hexelement"
	"github.com/notargets/hexkernel/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Bench struct {
	Elements int    // batch size, the case elements are repeated to fill it
	Profile  string // "", "cpu" or "mem"
	Perf     bool   // count CPU cycles and instructions through perf events
	All      bool   // time every dispatch policy, not only the selected one
}

type BenchResult struct {
	Name                 string
	Elapsed              time.Duration
	PointsPerSecond      float64
	Cycles, Instructions uint64
}

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time repeated batch evaluations under each dispatch policy",
	Long: `Time repeated batch evaluations under each dispatch policy.
The case elements are tiled to the requested batch size and evaluated Repeat
times. Optionally writes a pprof profile or reads hardware counters.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			cp *InputParameters.CaseParameters
			b  = &Bench{}
		)
		if cp, err = loadCase(viper.GetViper()); err != nil {
			return
		}
		b.Elements, _ = cmd.Flags().GetInt("elements")
		b.Profile, _ = cmd.Flags().GetString("profile")
		b.Perf, _ = cmd.Flags().GetBool("perf")
		b.All, _ = cmd.Flags().GetBool("all")
		if repeat, _ := cmd.Flags().GetInt("repeat"); repeat > 0 {
			cp.Repeat = repeat
		}
		cp.Print(cmd.OutOrStdout())
		switch b.Profile {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		default:
			return fmt.Errorf("unknown profile type %q, use cpu or mem", b.Profile)
		}
		_, err = RunBench(cmd.OutOrStdout(), cp, b)
		return
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().IntP("elements", "k", 100000, "number of elements in the benchmark batch")
	BenchCmd.Flags().IntP("repeat", "r", 0, "evaluations per policy, 0 = case file Repeat")
	BenchCmd.Flags().String("profile", "", "write a pprof profile of the run: cpu or mem")
	BenchCmd.Flags().Bool("perf", false, "count CPU cycles and instructions with perf events (linux)")
	BenchCmd.Flags().BoolP("all", "a", false, "time the sequential, host and accelerator policies")
}

// tileCase repeats the case elements cyclically into a batch of K elements
func tileCase(cp *InputParameters.CaseParameters, K int) (eb *hexelement.ElementBatch) {
	eb = hexelement.NewElementBatch(K)
	for k := 0; k < K; k++ {
		X := [hexelement.NumNodes][hexelement.NumDims]float64(cp.Elements[k%len(cp.Elements)])
		eb.SetElement(k, &X)
	}
	return
}

func RunBench(w io.Writer, cp *InputParameters.CaseParameters, b *Bench) (results []BenchResult, err error) {
	if b.Elements < 1 {
		return nil, fmt.Errorf("benchmark needs at least one element, have %d", b.Elements)
	}
	var (
		eb         = tileCase(cp, b.Elements)
		evaluators []Evaluator
	)
	if b.All {
		for _, p := range []dispatch.Policy{
			dispatch.Sequential{},
			dispatch.HostConcurrent{Workers: cp.Workers},
			dispatch.AcceleratorConcurrent{BlockSize: cp.BlockSize},
		} {
			evaluators = append(evaluators, policyEvaluator{p})
		}
	} else {
		var (
			ev   Evaluator
			free func()
		)
		if ev, free, err = newEvaluator(cp); err != nil {
			return
		}
		defer free()
		evaluators = append(evaluators, ev)
	}
	fmt.Fprintf(w, "%d elements, %d points, %d repetitions\n", eb.K, eb.Slots(), cp.Repeat)
	for _, ev := range evaluators {
		var (
			res = BenchResult{Name: ev.Name()}
			run = func() (err error) {
				for i := 0; i < cp.Repeat; i++ {
					if err = ev.Evaluate(eb); err != nil {
						return
					}
				}
				return
			}
		)
		start := time.Now()
		if b.Perf {
			if res.Cycles, res.Instructions, err = countHardware(run); err != nil {
				return
			}
		} else if err = run(); err != nil {
			return
		}
		res.Elapsed = time.Since(start)
		res.PointsPerSecond = float64(eb.Slots()*cp.Repeat) / res.Elapsed.Seconds()
		fmt.Fprintf(w, "%-18s %12v %14.4e points/s", res.Name, res.Elapsed, res.PointsPerSecond)
		if b.Perf {
			fmt.Fprintf(w, " %14d cycles %14d instructions", res.Cycles, res.Instructions)
		}
		fmt.Fprintln(w)
		results = append(results, res)
	}
	fmt.Fprintln(w, utils.GetMemUsage())
	return
}
