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

	"github.com/notargets/hexkernel/InputParameters"
	"github.com/notargets/hexkernel/dispatch"
	"github.com/notargets/hexkernel/hexelement"
	"github.com/notargets/hexkernel/utils"
	"github.com/notargets/hexkernel/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Evaluator fills an element batch, either through a dispatch policy on the
// host or on a device
type Evaluator interface {
	Name() string
	Evaluate(eb *hexelement.ElementBatch) error
}

type policyEvaluator struct {
	dispatch.Policy
}

func (pe policyEvaluator) Evaluate(eb *hexelement.ElementBatch) error {
	eb.Evaluate(pe.Policy)
	return nil
}

// deviceEvaluator is set by builds that carry a device backend
var deviceEvaluator func(cp *InputParameters.CaseParameters) (Evaluator, func(), error)

func newEvaluator(cp *InputParameters.CaseParameters) (ev Evaluator, free func(), err error) {
	if deviceEvaluator != nil {
		if ev, free, err = deviceEvaluator(cp); ev != nil || err != nil {
			return
		}
	}
	var p dispatch.Policy
	if p, err = cp.NewPolicy(); err != nil {
		return
	}
	return policyEvaluator{p}, func() {}, nil
}

// EvaluateCmd represents the evaluate command
var EvaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate shape functions, Jacobians and gradients for every element of a case",
	Long: `Evaluate shape functions, Jacobians and gradients for every element of a case.
Without a case file the built in irregular hexahedron is used. Example case file:
` + exampleFile,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var cp *InputParameters.CaseParameters
		if cp, err = loadCase(viper.GetViper()); err != nil {
			return
		}
		cp.Print(cmd.OutOrStdout())
		verbose, _ := cmd.Flags().GetBool("verbose")
		return RunEvaluate(cmd.OutOrStdout(), cp, verbose)
	},
}

func init() {
	rootCmd.AddCommand(EvaluateCmd)
	EvaluateCmd.Flags().BoolP("verbose", "v", false, "print N, detJ and dNdX at every quadrature point")
}

// RunEvaluate evaluates the case and writes a per element summary. Elements
// failing the mesh quality check are reported but still evaluated.
func RunEvaluate(w io.Writer, cp *InputParameters.CaseParameters, verbose bool) (err error) {
	var (
		eb   = cp.NewElementBatch()
		ev   Evaluator
		free func()
	)
	if ev, free, err = newEvaluator(cp); err != nil {
		return
	}
	defer free()
	if qErr := validation.CheckBatchElements(eb); qErr != nil {
		fmt.Fprintf(w, "warning: %v\n", qErr)
	}
	if err = ev.Evaluate(eb); err != nil {
		return
	}
	fmt.Fprintf(w, "Evaluated %d elements (%d points) with %s\n", eb.K, eb.Slots(), ev.Name())
	fmt.Fprintf(w, "%8s %14s %14s %14s %7s\n", "element", "min detJ", "max detJ", "volume", "finite")
	for k := 0; k < eb.K; k++ {
		var (
			lo, hi = eb.DetJRange(k)
			finite = elementFinite(eb, k)
		)
		fmt.Fprintf(w, "%8d %14.6e %14.6e %14.6e %7v\n", k, lo, hi, eb.Volume(k), finite)
		if verbose {
			printElement(w, eb, k)
		}
	}
	return
}

func elementFinite(eb *hexelement.ElementBatch, k int) bool {
	for q := 0; q < hexelement.NumQuadraturePoints; q++ {
		e := k*hexelement.NumQuadraturePoints + q
		if !utils.IsFinite(eb.DetJ.At(e)) || !utils.IsFinite(eb.DNDX.Slab(e)) {
			return false
		}
	}
	return true
}

func printElement(w io.Writer, eb *hexelement.ElementBatch, k int) {
	for q := 0; q < hexelement.NumQuadraturePoints; q++ {
		e := k*hexelement.NumQuadraturePoints + q
		fmt.Fprintf(w, "  q = %d, detJ = %.16g\n", q, eb.DetJ.At(e))
		for a := 0; a < hexelement.NumNodes; a++ {
			fmt.Fprintf(w, "    N[%d] = %.16f, dNdX[%d] = [%23.16e %23.16e %23.16e]\n",
				a, eb.N.At(e, a), a, eb.DNDX.At(e, a, 0), eb.DNDX.At(e, a, 1), eb.DNDX.At(e, a, 2))
		}
	}
}
