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
	"errors"
	"fmt"
	"io"

	"github.com/notargets/hexkernel/InputParameters"
	"github.com/notargets/hexkernel/dispatch"
	"github.com/notargets/hexkernel/hexelement"
	"github.com/notargets/hexkernel/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

var ErrBackendsDiffer = errors.New("dispatch backends produced different results")

// ValidateCmd represents the validate command
var ValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the kernel against the reference evaluation and across dispatch backends",
	Long: `Check the kernel against the reference evaluation and across dispatch backends.
The elements are first checked for inverted or degenerate geometry, then every
quadrature point is compared with an independent evaluation to the case
tolerance, then the sequential, host and accelerator backends are required to
agree bit for bit.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var cp *InputParameters.CaseParameters
		if cp, err = loadCase(viper.GetViper()); err != nil {
			return
		}
		cp.Print(cmd.OutOrStdout())
		return RunValidate(cmd.OutOrStdout(), cp)
	},
}

func init() {
	rootCmd.AddCommand(ValidateCmd)
}

func RunValidate(w io.Writer, cp *InputParameters.CaseParameters) (err error) {
	var (
		eb   = cp.NewElementBatch()
		ev   Evaluator
		free func()
	)
	if err = validation.CheckBatchElements(eb); err != nil {
		return
	}
	fmt.Fprintf(w, "%d elements pass the mesh quality check\n", eb.K)

	if ev, free, err = newEvaluator(cp); err != nil {
		return
	}
	defer free()
	if err = ev.Evaluate(eb); err != nil {
		return
	}
	if err = validation.VerifyBatch(eb, cp.Tolerance); err != nil {
		fmt.Fprintf(w, "%s: %d mismatches against the reference\n", ev.Name(), len(multierr.Errors(err)))
		return
	}
	fmt.Fprintf(w, "%s: %d points agree with the reference to %8.2e\n", ev.Name(), eb.Slots(), cp.Tolerance)

	var (
		reference = cp.NewElementBatch()
		policies  = []dispatch.Policy{
			dispatch.HostConcurrent{Workers: cp.Workers},
			dispatch.AcceleratorConcurrent{BlockSize: cp.BlockSize},
		}
	)
	reference.Evaluate(dispatch.Sequential{})
	for _, p := range policies {
		other := cp.NewElementBatch()
		other.Evaluate(p)
		if e := compareBatches(reference, other); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s against sequential: %w", p.Name(), e))
			continue
		}
		fmt.Fprintf(w, "%s: identical to sequential\n", p.Name())
	}
	return
}

func compareBatches(a, b *hexelement.ElementBatch) error {
	for _, pair := range []struct {
		name string
		x, y []float64
	}{
		{"N", a.N.Data(), b.N.Data()},
		{"detJ", a.DetJ.Data(), b.DetJ.Data()},
		{"dNdX", a.DNDX.Data(), b.DNDX.Data()},
	} {
		for i := range pair.x {
			if pair.x[i] != pair.y[i] {
				return fmt.Errorf("%w: %s[%d] = %.17g and %.17g", ErrBackendsDiffer, pair.name, i, pair.x[i], pair.y[i])
			}
		}
	}
	return nil
}
