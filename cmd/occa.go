//go:build occa

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
	"github.com/notargets/hexkernel/InputParameters"
	"github.com/notargets/hexkernel/hexelement"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.PersistentFlags().String("occaDevice", "", `OCCA device to run on instead of the dispatch policy, e.g. '{"mode": "Serial"}'`)
	if err := viper.BindPFlag("occaDevice", rootCmd.PersistentFlags().Lookup("occaDevice")); err != nil {
		panic(err)
	}
	deviceEvaluator = func(cp *InputParameters.CaseParameters) (ev Evaluator, free func(), err error) {
		deviceInfo := viper.GetString("occaDevice")
		if len(deviceInfo) == 0 {
			return
		}
		var oe *hexelement.OCCAEvaluator
		if oe, err = hexelement.NewOCCAEvaluator(deviceInfo, cp.BlockSize); err != nil {
			return
		}
		return oe, oe.Free, nil
	}
}
