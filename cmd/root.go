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
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/notargets/hexkernel/InputParameters"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hexkernel",
	Short: "Hexahedral shape function kernel",
	Long: `
Evaluates trilinear shape functions, Jacobian determinants and physical
gradients at the 2x2x2 Gauss points of batches of 8 node hexahedra, under
sequential, host concurrent or accelerator style dispatch.

hexkernel evaluate -I case.yaml --policy host`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hexkernel.yaml)")
	rootCmd.PersistentFlags().StringP("inputConditionsFile", "I", "", "YAML case file with the element node coordinates and run parameters")
	rootCmd.PersistentFlags().StringP("policy", "p", "", "dispatch policy: sequential, host or accelerator")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "host policy goroutines, 0 = NumCPU")
	rootCmd.PersistentFlags().IntP("blockSize", "b", 0, "accelerator policy block size, 0 = 32")
	rootCmd.PersistentFlags().Float64P("tolerance", "t", 0, "relative tolerance used by validation")
	for _, name := range []string{"inputConditionsFile", "policy", "workers", "blockSize", "tolerance"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".hexkernel")
	}
	viper.SetEnvPrefix("HEXKERNEL")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// loadCase builds the run parameters: defaults, then the case file, then any
// of config file, environment or flags that were actually set
func loadCase(v *viper.Viper) (cp *InputParameters.CaseParameters, err error) {
	cp = InputParameters.DefaultCase()
	if fileName := v.GetString("inputConditionsFile"); len(fileName) != 0 {
		var data []byte
		if data, err = os.ReadFile(fileName); err != nil {
			return nil, err
		}
		if err = cp.Parse(data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", fileName, err)
		}
	}
	if v.IsSet("policy") {
		cp.Policy = v.GetString("policy")
	}
	if v.IsSet("workers") {
		cp.Workers = v.GetInt("workers")
	}
	if v.IsSet("blockSize") {
		cp.BlockSize = v.GetInt("blockSize")
	}
	if v.IsSet("tolerance") {
		cp.Tolerance = v.GetFloat64("tolerance")
	}
	if err = cp.Validate(); err != nil {
		return nil, err
	}
	return
}

const exampleFile = `
########################################
Title: "Two hexes"
Policy: host        # sequential, host or accelerator
Workers: 0          # 0 = NumCPU
BlockSize: 32
Tolerance: 1.e-6
Repeat: 100
Elements:
  - [[-1.1,-1.3,-1.1], [1.3,-1.1,-1.2], [-1.2,1.1,-1.1], [1.1,1.2,-1.3],
     [-1.3,-1.2,1.1], [1.1,-1.3,1.2], [-1.2,1.2,1.3], [1.2,1.1,1.1]]
  - [[0,0,0], [1,0,0], [0,1,0], [1,1,0], [0,0,1], [1,0,1], [0,1,1], [1,1,1]]
########################################
`
