// vitalbench_generate_data synthesizes the patient vitals dataset as CSV,
// with an optional schema JSON sidecar, ready for the loaders.
package main

import (
	"fmt"
	"log"

	"github.com/blagojts/viper"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/pkg/dataset"
)

var (
	config   dataset.GeneratorConfig
	validate bool
)

func init() {
	config.AddToFlagSet(pflag.CommandLine)
	pflag.Bool("validate", false, "Re-read the generated file and run the quality checks on it")
	pflag.Parse()

	err := utils.SetupConfigFile()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	validate = viper.GetBool("validate")
}

func main() {
	g := &dataset.Generator{}
	if err := g.Generate(&config); err != nil {
		log.Fatal(err)
	}

	if validate {
		if config.File == "" {
			log.Fatal("--validate requires --file, cannot re-read stdout")
		}
		checks, passed, err := dataset.ValidateFile(config.File)
		if err != nil {
			log.Fatal(err)
		}
		for _, c := range checks {
			status := "PASS"
			if !c.Passed {
				status = "FAIL"
			}
			fmt.Printf("%s %s: %s\n", status, c.Name, c.Detail)
		}
		if !passed {
			log.Fatal("dataset quality checks failed")
		}
	}
}
