/*
 * Copyright (C) 2023 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package main

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/algoviz/steptrace/pkg/config"
	"github.com/algoviz/steptrace/pkg/session"
)

var (
	buildVersion = "unknown"
	buildDate    = "unknown"
	cfgFile      string
	envPrefix    = "STEPTRACE"
	opts         config.Options
)

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:   "steptrace",
	Short: "Run data-structure and graph algorithms step by step and print every intermediate state",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

// initConfig use config file and ENV variables if set.
func initConfig() {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal(err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(".steptrace")
	}

	// Read environment variables that match prefix
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// If a config file is found, read it in.
	cfgErr := v.ReadInConfig()

	bindFlags(rootCmd, v)

	// initialize logger
	initLogger()

	if cfgErr != nil {
		log.Debugf("no config file read: %v", cfgErr)
	}
}

func initLogger() {
	ll, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.Contains(f.Name, ".") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, ".", "_"))
			_ = v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix))
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			_ = cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func initFlags() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.steptrace)")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "error", "Log level: debug, info, warning, error")
	rootCmd.PersistentFlags().StringVar(&opts.Mode, "mode", "bst", "Session mode: bst, avl, tree23, tree234, minheap, maxheap, huffman, graph")
	rootCmd.PersistentFlags().BoolVar(&opts.Directed, "directed", false, "Treat the graph as directed (graph mode)")
	rootCmd.PersistentFlags().IntVar(&opts.Speed, "speed", 5, "Replay speed, 1..10")
	rootCmd.PersistentFlags().StringVar(&opts.Scenario, "scenario", "", "Scenario file with a command sequence (yaml or json)")
	rootCmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Dump the final trace as JSON instead of printing steps")
}

func main() {
	initFlags()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() {
	fmt.Printf("Starting steptrace:\n=====\nBuild version: %s\nBuild date: %s\n\n", buildVersion, buildDate)

	if opts.Scenario == "" {
		log.Error("no scenario file given, nothing to run")
		os.Exit(1)
	}
	sc, err := config.LoadScenario(opts.Scenario)
	if err != nil {
		log.Errorf("error loading scenario: %v", err)
		os.Exit(1)
	}
	mode := opts.Mode
	if sc.Mode != "" {
		mode = sc.Mode
	}

	s, err := session.New(session.Config{
		Mode:     session.Mode(mode),
		Directed: opts.Directed || sc.Directed,
		Display:  sc.Display,
	})
	if err != nil {
		log.Errorf("failed to initialize session: %v", err)
		os.Exit(1)
	}

	for _, cmd := range sc.Commands {
		if err := s.Apply(cmd); err != nil {
			log.Errorf("command %s failed: %v", cmd.Op, err)
		}
	}

	if opts.JSON {
		dumpTrace(s)
	} else {
		printSteps(s)
	}

	fmt.Println("\nEvent log:")
	for _, line := range s.EventLog() {
		fmt.Printf("  %s\n", line)
	}
	log.Debugf("exiting main run")
}

// printSteps walks the last generated trace through the replay
// controller, printing one line per step.
func printSteps(s *session.Session) {
	ctl := s.Controller()
	tr := ctl.Trace()
	if tr == nil {
		return
	}
	fmt.Printf("Trace %s/%s (%d steps):\n", tr.Family(), tr.Op(), tr.Len())
	ctl.Reset()
	for {
		step, ok := ctl.Current()
		if !ok {
			return
		}
		fmt.Printf("  [%3d] %-18s %s\n", step.Index, step.Kind, step.Description)
		if !ctl.StepForward() {
			return
		}
	}
}

func dumpTrace(s *session.Session) {
	tr := s.Controller().Trace()
	if tr == nil {
		return
	}
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	b, err := json.MarshalIndent(tr.Steps(), "", "  ")
	if err != nil {
		log.Errorf("error dumping trace: %v", err)
		return
	}
	fmt.Println(string(b))
}
